package awsutils

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws/arn"
	"github.com/mitchellh/mapstructure"

	"github.com/rudderlabs/rudder-purifier/sql/ast"
)

var optionNames = []string{"region", "access_key_id", "secret_access_key", "token", "role_arn", "profile", "endpoint"}

// NewSessionConfigFromOptions consumes the AWS options out of options. A non empty region
// takes precedence over the region option. The region is never inferred from the environment.
func NewSessionConfigFromOptions(options map[string]ast.Value, region, serviceName string) (*SessionConfig, error) {
	raw := make(map[string]string)
	for _, name := range optionNames {
		v, ok := options[name]
		if !ok {
			continue
		}
		delete(options, name)
		switch v := v.(type) {
		case ast.String, ast.Number:
			raw[name] = v.String()
		default:
			return nil, fmt.Errorf("invalid AWS option %s: expected a string", name)
		}
	}

	sessionConfig := SessionConfig{}
	if err := mapstructure.Decode(raw, &sessionConfig); err != nil {
		return nil, fmt.Errorf("decoding AWS options: %w", err)
	}
	if (sessionConfig.AccessKeyID == "") != (sessionConfig.AccessKey == "") {
		return nil, fmt.Errorf("access_key_id and secret_access_key must be specified together")
	}
	if sessionConfig.SessionToken != "" && sessionConfig.AccessKeyID == "" {
		return nil, fmt.Errorf("token requires access_key_id and secret_access_key")
	}
	if region != "" {
		sessionConfig.Region = region
	}
	sessionConfig.Service = serviceName
	return &sessionConfig, nil
}

// RegionFromARN returns the region of an AWS resource name.
func RegionFromARN(s string) (string, error) {
	parsed, err := arn.Parse(s)
	if err != nil {
		return "", fmt.Errorf("unable to parse provided ARN: %w", err)
	}
	if parsed.Region == "" {
		return "", fmt.Errorf("provided ARN does not include an AWS region")
	}
	return parsed.Region, nil
}
