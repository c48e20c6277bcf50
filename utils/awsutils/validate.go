package awsutils

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/service/sts"

	"github.com/rudderlabs/rudder-go-kit/config"
	"github.com/rudderlabs/rudder-go-kit/logger"
)

// Validator checks AWS credentials with an always valid STS call.
type Validator struct {
	logger        logger.Logger
	defaultRegion string
	timeout       time.Duration
}

func NewValidator(conf *config.Config, log logger.Logger) *Validator {
	return &Validator{
		logger:        log.Child("aws"),
		defaultRegion: conf.GetStringVar("us-east-1", "Purifier.AWS.defaultRegion"),
		timeout:       conf.GetDurationVar(30, time.Second, "Purifier.AWS.timeout"),
	}
}

// ValidateCredentials calls sts:GetCallerIdentity with the credentials of sessionConfig.
// Roles are assumed with externalIDPrefix as external id.
func (v *Validator) ValidateCredentials(ctx context.Context, sessionConfig *SessionConfig, externalIDPrefix string) error {
	conf := *sessionConfig
	if conf.Region == "" {
		conf.Region = v.defaultRegion
	}
	if conf.Timeout == 0 {
		conf.Timeout = v.timeout
	}
	conf.ExternalID = externalIDPrefix

	sess, err := CreateSession(&conf)
	if err != nil {
		return fmt.Errorf("unable to validate AWS credentials: %w", err)
	}
	identity, err := sts.New(sess).GetCallerIdentityWithContext(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return fmt.Errorf("unable to validate AWS credentials: %w", err)
	}
	v.logger.Debugn("Validated AWS credentials",
		logger.NewStringField("service", conf.Service),
		logger.NewStringField("arn", stringValue(identity.Arn)),
	)
	return nil
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
