// Package awsutils builds AWS sessions out of source options and validates their credentials.
package awsutils

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/credentials/stscreds"
	"github.com/aws/aws-sdk-go/aws/session"
)

type SessionConfig struct {
	Region       string        `mapstructure:"region"`
	AccessKeyID  string        `mapstructure:"access_key_id"`
	AccessKey    string        `mapstructure:"secret_access_key"`
	SessionToken string        `mapstructure:"token"`
	IAMRoleARN   string        `mapstructure:"role_arn"`
	Profile      string        `mapstructure:"profile"`
	Endpoint     string        `mapstructure:"endpoint"`
	ExternalID   string        `mapstructure:"-"`
	Service      string        `mapstructure:"-"`
	Timeout      time.Duration `mapstructure:"-"`
}

func createRoleSessionName(serviceName string) string {
	return fmt.Sprintf("rudderstack-aws-%s-access", strings.ToLower(serviceName))
}

func (config *SessionConfig) awsConfig() *aws.Config {
	conf := &aws.Config{
		HTTPClient: &http.Client{
			Timeout: config.Timeout,
		},
		Region:     aws.String(config.Region),
		MaxRetries: aws.Int(0),
	}
	if config.Endpoint != "" {
		conf.Endpoint = aws.String(config.Endpoint)
	}
	return conf
}

func createDefaultSession(config *SessionConfig) (*session.Session, error) {
	return session.NewSessionWithOptions(session.Options{
		Config:  *config.awsConfig(),
		Profile: config.Profile,
	})
}

func createCredentialsForRole(config *SessionConfig) (*credentials.Credentials, error) {
	hostSession, err := createDefaultSession(config)
	if err != nil {
		return nil, err
	}
	return stscreds.NewCredentials(hostSession, config.IAMRoleARN,
		func(p *stscreds.AssumeRoleProvider) {
			if config.ExternalID != "" {
				p.ExternalID = aws.String(config.ExternalID)
			}
			p.RoleSessionName = createRoleSessionName(config.Service)
		}), nil
}

func createCredentials(config *SessionConfig) (*credentials.Credentials, error) {
	if config.IAMRoleARN != "" {
		return createCredentialsForRole(config)
	} else if config.AccessKey != "" && config.AccessKeyID != "" {
		return credentials.NewStaticCredentials(config.AccessKeyID, config.AccessKey, config.SessionToken), nil
	}
	return nil, nil
}

// CreateSession returns a session for config. Without explicit credentials or role the
// default credential chain applies.
func CreateSession(config *SessionConfig) (*session.Session, error) {
	creds, err := createCredentials(config)
	if err != nil {
		return nil, fmt.Errorf("creating credentials: %w", err)
	}
	awsConfig := config.awsConfig()
	awsConfig.Credentials = creds
	sess, err := session.NewSessionWithOptions(session.Options{
		Config:  *awsConfig,
		Profile: config.Profile,
	})
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return sess, nil
}
