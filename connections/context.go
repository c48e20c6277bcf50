package connections

import (
	"github.com/rudderlabs/rudder-go-kit/config"

	"github.com/rudderlabs/rudder-purifier/secrets"
)

// Context is the extra context needed to instantiate a live connection.
type Context struct {
	// KafkaLogLevel is the level at which the Kafka client logs, e.g. DEBUG or INFO
	KafkaLogLevel string
	// AWSExternalIDPrefix is prepended to the external id of every AssumeRole call.
	// It must come from the operator, never from a statement.
	AWSExternalIDPrefix string
	SecretsReader       secrets.Reader
}

// NewContext builds a Context out of the process configuration.
func NewContext(conf *config.Config, secretsReader secrets.Reader) Context {
	return Context{
		KafkaLogLevel:       conf.GetStringVar("INFO", "Purifier.Kafka.logLevel"),
		AWSExternalIDPrefix: conf.GetStringVar("", "Purifier.AWS.externalIDPrefix"),
		SecretsReader:       secretsReader,
	}
}
