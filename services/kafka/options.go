// Package kafka connects to Kafka clusters on behalf of sources: it extracts the client
// configuration out of source options, builds consumers and translates time based offsets.
package kafka

import (
	"fmt"
	"math"
	"sort"

	"github.com/spf13/cast"

	"github.com/rudderlabs/rudder-purifier/connections"
	"github.com/rudderlabs/rudder-purifier/secrets"
	"github.com/rudderlabs/rudder-purifier/sql/ast"
)

type valType int

const (
	stringVal valType = iota
	boolVal
	numberVal
	secretVal
	stringOrSecretVal
)

type configOption struct {
	name     string
	valType  valType
	min, max int64
}

var configOptions = []configOption{
	{name: "acks", valType: stringVal},
	{name: "client.id", valType: stringVal},
	{name: "enable.auto.commit", valType: boolVal},
	{name: "enable.idempotence", valType: boolVal},
	{name: "fetch.message.max.bytes", valType: numberVal, min: 0, max: 1_000_000_000},
	{name: "isolation.level", valType: stringVal},
	{name: connections.KafkaSecurityProtocol, valType: stringVal},
	{name: connections.KafkaSaslMechanisms, valType: stringVal},
	{name: connections.KafkaSaslUsername, valType: stringOrSecretVal},
	{name: connections.KafkaSaslPassword, valType: secretVal},
	{name: connections.KafkaSslCA, valType: stringOrSecretVal},
	{name: connections.KafkaSslCertificate, valType: stringOrSecretVal},
	{name: connections.KafkaSslKey, valType: secretVal},
	{name: "statistics.interval.ms", valType: numberVal, min: 0, max: 86_400_000},
	{name: "topic.metadata.refresh.interval.ms", valType: numberVal, min: 0, max: 3_600_000},
	{name: "transaction.timeout.ms", valType: numberVal, min: 0, max: math.MaxInt32},
}

// ExtractConfig removes the Kafka client configuration out of options and returns it.
// Options unrelated to the client are left in place.
func ExtractConfig(options map[string]ast.Value) (connections.Options, error) {
	extracted := connections.Options{}
	for _, opt := range configOptions {
		v, ok := options[opt.name]
		if !ok {
			continue
		}
		delete(options, opt.name)

		value, err := opt.validate(v)
		if err != nil {
			return nil, err
		}
		extracted[opt.name] = value
	}
	return extracted, nil
}

func (o configOption) validate(v ast.Value) (connections.StringOrSecret, error) {
	invalid := func(expected string) error {
		return fmt.Errorf("invalid %s option %s: expected %s", o.name, valueString(v), expected)
	}

	if secret, ok := v.(ast.Secret); ok {
		if o.valType != secretVal && o.valType != stringOrSecretVal {
			return connections.StringOrSecret{}, fmt.Errorf("%s must be a string, not a secret", o.name)
		}
		return connections.SecretRef(secrets.ID(secret.ID)), nil
	}
	if _, ok := v.(ast.Array); ok || v == nil {
		return connections.StringOrSecret{}, invalid("a scalar value")
	}

	switch o.valType {
	case secretVal:
		return connections.StringOrSecret{}, fmt.Errorf("%s must be a secret", o.name)
	case boolVal:
		b, err := cast.ToBoolE(v.String())
		if err != nil {
			return connections.StringOrSecret{}, invalid("a boolean")
		}
		return connections.Literal(cast.ToString(b)), nil
	case numberVal:
		n, err := cast.ToInt64E(v.String())
		if err != nil {
			return connections.StringOrSecret{}, invalid("a number")
		}
		if n < o.min || n > o.max {
			return connections.StringOrSecret{}, invalid(fmt.Sprintf("a number between %d and %d", o.min, o.max))
		}
		return connections.Literal(cast.ToString(n)), nil
	default:
		return connections.Literal(v.String()), nil
	}
}

// ConfigOptionNames returns the names of the options ExtractConfig understands, sorted.
func ConfigOptionNames() []string {
	names := make([]string, 0, len(configOptions))
	for _, opt := range configOptions {
		names = append(names, opt.name)
	}
	sort.Strings(names)
	return names
}

func valueString(v ast.Value) string {
	if v == nil {
		return "<none>"
	}
	return v.String()
}
