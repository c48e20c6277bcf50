package connections

import (
	"fmt"
	"net"
	"strings"

	"github.com/rudderlabs/rudder-purifier/secrets"
)

// Kafka client configuration keys understood by connections.
const (
	KafkaBootstrapServers   = "bootstrap.servers"
	KafkaSecurityProtocol   = "security.protocol"
	KafkaSslKey             = "ssl.key.pem"
	KafkaSslCertificate     = "ssl.certificate.pem"
	KafkaSslCA              = "ssl.ca.pem"
	KafkaSaslMechanisms     = "sasl.mechanisms"
	KafkaSaslUsername       = "sasl.username"
	KafkaSaslPassword       = "sasl.password"
	defaultKafkaBrokerPort  = "9092"
	securityProtocolSSL     = "ssl"
	securityProtocolSaslSSL = "sasl_ssl"
)

var kafkaOptionNames = map[string]string{
	KafkaBootstrapServers: "BROKER",
	KafkaSslKey:           "SSL KEY",
	KafkaSslCertificate:   "SSL CERTIFICATE",
	KafkaSslCA:            "SSL CERTIFICATE AUTHORITY",
	KafkaSaslMechanisms:   "SASL MECHANISMS",
	KafkaSaslUsername:     "SASL USERNAME",
	KafkaSaslPassword:     "SASL PASSWORD",
}

// KafkaConnection is a connection to a Kafka cluster.
type KafkaConnection struct {
	Brokers  []string
	Security KafkaSecurity
}

// KafkaSecurity is either *KafkaTLSConfig or *KafkaSaslConfig. Nil means plaintext.
type KafkaSecurity interface {
	isKafkaSecurity()
}

type KafkaTLSConfig struct {
	Identity *TLSIdentity
	RootCert *StringOrSecret
}

type KafkaSaslConfig struct {
	Mechanisms  string
	Username    StringOrSecret
	Password    secrets.ID
	TLSRootCert *StringOrSecret
}

func (*KafkaTLSConfig) isKafkaSecurity()  {}
func (*KafkaSaslConfig) isKafkaSecurity() {}

// TLSIdentity is a TLS key pair used for client authentication.
type TLSIdentity struct {
	// Cert is the public certificate in PEM format
	Cert StringOrSecret
	// Key references the secret holding the private key in PEM format
	Key secrets.ID
}

// NewKafkaConnection consumes the options needed to describe a Kafka connection and
// leaves every other option in place.
func NewKafkaConnection(opts Options) (*KafkaConnection, error) {
	var security KafkaSecurity
	protocol, ok, err := opts.removeString(KafkaSecurityProtocol)
	if err != nil {
		return nil, err
	}
	if ok {
		switch p := strings.ToLower(protocol); p {
		case securityProtocolSSL:
			key, err := requireSecret(opts, p, KafkaSslKey)
			if err != nil {
				return nil, err
			}
			cert, err := requireOption(opts, p, KafkaSslCertificate)
			if err != nil {
				return nil, err
			}
			security = &KafkaTLSConfig{
				Identity: &TLSIdentity{Cert: cert, Key: key},
				RootCert: optional(opts, KafkaSslCA),
			}
		case securityProtocolSaslSSL:
			mechanisms, err := requireOption(opts, p, KafkaSaslMechanisms)
			if err != nil {
				return nil, err
			}
			if mechanisms.IsSecret() {
				return nil, fmt.Errorf("%s must be a string, not a secret", KafkaSaslMechanisms)
			}
			username, err := requireOption(opts, p, KafkaSaslUsername)
			if err != nil {
				return nil, err
			}
			password, err := requireSecret(opts, p, KafkaSaslPassword)
			if err != nil {
				return nil, err
			}
			security = &KafkaSaslConfig{
				Mechanisms:  mechanisms.Value,
				Username:    username,
				Password:    password,
				TLSRootCert: optional(opts, KafkaSslCA),
			}
		default:
			return nil, fmt.Errorf("unsupported %s: %s", KafkaSecurityProtocol, p)
		}
	}

	servers, ok, err := opts.removeString(KafkaBootstrapServers)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("must specify %s", KafkaBootstrapServers)
	}
	brokers, err := ParseKafkaAddrs(servers)
	if err != nil {
		return nil, err
	}
	return &KafkaConnection{Brokers: brokers, Security: security}, nil
}

// Options renders the connection back into client configuration options.
func (c *KafkaConnection) Options() Options {
	opts := Options{KafkaBootstrapServers: Literal(strings.Join(c.Brokers, ","))}
	switch s := c.Security.(type) {
	case *KafkaTLSConfig:
		opts[KafkaSecurityProtocol] = Literal("SSL")
		if s.RootCert != nil {
			opts[KafkaSslCA] = *s.RootCert
		}
		if s.Identity != nil {
			opts[KafkaSslKey] = SecretRef(s.Identity.Key)
			opts[KafkaSslCertificate] = s.Identity.Cert
		}
	case *KafkaSaslConfig:
		opts[KafkaSecurityProtocol] = Literal("SASL_SSL")
		opts[KafkaSaslMechanisms] = Literal(s.Mechanisms)
		opts[KafkaSaslUsername] = s.Username
		opts[KafkaSaslPassword] = SecretRef(s.Password)
		if s.TLSRootCert != nil {
			opts[KafkaSslCA] = *s.TLSRootCert
		}
	}
	return opts
}

// ParseKafkaAddrs parses a comma separated list of brokers, defaulting the port to 9092.
func ParseKafkaAddrs(s string) ([]string, error) {
	var addrs []string
	for _, addr := range strings.Split(s, ",") {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			return nil, fmt.Errorf("invalid broker list %q: empty address", s)
		}
		if _, _, err := net.SplitHostPort(addr); err != nil {
			addr = net.JoinHostPort(addr, defaultKafkaBrokerPort)
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

func requireOption(opts Options, protocol, key string) (StringOrSecret, error) {
	v, ok := opts.Remove(key)
	if !ok {
		return StringOrSecret{}, fmt.Errorf(
			"invalid %s config: missing %s (%s)", strings.ToUpper(protocol), kafkaOptionNames[key], key,
		)
	}
	return v, nil
}

func requireSecret(opts Options, protocol, key string) (secrets.ID, error) {
	v, err := requireOption(opts, protocol, key)
	if err != nil {
		return "", err
	}
	if !v.IsSecret() {
		return "", fmt.Errorf("%s must be a secret", key)
	}
	return v.Secret, nil
}

func optional(opts Options, key string) *StringOrSecret {
	v, ok := opts.Remove(key)
	if !ok {
		return nil
	}
	return &v
}
