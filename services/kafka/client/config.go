package client

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// Config holds the client configuration
type Config struct {
	ClientID    string
	DialTimeout time.Duration
	TLS         *TLS
	SASL        *SASL
	// Logger receives debug messages, nil disables them
	Logger Logger
}

func (c *Config) defaults() {
	if c.DialTimeout < 1 {
		c.DialTimeout = 10 * time.Second
	}
}

// TLS provides the TLS configuration. Cert and Key must be provided together.
type TLS struct {
	CACertificate,
	Cert,
	Key []byte
	WithSystemCertPool,
	InsecureSkipVerify bool
}

func (c *TLS) build() (*tls.Config, error) {
	conf := &tls.Config{ // skipcq: GSC-G402
		MinVersion:         tls.VersionTLS11,
		MaxVersion:         tls.VersionTLS13,
		InsecureSkipVerify: c.InsecureSkipVerify,
	}

	if c.WithSystemCertPool {
		caCertPool, err := x509.SystemCertPool()
		if err != nil {
			return nil, fmt.Errorf("could not copy system cert pool: %w", err)
		}
		conf.RootCAs = caCertPool
	}

	if len(c.CACertificate) > 0 {
		if conf.RootCAs == nil {
			conf.RootCAs = x509.NewCertPool()
		}
		if !conf.RootCAs.AppendCertsFromPEM(c.CACertificate) {
			return nil, fmt.Errorf("could not append CA certificate")
		}
	}

	if len(c.Cert) > 0 || len(c.Key) > 0 {
		cert, err := tls.X509KeyPair(c.Cert, c.Key)
		if err != nil {
			return nil, fmt.Errorf("could not get TLS certificate: %w", err)
		}
		conf.Certificates = []tls.Certificate{cert}
	}

	return conf, nil
}

// ScramHashGenerator selects the SASL mechanism
type ScramHashGenerator uint8

const (
	ScramPlainText ScramHashGenerator = iota
	ScramSHA256
	ScramSHA512
)

// ScramHashGeneratorFromString accepts both short names (plain, sha256, sha512) and
// librdkafka mechanism names (PLAIN, SCRAM-SHA-256, SCRAM-SHA-512).
func ScramHashGeneratorFromString(s string) (ScramHashGenerator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plain":
		return ScramPlainText, nil
	case "sha256", "scram-sha-256":
		return ScramSHA256, nil
	case "sha512", "scram-sha-512":
		return ScramSHA512, nil
	default:
		return 0, fmt.Errorf("scram hash generator out of the known domain: %v", s)
	}
}

// SASL provides SASL authentication, which is only supported together with TLS
type SASL struct {
	ScramHashGen ScramHashGenerator
	Username,
	Password string
}

func (c *SASL) build() (sasl.Mechanism, error) {
	switch c.ScramHashGen {
	case ScramPlainText:
		return plain.Mechanism{Username: c.Username, Password: c.Password}, nil
	case ScramSHA256:
		return scram.Mechanism(scram.SHA256, c.Username, c.Password)
	case ScramSHA512:
		return scram.Mechanism(scram.SHA512, c.Username, c.Password)
	default:
		return nil, fmt.Errorf("scram hash generator out of the known domain: %v", c.ScramHashGen)
	}
}
