package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rudderlabs/rudder-go-kit/config"
	"github.com/rudderlabs/rudder-go-kit/logger"
	obskit "github.com/rudderlabs/rudder-observability-kit/go/labels"

	"github.com/rudderlabs/rudder-purifier/connections"
	"github.com/rudderlabs/rudder-purifier/secrets"
	"github.com/rudderlabs/rudder-purifier/services/kafka/client"
)

// Consumer reads topic metadata out of a Kafka cluster.
type Consumer interface {
	Partitions(ctx context.Context, topic string) ([]int, error)
	OffsetsForTime(ctx context.Context, topic string, partitions []int, t time.Time) ([]int64, error)
}

// Connector builds consumers out of Kafka connections.
type Connector struct {
	logger      logger.Logger
	dialTimeout time.Duration
}

func NewConnector(conf *config.Config, log logger.Logger) *Connector {
	return &Connector{
		logger:      log.Child("kafka"),
		dialTimeout: conf.GetDurationVar(10, time.Second, "Purifier.Kafka.dialTimeout"),
	}
}

// NewConsumer connects to the first reachable broker of conn and makes sure that topic exists.
// Secrets referenced by the connection are read through reader.
func (c *Connector) NewConsumer(
	ctx context.Context,
	topic string,
	conn *connections.KafkaConnection,
	options connections.Options,
	logLevel string,
	reader secrets.Reader,
) (Consumer, error) {
	conf, err := c.clientConfig(ctx, conn, options, logLevel, reader)
	if err != nil {
		return nil, err
	}
	if len(conn.Brokers) == 0 {
		return nil, fmt.Errorf("no brokers to connect to")
	}

	var errs []error
	for _, broker := range conn.Brokers {
		kc, err := client.New("tcp", broker, conf)
		if err != nil {
			return nil, err
		}
		if err := kc.Ping(ctx); err != nil {
			c.logger.Warnn("Broker unreachable",
				logger.NewStringField("broker", broker),
				obskit.Error(err),
			)
			errs = append(errs, err)
			continue
		}
		if _, err := kc.Partitions(ctx, topic); err != nil {
			return nil, err
		}
		return kc, nil
	}
	return nil, errors.Join(errs...)
}

func (c *Connector) clientConfig(
	ctx context.Context,
	conn *connections.KafkaConnection,
	options connections.Options,
	logLevel string,
	reader secrets.Reader,
) (client.Config, error) {
	conf := client.Config{DialTimeout: c.dialTimeout}
	if id, ok := options["client.id"]; ok {
		conf.ClientID = id.Value
	}
	if strings.EqualFold(logLevel, "DEBUG") {
		conf.Logger = &debugLogger{logger: c.logger}
	}

	switch s := conn.Security.(type) {
	case nil:
	case *connections.KafkaTLSConfig:
		tlsConf, err := buildTLS(ctx, s.RootCert, s.Identity, reader)
		if err != nil {
			return conf, err
		}
		conf.TLS = tlsConf
	case *connections.KafkaSaslConfig:
		tlsConf, err := buildTLS(ctx, s.TLSRootCert, nil, reader)
		if err != nil {
			return conf, err
		}
		conf.TLS = tlsConf

		hashGen, err := client.ScramHashGeneratorFromString(s.Mechanisms)
		if err != nil {
			return conf, fmt.Errorf("invalid SASL mechanism: %w", err)
		}
		username, err := s.Username.GetString(ctx, reader)
		if err != nil {
			return conf, err
		}
		password, err := reader.ReadString(ctx, s.Password)
		if err != nil {
			return conf, err
		}
		conf.SASL = &client.SASL{ScramHashGen: hashGen, Username: username, Password: password}
	default:
		return conf, fmt.Errorf("unsupported kafka security %T", s)
	}
	return conf, nil
}

func buildTLS(
	ctx context.Context, rootCert *connections.StringOrSecret, identity *connections.TLSIdentity, reader secrets.Reader,
) (*client.TLS, error) {
	conf := &client.TLS{}
	if rootCert != nil {
		ca, err := rootCert.GetString(ctx, reader)
		if err != nil {
			return nil, err
		}
		conf.CACertificate = []byte(ca)
	} else {
		conf.WithSystemCertPool = true
	}
	if identity != nil {
		cert, err := identity.Cert.GetString(ctx, reader)
		if err != nil {
			return nil, err
		}
		key, err := reader.ReadString(ctx, identity.Key)
		if err != nil {
			return nil, err
		}
		conf.Cert, conf.Key = []byte(cert), []byte(key)
	}
	return conf, nil
}

type debugLogger struct {
	logger logger.Logger
}

func (l *debugLogger) Printf(format string, args ...interface{}) {
	l.logger.Debugf(format, args...)
}
