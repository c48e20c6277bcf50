package client

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/segmentio/kafka-go"
)

// ErrUnknownTopic is returned when the topic does not exist or has no partitions
var ErrUnknownTopic = errors.New("unknown topic")

// Logger receives the debug messages of a Client
type Logger interface {
	Printf(format string, args ...interface{})
}

// Client reads topic metadata and offsets from a Kafka cluster
type Client struct {
	network, address string
	dialer           *kafka.Dialer
	config           *Config
}

// New returns a client for the broker at address. Nothing is dialled until the first call.
func New(network, address string, conf Config) (*Client, error) {
	conf.defaults()

	dialer := &kafka.Dialer{
		DualStack: true,
		Timeout:   conf.DialTimeout,
		ClientID:  conf.ClientID,
	}

	var err error
	if conf.TLS != nil {
		if dialer.TLS, err = conf.TLS.build(); err != nil {
			return nil, err
		}
	}
	if conf.SASL != nil {
		if dialer.SASLMechanism, err = conf.SASL.build(); err != nil {
			return nil, err
		}
	}

	return &Client{network: network, address: address, dialer: dialer, config: &conf}, nil
}

// Ping dials the broker and discards the connection
func (c *Client) Ping(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	closeAsync(conn)
	return nil
}

// Partitions returns the sorted partition ids of topic
func (c *Client) Partitions(ctx context.Context, topic string) ([]int, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer closeAsync(conn)

	partitions, err := withContext(ctx, func() ([]kafka.Partition, error) {
		return conn.ReadPartitions(topic)
	})
	if err != nil {
		var kafkaErr kafka.Error
		if errors.As(err, &kafkaErr) && kafkaErr == kafka.UnknownTopicOrPartition {
			return nil, fmt.Errorf("topic %q: %w", topic, ErrUnknownTopic)
		}
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("could not read partitions: %w", err)
	}

	ids := make([]int, 0, len(partitions))
	for _, p := range partitions {
		if p.Topic == topic {
			ids = append(ids, p.ID)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("topic %q: %w", topic, ErrUnknownTopic)
	}
	sort.Ints(ids)
	c.debugf("Topic %q has %d partitions", topic, len(ids))
	return ids, nil
}

func (c *Client) dial(ctx context.Context) (*kafka.Conn, error) {
	conn, err := c.dialer.DialContext(ctx, c.network, c.address)
	if err != nil {
		return nil, fmt.Errorf("could not dial %s/%s: %w", c.network, c.address, err)
	}
	return conn, nil
}

// withContext runs f, which ignores ctx, in its own goroutine and gives up when ctx is done.
func withContext[T any](ctx context.Context, f func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := f()
		done <- result{v: v, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-done:
		return r.v, r.err
	}
}

// closeAsync closes conn without blocking the caller past its context
func closeAsync(conn *kafka.Conn) {
	go func() { _ = conn.Close() }()
}

func (c *Client) debugf(format string, args ...interface{}) {
	if c.config.Logger != nil {
		c.config.Logger.Printf(format, args...)
	}
}
