package client

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/phayes/freeport"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestScramHashGeneratorFromString(t *testing.T) {
	testCases := []struct {
		in      string
		want    ScramHashGenerator
		wantErr bool
	}{
		{in: "plain", want: ScramPlainText},
		{in: "PLAIN", want: ScramPlainText},
		{in: "sha256", want: ScramSHA256},
		{in: "SCRAM-SHA-256", want: ScramSHA256},
		{in: "sha512", want: ScramSHA512},
		{in: "SCRAM-SHA-512", want: ScramSHA512},
		{in: "GSSAPI", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ScramHashGeneratorFromString(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestSASLBuild(t *testing.T) {
	m, err := (&SASL{ScramHashGen: ScramPlainText, Username: "u", Password: "p"}).build()
	require.NoError(t, err)
	require.Equal(t, plain.Mechanism{Username: "u", Password: "p"}, m)

	m, err = (&SASL{ScramHashGen: ScramSHA512, Username: "u", Password: "p"}).build()
	require.NoError(t, err)
	require.Equal(t, "SCRAM-SHA-512", m.Name())

	_, err = (&SASL{ScramHashGen: 42}).build()
	require.Error(t, err)
}

func TestTLSBuild(t *testing.T) {
	conf, err := (&TLS{InsecureSkipVerify: true}).build()
	require.NoError(t, err)
	require.True(t, conf.InsecureSkipVerify)
	require.Nil(t, conf.RootCAs)

	_, err = (&TLS{CACertificate: []byte("not a pem")}).build()
	require.EqualError(t, err, "could not append CA certificate")

	_, err = (&TLS{Cert: []byte("cert"), Key: []byte("key")}).build()
	require.ErrorContains(t, err, "could not get TLS certificate")
}

func TestNew(t *testing.T) {
	c, err := New("tcp", "localhost:9092", Config{})
	require.NoError(t, err)
	require.Equal(t, "tcp", c.network)
	require.Equal(t, "localhost:9092", c.address)
	require.Equal(t, 10*time.Second, c.config.DialTimeout)
	require.Nil(t, c.dialer.TLS)
	require.Nil(t, c.dialer.SASLMechanism)

	c, err = New("tcp", "localhost:9092", Config{
		ClientID: "purifier",
		TLS:      &TLS{},
		SASL:     &SASL{ScramHashGen: ScramSHA256, Username: "u", Password: "p"},
	})
	require.NoError(t, err)
	require.Equal(t, "purifier", c.dialer.ClientID)
	require.NotNil(t, c.dialer.TLS)
	require.Equal(t, "SCRAM-SHA-256", c.dialer.SASLMechanism.Name())

	_, err = New("tcp", "localhost:9092", Config{TLS: &TLS{CACertificate: []byte("x")}})
	require.Error(t, err)
}

func TestClient_PingUnreachable(t *testing.T) {
	port, err := freeport.GetFreePort()
	require.NoError(t, err)
	address := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))

	c, err := New("tcp", address, Config{DialTimeout: time.Second})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.ErrorContains(t, c.Ping(ctx), "could not dial tcp/"+address)

	_, err = c.Partitions(ctx, "topic")
	require.Error(t, err)

	_, err = c.OffsetsForTime(ctx, "topic", []int{0}, time.Now())
	require.Error(t, err)
}

func TestClient_ContextCancelled(t *testing.T) {
	c, err := New("tcp", "127.0.0.1:9", Config{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, c.Ping(ctx))
}

func TestWithContext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	v, err := withContext(context.Background(), func() (int, error) { return 42, nil })
	require.NoError(t, err)
	require.Equal(t, 42, v)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	block := make(chan struct{})
	defer close(block)
	_, err = withContext(ctx, func() (int, error) {
		<-block
		return 0, nil
	})
	require.ErrorIs(t, err, context.Canceled)
}
