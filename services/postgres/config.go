// Package postgres introspects PostgreSQL publications for logical replication sources.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	_ "github.com/lib/pq"
	stunnel "github.com/rudderlabs/sql-tunnels/driver/ssh"

	"github.com/rudderlabs/rudder-purifier/connections"
	"github.com/rudderlabs/rudder-purifier/secrets"
)

// Config holds the plaintext parameters needed to connect to a Postgres server.
type Config struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string

	SSLMode     string
	SSLRootCert string
	SSLCert     string
	SSLKey      string

	ConnectTimeout time.Duration
	// Tunnel is set when the server is only reachable through an SSH bastion
	Tunnel *stunnel.Config
}

// NewConfig reads the secrets of conn, and of tunnel if any, and returns the resulting config.
func NewConfig(
	ctx context.Context, conn *connections.PostgresConnection, tunnel *connections.SSHConnection, reader secrets.Reader,
) (*Config, error) {
	user, err := conn.User.GetString(ctx, reader)
	if err != nil {
		return nil, fmt.Errorf("reading postgres user: %w", err)
	}
	conf := &Config{
		Host:     conn.Host,
		Port:     int(conn.Port),
		Database: conn.Database,
		User:     user,
		SSLMode:  conn.TLSMode,
	}
	if conn.Password != nil {
		if conf.Password, err = reader.ReadString(ctx, *conn.Password); err != nil {
			return nil, fmt.Errorf("reading postgres password: %w", err)
		}
	}
	if conn.TLSRootCert != nil {
		if conf.SSLRootCert, err = conn.TLSRootCert.GetString(ctx, reader); err != nil {
			return nil, fmt.Errorf("reading postgres root certificate: %w", err)
		}
	}
	if conn.TLSIdentity != nil {
		if conf.SSLCert, err = conn.TLSIdentity.Cert.GetString(ctx, reader); err != nil {
			return nil, fmt.Errorf("reading postgres certificate: %w", err)
		}
		if conf.SSLKey, err = reader.ReadString(ctx, conn.TLSIdentity.Key); err != nil {
			return nil, fmt.Errorf("reading postgres key: %w", err)
		}
	}
	if tunnel != nil {
		privateKey, err := reader.ReadString(ctx, tunnel.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("reading ssh private key: %w", err)
		}
		conf.Tunnel = &stunnel.Config{
			User:       tunnel.User,
			Host:       tunnel.Host,
			Port:       tunnel.Port,
			PrivateKey: []byte(privateKey),
		}
	}
	return conf, nil
}

// DSN returns the connection string understood by lib/pq. Certificates are passed inline.
func (c *Config) DSN() string {
	query := url.Values{}
	query.Set("sslmode", c.SSLMode)
	if c.SSLRootCert != "" || c.SSLCert != "" {
		query.Set("sslinline", "true")
	}
	if c.SSLRootCert != "" {
		query.Set("sslrootcert", c.SSLRootCert)
	}
	if c.SSLCert != "" {
		query.Set("sslcert", c.SSLCert)
		query.Set("sslkey", c.SSLKey)
	}
	if c.ConnectTimeout > 0 {
		query.Set("connect_timeout", strconv.Itoa(int(c.ConnectTimeout.Seconds())))
	}

	dsn := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Database,
		RawQuery: query.Encode(),
	}
	if c.Password != "" {
		dsn.User = url.UserPassword(c.User, c.Password)
	} else {
		dsn.User = url.User(c.User)
	}
	return dsn.String()
}

// Open connects to the server, through the SSH tunnel if one is configured.
func (c *Config) Open(ctx context.Context) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	if c.Tunnel != nil {
		encodedDSN, err := c.Tunnel.EncodeWithDSN(c.DSN())
		if err != nil {
			return nil, fmt.Errorf("encoding with dsn: %w", err)
		}
		if db, err = sql.Open("sql+ssh", encodedDSN); err != nil {
			return nil, fmt.Errorf("opening postgres connection sql+ssh driver: %w", err)
		}
	} else if db, err = sql.Open("postgres", c.DSN()); err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return db, nil
}
