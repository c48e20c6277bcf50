package connections

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"

	"github.com/rudderlabs/rudder-purifier/secrets"
)

// Postgres inline connection option keys.
const (
	PostgresHost           = "host"
	PostgresPort           = "port"
	PostgresDatabase       = "database"
	PostgresUser           = "user"
	PostgresPassword       = "password"
	PostgresSSHTunnel      = "ssh_tunnel"
	PostgresSslMode        = "sslmode"
	PostgresSslCA          = "ssl.ca.pem"
	PostgresSslCertificate = "ssl.certificate.pem"
	PostgresSslKey         = "ssl.key.pem"

	defaultPostgresPort = 5432
)

// Supported TLS modes.
const (
	SslModeDisable    = "disable"
	SslModeRequire    = "require"
	SslModeVerifyCA   = "verify-ca"
	SslModeVerifyFull = "verify-full"
)

// PostgresConnection is a connection to a PostgreSQL server.
type PostgresConnection struct {
	Host     string
	Port     uint16
	Database string
	User     StringOrSecret
	Password *secrets.ID
	// SSHTunnel names an SSH connection of the catalog, empty for direct connections
	SSHTunnel   string
	TLSMode     string
	TLSRootCert *StringOrSecret
	TLSIdentity *TLSIdentity
}

// NewPostgresConnection builds a Postgres connection out of inline options.
func NewPostgresConnection(opts Options) (*PostgresConnection, error) {
	conn := &PostgresConnection{Port: defaultPostgresPort, TLSMode: SslModeDisable}

	var ok bool
	var err error
	if conn.Host, ok, err = opts.removeString(PostgresHost); err != nil {
		return nil, err
	} else if !ok || conn.Host == "" {
		return nil, fmt.Errorf("must specify %s for a postgres connection", PostgresHost)
	}
	if conn.Database, ok, err = opts.removeString(PostgresDatabase); err != nil {
		return nil, err
	} else if !ok || conn.Database == "" {
		return nil, fmt.Errorf("must specify %s for a postgres connection", PostgresDatabase)
	}
	user, ok := opts.Remove(PostgresUser)
	if !ok {
		return nil, fmt.Errorf("must specify %s for a postgres connection", PostgresUser)
	}
	conn.User = user

	port, ok, err := opts.removeString(PostgresPort)
	if err != nil {
		return nil, err
	}
	if ok {
		n, err := cast.ToIntE(port)
		if err != nil || n <= 0 || n > math.MaxUint16 {
			return nil, fmt.Errorf("invalid %s %q", PostgresPort, port)
		}
		conn.Port = uint16(n)
	}

	password, ok, err := opts.removeSecret(PostgresPassword)
	if err != nil {
		return nil, err
	}
	if ok {
		conn.Password = &password
	}

	if conn.SSHTunnel, _, err = opts.removeString(PostgresSSHTunnel); err != nil {
		return nil, err
	}

	mode, ok, err := opts.removeString(PostgresSslMode)
	if err != nil {
		return nil, err
	}
	if ok {
		switch mode = strings.ToLower(mode); mode {
		case SslModeDisable, SslModeRequire, SslModeVerifyCA, SslModeVerifyFull:
			conn.TLSMode = mode
		default:
			return nil, fmt.Errorf("unsupported %s %q", PostgresSslMode, mode)
		}
	}

	conn.TLSRootCert = optional(opts, PostgresSslCA)
	cert := optional(opts, PostgresSslCertificate)
	key, hasKey, err := opts.removeSecret(PostgresSslKey)
	if err != nil {
		return nil, err
	}
	switch {
	case cert != nil && hasKey:
		conn.TLSIdentity = &TLSIdentity{Cert: *cert, Key: key}
	case cert != nil || hasKey:
		return nil, fmt.Errorf("reading postgres connection: %s and %s must be specified together", PostgresSslCertificate, PostgresSslKey)
	}
	return conn, nil
}
