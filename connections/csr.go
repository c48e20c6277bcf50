package connections

import (
	"fmt"
	"net/url"

	"github.com/rudderlabs/rudder-purifier/secrets"
)

// Schema registry inline connection option keys.
const (
	CsrURL            = "url"
	CsrSslCA          = "ssl.ca.pem"
	CsrSslCertificate = "ssl.certificate.pem"
	CsrSslKey         = "ssl.key.pem"
	CsrUsername       = "username"
	CsrPassword       = "password"
)

// CsrConnection is a connection to a Confluent-compatible schema registry.
type CsrConnection struct {
	URL *url.URL
	// TLSRootCert is a trusted root certificate in PEM format
	TLSRootCert *StringOrSecret
	// TLSIdentity is an optional client certificate
	TLSIdentity *TLSIdentity
	HTTPAuth    *CsrHTTPAuth
}

// CsrHTTPAuth holds basic authentication credentials.
type CsrHTTPAuth struct {
	Username StringOrSecret
	// Password is optional
	Password *secrets.ID
}

// NewCsrConnection builds a schema registry connection out of inline options.
func NewCsrConnection(opts Options) (*CsrConnection, error) {
	rawURL, ok, err := opts.removeString(CsrURL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("must specify %s for a schema registry connection", CsrURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing schema registry url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("schema registry url must use http or https, got %q", rawURL)
	}

	conn := &CsrConnection{URL: u, TLSRootCert: optional(opts, CsrSslCA)}

	cert := optional(opts, CsrSslCertificate)
	key, hasKey, err := opts.removeSecret(CsrSslKey)
	if err != nil {
		return nil, err
	}
	switch {
	case cert != nil && hasKey:
		conn.TLSIdentity = &TLSIdentity{Cert: *cert, Key: key}
	case cert != nil || hasKey:
		return nil, fmt.Errorf("reading schema registry connection: %s and %s must be specified together", CsrSslCertificate, CsrSslKey)
	}

	if username, ok := opts.Remove(CsrUsername); ok {
		conn.HTTPAuth = &CsrHTTPAuth{Username: username}
		password, ok, err := opts.removeSecret(CsrPassword)
		if err != nil {
			return nil, err
		}
		if ok {
			conn.HTTPAuth.Password = &password
		}
	} else if _, ok := opts[CsrPassword]; ok {
		return nil, fmt.Errorf("reading schema registry connection: %s requires %s", CsrPassword, CsrUsername)
	}

	return conn, nil
}
