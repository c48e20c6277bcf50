// Package csr talks to Confluent-compatible schema registries.
package csr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/confluentinc/confluent-kafka-go/v2/schemaregistry"

	"github.com/rudderlabs/rudder-purifier/connections"
	"github.com/rudderlabs/rudder-purifier/secrets"
)

//go:generate mockgen -destination=../../mocks/services/csr/mock_client.go -package=mock_csr github.com/rudderlabs/rudder-purifier/services/csr Client

// Client is the subset of the registry API needed to resolve source schemas.
type Client interface {
	// GetSchemaBySubject returns the latest schema of subject
	GetSchemaBySubject(ctx context.Context, subject string) (*Schema, error)
	// GetSchemaByID returns the schema with the given id
	GetSchemaByID(ctx context.Context, id int) (*Schema, error)
	// GetSubjectAndReferences returns the latest version of subject followed by the transitive
	// closure of the subjects it references, each one listed once.
	GetSubjectAndReferences(ctx context.Context, subject string) (*Subject, []*Subject, error)
}

// Schema is a schema stored in the registry.
type Schema struct {
	ID   int
	Type string
	Raw  string
}

// Subject is a version of a subject. Path is the name under which other schemas import it,
// the subject name itself for the primary subject.
type Subject struct {
	Name    string
	Path    string
	Version int
	Schema  Schema
}

type client struct {
	sr schemaregistry.Client
}

// New connects to the registry described by conn, reading its secrets through reader.
func New(ctx context.Context, conn *connections.CsrConnection, reader secrets.Reader) (Client, error) {
	conf := schemaregistry.NewConfig(conn.URL.String())

	if conn.HTTPAuth != nil {
		username, err := conn.HTTPAuth.Username.GetString(ctx, reader)
		if err != nil {
			return nil, err
		}
		var password string
		if conn.HTTPAuth.Password != nil {
			if password, err = reader.ReadString(ctx, *conn.HTTPAuth.Password); err != nil {
				return nil, err
			}
		}
		conf.BasicAuthCredentialsSource = "USER_INFO"
		conf.BasicAuthUserInfo = username + ":" + password
	}

	if conn.TLSRootCert != nil || conn.TLSIdentity != nil {
		dir, err := os.MkdirTemp("", "csr-tls-*")
		if err != nil {
			return nil, fmt.Errorf("creating tls directory: %w", err)
		}
		// certificates are loaded when the client is built
		defer func() { _ = os.RemoveAll(dir) }()

		if conn.TLSRootCert != nil {
			if conf.SslCaLocation, err = writePEM(ctx, dir, "ca.pem", *conn.TLSRootCert, reader); err != nil {
				return nil, err
			}
		}
		if conn.TLSIdentity != nil {
			if conf.SslCertificateLocation, err = writePEM(ctx, dir, "cert.pem", conn.TLSIdentity.Cert, reader); err != nil {
				return nil, err
			}
			if conf.SslKeyLocation, err = writePEM(ctx, dir, "key.pem", connections.SecretRef(conn.TLSIdentity.Key), reader); err != nil {
				return nil, err
			}
		}
	}

	sr, err := schemaregistry.NewClient(conf)
	if err != nil {
		return nil, fmt.Errorf("creating schema registry client: %w", err)
	}
	return &client{sr: sr}, nil
}

func writePEM(ctx context.Context, dir, name string, v connections.StringOrSecret, reader secrets.Reader) (string, error) {
	pem, err := v.GetString(ctx, reader)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(pem), 0o600); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return path, nil
}

func (c *client) GetSchemaBySubject(ctx context.Context, subject string) (*Schema, error) {
	md, err := call(ctx, func() (schemaregistry.SchemaMetadata, error) {
		return c.sr.GetLatestSchemaMetadata(subject)
	})
	if err != nil {
		return nil, fmt.Errorf("getting latest schema of subject %q: %w", subject, err)
	}
	return &Schema{ID: md.ID, Type: schemaType(md.SchemaType), Raw: md.Schema}, nil
}

func (c *client) GetSchemaByID(ctx context.Context, id int) (*Schema, error) {
	info, err := call(ctx, func() (schemaregistry.SchemaInfo, error) {
		return c.sr.GetBySubjectAndID("", id)
	})
	if err != nil {
		return nil, fmt.Errorf("getting schema with id %d: %w", id, err)
	}
	return &Schema{ID: id, Type: schemaType(info.SchemaType), Raw: info.Schema}, nil
}

func (c *client) GetSubjectAndReferences(ctx context.Context, subject string) (*Subject, []*Subject, error) {
	md, err := call(ctx, func() (schemaregistry.SchemaMetadata, error) {
		return c.sr.GetLatestSchemaMetadata(subject)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("getting latest schema of subject %q: %w", subject, err)
	}
	primary := newSubject(subject, subject, md)

	type key struct {
		subject string
		version int
	}
	var (
		seen       = map[key]bool{{subject: subject, version: md.Version}: true}
		queue      = md.References
		references []*Subject
	)
	for len(queue) > 0 {
		ref := queue[0]
		queue = queue[1:]
		k := key{subject: ref.Subject, version: ref.Version}
		if seen[k] {
			continue
		}
		seen[k] = true

		refMd, err := call(ctx, func() (schemaregistry.SchemaMetadata, error) {
			return c.sr.GetSchemaMetadata(ref.Subject, ref.Version)
		})
		if err != nil {
			return nil, nil, fmt.Errorf("getting version %d of referenced subject %q: %w", ref.Version, ref.Subject, err)
		}
		references = append(references, newSubject(ref.Subject, ref.Name, refMd))
		queue = append(queue, refMd.References...)
	}
	return primary, references, nil
}

func newSubject(name, path string, md schemaregistry.SchemaMetadata) *Subject {
	return &Subject{
		Name:    name,
		Path:    path,
		Version: md.Version,
		Schema:  Schema{ID: md.ID, Type: schemaType(md.SchemaType), Raw: md.Schema},
	}
}

// schemaType defaults to AVRO, the registry omits the type of Avro schemas.
func schemaType(t string) string {
	if t == "" {
		return "AVRO"
	}
	return t
}

// call runs f asynchronously because the registry client does not honour the context.
func call[T any](ctx context.Context, f func() (T, error)) (T, error) {
	type result struct {
		value T
		err   error
	}
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	done := make(chan result, 1)
	go func() {
		v, err := f()
		done <- result{value: v, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-done:
		return r.value, translateError(r.err)
	}
}
