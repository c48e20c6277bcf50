// Package secrets reads the plaintext of catalog secrets.
package secrets

import (
	"context"
	"errors"
	"fmt"
)

// ID identifies a secret in the catalog.
type ID string

var ErrSecretNotFound = errors.New("secret not found")

// Reader returns the decrypted contents of secrets.
type Reader interface {
	ReadString(ctx context.Context, id ID) (string, error)
}

// Static is a Reader backed by a fixed set of secrets, mostly useful in tests and for
// local runs.
type Static map[ID]string

func (s Static) ReadString(_ context.Context, id ID) (string, error) {
	v, ok := s[id]
	if !ok {
		return "", fmt.Errorf("reading secret %q: %w", id, ErrSecretNotFound)
	}
	return v, nil
}
