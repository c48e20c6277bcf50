package secrets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	r := Static{"u1": "password"}

	v, err := r.ReadString(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, "password", v)

	_, err = r.ReadString(context.Background(), "u2")
	require.ErrorIs(t, err, ErrSecretNotFound)
	require.ErrorContains(t, err, `reading secret "u2"`)
}

func TestScyReader(t *testing.T) {
	r := NewScyReader("mem://localhost/secrets/", "")
	require.Equal(t, "mem://localhost/secrets", r.BaseURL)

	_, err := r.ReadString(context.Background(), "")
	require.EqualError(t, err, "reading secret: empty id")
}
