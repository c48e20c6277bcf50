package postgres_test

import (
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/require"

	"github.com/rudderlabs/rudder-go-kit/config"
	"github.com/rudderlabs/rudder-go-kit/logger"
	pgresource "github.com/rudderlabs/rudder-go-kit/testhelper/docker/resource/postgres"

	"github.com/rudderlabs/rudder-purifier/services/postgres"
)

func TestIntrospector(t *testing.T) {
	if os.Getenv("SLOW") != "1" {
		t.Skip("Skipping tests. Add 'SLOW=1' env var to run them.")
	}

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)

	pgResource, err := pgresource.Setup(pool, t)
	require.NoError(t, err)

	for _, query := range []string{
		`CREATE TABLE orders (id INT PRIMARY KEY, note TEXT)`,
		`CREATE TABLE users (email TEXT NOT NULL)`,
		`CREATE PUBLICATION shop FOR TABLE orders, users`,
	} {
		_, err := pgResource.DB.Exec(query)
		require.NoError(t, err)
	}

	port, err := strconv.Atoi(pgResource.Port)
	require.NoError(t, err)
	conf := &postgres.Config{
		Host:     pgResource.Host,
		Port:     port,
		Database: pgResource.Database,
		User:     pgResource.User,
		Password: pgResource.Password,
		SSLMode:  "disable",
	}

	introspector := postgres.NewIntrospector(config.New(), logger.NOP)
	tables, err := introspector.PublicationInfo(context.Background(), conf, "shop")
	require.NoError(t, err)
	require.Len(t, tables, 2)

	require.Equal(t, "public", tables[0].Namespace)
	require.Equal(t, "orders", tables[0].Name)
	require.Equal(t, []postgres.ColumnInfo{
		{Name: "id", TypeOID: 23, TypeMod: -1, Nullable: false, PrimaryKey: true},
		{Name: "note", TypeOID: 25, TypeMod: -1, Nullable: true, PrimaryKey: false},
	}, tables[0].Columns)

	require.Equal(t, "users", tables[1].Name)
	require.Equal(t, []postgres.ColumnInfo{
		{Name: "email", TypeOID: 25, TypeMod: -1, Nullable: false, PrimaryKey: false},
	}, tables[1].Columns)

	_, err = introspector.PublicationInfo(context.Background(), conf, "missing")
	require.ErrorIs(t, err, postgres.ErrPublicationNotFound)
}
