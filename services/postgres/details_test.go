package postgres_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rudderlabs/rudder-purifier/services/postgres"
)

func TestSourceDetails(t *testing.T) {
	details := &postgres.SourceDetails{
		Tables: []postgres.TableInfo{
			{
				OID: 16384, Namespace: "public", Name: "orders",
				Columns: []postgres.ColumnInfo{
					{Name: "id", TypeOID: 23, TypeMod: -1, PrimaryKey: true},
					{Name: "note", TypeOID: 25, TypeMod: -1, Nullable: true},
				},
			},
		},
		Slot: "rudder_slot_0c3b5b3fd2b94c46a1f3fdc8d9b7b8a1",
	}

	encoded := details.Encode()
	require.Regexp(t, "^[0-9a-f]+$", encoded)

	decoded, err := postgres.DecodeSourceDetails(encoded)
	require.NoError(t, err)
	require.Equal(t, details, decoded)

	_, err = postgres.DecodeSourceDetails("zz")
	require.Error(t, err)
	_, err = postgres.DecodeSourceDetails("0a")
	require.Error(t, err)
}

func TestSourceDetailsEmpty(t *testing.T) {
	decoded, err := postgres.DecodeSourceDetails((&postgres.SourceDetails{Slot: "s"}).Encode())
	require.NoError(t, err)
	require.Equal(t, &postgres.SourceDetails{Slot: "s"}, decoded)
}

func TestSourceDetailsWireFormat(t *testing.T) {
	details := &postgres.SourceDetails{
		Tables: []postgres.TableInfo{
			{
				OID: 1, Namespace: "p", Name: "t",
				Columns: []postgres.ColumnInfo{
					{Name: "c", TypeOID: 23, TypeMod: 1, Nullable: true, PrimaryKey: true},
				},
			},
		},
		Slot: "s",
	}

	// tables=1 {oid=1 namespace=2 name=3 columns=4 {name=1 type_oid=2 type_mod=3 nullable=4 primary_key=5}}, slot=2
	require.Equal(t,
		"0a15"+"0801"+"120170"+"1a0174"+"220b"+"0a0163"+"1017"+"1801"+"2001"+"2801"+"120173",
		details.Encode(),
	)
}
