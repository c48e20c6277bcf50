package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rudderlabs/rudder-go-kit/config"
	"github.com/rudderlabs/rudder-go-kit/logger"
)

// ErrPublicationNotFound is returned when the publication does not exist
var ErrPublicationNotFound = errors.New("publication does not exist")

// TableInfo describes a table of a publication.
type TableInfo struct {
	OID       uint32
	Namespace string
	Name      string
	Columns   []ColumnInfo
}

// ColumnInfo describes a column of a published table.
type ColumnInfo struct {
	Name       string
	TypeOID    uint32
	TypeMod    int32
	Nullable   bool
	PrimaryKey bool
}

const (
	publicationQuery = `SELECT oid FROM pg_publication WHERE pubname = $1`
	tablesQuery      = `SELECT c.oid, p.schemaname, p.tablename
FROM pg_catalog.pg_class AS c
JOIN pg_namespace AS n ON c.relnamespace = n.oid
JOIN pg_publication_tables AS p ON c.relname = p.tablename AND n.nspname = p.schemaname
WHERE p.pubname = $1
ORDER BY p.schemaname, p.tablename`
	columnsQuery = `SELECT a.attname, a.atttypid, a.atttypmod, a.attnotnull, b.oid IS NOT NULL
FROM pg_catalog.pg_attribute a
LEFT JOIN pg_catalog.pg_constraint b ON a.attrelid = b.conrelid AND b.contype = 'p' AND a.attnum = ANY (b.conkey)
WHERE a.attnum > 0::pg_catalog.int2 AND NOT a.attisdropped AND a.attrelid = $1
ORDER BY a.attnum`
)

// PublicationInfo returns the tables of publication, with their columns.
func PublicationInfo(ctx context.Context, db *sql.DB, publication string) ([]TableInfo, error) {
	var oid uint32
	err := db.QueryRowContext(ctx, publicationQuery, publication).Scan(&oid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("publication %q: %w", publication, ErrPublicationNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying publication %q: %w", publication, err)
	}

	tables, err := publicationTables(ctx, db, publication)
	if err != nil {
		return nil, err
	}
	for i := range tables {
		if tables[i].Columns, err = tableColumns(ctx, db, tables[i].OID); err != nil {
			return nil, fmt.Errorf("querying columns of %s.%s: %w", tables[i].Namespace, tables[i].Name, err)
		}
	}
	return tables, nil
}

func publicationTables(ctx context.Context, db *sql.DB, publication string) ([]TableInfo, error) {
	rows, err := db.QueryContext(ctx, tablesQuery, publication)
	if err != nil {
		return nil, fmt.Errorf("querying tables of publication %q: %w", publication, err)
	}
	defer func() { _ = rows.Close() }()

	var tables []TableInfo
	for rows.Next() {
		var table TableInfo
		if err := rows.Scan(&table.OID, &table.Namespace, &table.Name); err != nil {
			return nil, fmt.Errorf("scanning table: %w", err)
		}
		tables = append(tables, table)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tables: %w", err)
	}
	return tables, nil
}

func tableColumns(ctx context.Context, db *sql.DB, oid uint32) ([]ColumnInfo, error) {
	rows, err := db.QueryContext(ctx, columnsQuery, oid)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var columns []ColumnInfo
	for rows.Next() {
		var (
			column  ColumnInfo
			notNull bool
		)
		if err := rows.Scan(&column.Name, &column.TypeOID, &column.TypeMod, &notNull, &column.PrimaryKey); err != nil {
			return nil, fmt.Errorf("scanning column: %w", err)
		}
		column.Nullable = !notNull
		columns = append(columns, column)
	}
	return columns, rows.Err()
}

// Introspector connects to Postgres servers to read publication metadata.
type Introspector struct {
	logger         logger.Logger
	connectTimeout time.Duration
}

func NewIntrospector(conf *config.Config, log logger.Logger) *Introspector {
	return &Introspector{
		logger:         log.Child("postgres"),
		connectTimeout: conf.GetDurationVar(30, time.Second, "Purifier.Postgres.connectTimeout"),
	}
}

// PublicationInfo connects to the server described by conf and reads the tables of publication.
func (i *Introspector) PublicationInfo(ctx context.Context, conf *Config, publication string) ([]TableInfo, error) {
	if conf.ConnectTimeout == 0 {
		conf.ConnectTimeout = i.connectTimeout
	}
	db, err := conf.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	tables, err := PublicationInfo(ctx, db, publication)
	if err != nil {
		return nil, err
	}
	i.logger.Debugn("Read publication",
		logger.NewStringField("publication", publication),
		logger.NewIntField("tables", int64(len(tables))),
	)
	return tables, nil
}
