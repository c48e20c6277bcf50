// Package document maps CREATE SOURCE statements to and from a YAML/JSON document, the form in
// which statements are handed to the command line tools.
package document

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rudderlabs/rudder-purifier/sql/ast"
)

// Statement is the document form of ast.CreateSourceStatement.
//
//	name: orders
//	connection:
//	  kafka:
//	    connection: { inline: [{ key: broker, string: "localhost:9092" }] }
//	    topic: orders
//	format:
//	  bare:
//	    type: avro
//	    avro:
//	      registry:
//	        connection: { name: registry }
//	envelope: debezium_upsert
//	options:
//	  - { key: kafka_time_offset, number: -1000 }
type Statement struct {
	Name            string     `yaml:"name" json:"name"`
	Connection      Connection `yaml:"connection" json:"connection"`
	Format          *Format    `yaml:"format,omitempty" json:"format,omitempty"`
	Envelope        string     `yaml:"envelope,omitempty" json:"envelope,omitempty"`
	Options         []Option   `yaml:"options,omitempty" json:"options,omitempty"`
	IncludeMetadata []string   `yaml:"include_metadata,omitempty" json:"include_metadata,omitempty"`
	IfNotExists     bool       `yaml:"if_not_exists,omitempty" json:"if_not_exists,omitempty"`
	Materialized    bool       `yaml:"materialized,omitempty" json:"materialized,omitempty"`
}

// Value holds exactly one of its fields.
type Value struct {
	String  *string `yaml:"string,omitempty" json:"string,omitempty"`
	Number  *string `yaml:"number,omitempty" json:"number,omitempty"`
	Boolean *bool   `yaml:"boolean,omitempty" json:"boolean,omitempty"`
	Secret  *string `yaml:"secret,omitempty" json:"secret,omitempty"`
	Array   []Value `yaml:"array,omitempty" json:"array,omitempty"`
}

type Option struct {
	Key   string `yaml:"key" json:"key"`
	Value `yaml:",inline"`
}

// ConnectionRef names a catalog connection or lists inline connection parameters.
type ConnectionRef struct {
	Name   string   `yaml:"name,omitempty" json:"name,omitempty"`
	Inline []Option `yaml:"inline,omitempty" json:"inline,omitempty"`
}

// Connection holds exactly one source kind.
type Connection struct {
	Kafka    *Kafka    `yaml:"kafka,omitempty" json:"kafka,omitempty"`
	S3       *S3       `yaml:"s3,omitempty" json:"s3,omitempty"`
	Kinesis  *Kinesis  `yaml:"kinesis,omitempty" json:"kinesis,omitempty"`
	Postgres *Postgres `yaml:"postgres,omitempty" json:"postgres,omitempty"`
	PubNub   *PubNub   `yaml:"pubnub,omitempty" json:"pubnub,omitempty"`
}

type Kafka struct {
	Connection ConnectionRef `yaml:"connection" json:"connection"`
	Topic      string        `yaml:"topic" json:"topic"`
	KeyField   string        `yaml:"key_field,omitempty" json:"key_field,omitempty"`
}

type S3 struct {
	KeySources  []S3KeySource `yaml:"key_sources,omitempty" json:"key_sources,omitempty"`
	Pattern     string        `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Compression string        `yaml:"compression,omitempty" json:"compression,omitempty"`
}

type S3KeySource struct {
	Scan   bool   `yaml:"scan,omitempty" json:"scan,omitempty"`
	Bucket string `yaml:"bucket,omitempty" json:"bucket,omitempty"`
	Queue  string `yaml:"queue,omitempty" json:"queue,omitempty"`
}

type Kinesis struct {
	ARN string `yaml:"arn" json:"arn"`
}

type Postgres struct {
	Connection  ConnectionRef `yaml:"connection" json:"connection"`
	Publication string        `yaml:"publication" json:"publication"`
	Details     string        `yaml:"details,omitempty" json:"details,omitempty"`
}

type PubNub struct {
	SubscribeKey string `yaml:"subscribe_key" json:"subscribe_key"`
	Channel      string `yaml:"channel" json:"channel"`
}

// Format is either Bare or the Key and Value pair.
type Format struct {
	Bare  *SingleFormat `yaml:"bare,omitempty" json:"bare,omitempty"`
	Key   *SingleFormat `yaml:"key,omitempty" json:"key,omitempty"`
	Value *SingleFormat `yaml:"value,omitempty" json:"value,omitempty"`
}

// Format types
const (
	TypeAvro     = "avro"
	TypeProtobuf = "protobuf"
	TypeCsv      = "csv"
	TypeBytes    = "bytes"
	TypeRegex    = "regex"
	TypeJSON     = "json"
	TypeText     = "text"
)

type SingleFormat struct {
	Type     string    `yaml:"type" json:"type"`
	Avro     *Avro     `yaml:"avro,omitempty" json:"avro,omitempty"`
	Protobuf *Protobuf `yaml:"protobuf,omitempty" json:"protobuf,omitempty"`
	Csv      *Csv      `yaml:"csv,omitempty" json:"csv,omitempty"`
	Pattern  string    `yaml:"pattern,omitempty" json:"pattern,omitempty"`
}

type Avro struct {
	Schema     string        `yaml:"schema,omitempty" json:"schema,omitempty"`
	SchemaFile string        `yaml:"schema_file,omitempty" json:"schema_file,omitempty"`
	Options    []Option      `yaml:"options,omitempty" json:"options,omitempty"`
	Registry   *AvroRegistry `yaml:"registry,omitempty" json:"registry,omitempty"`
}

type AvroRegistry struct {
	Connection    ConnectionRef `yaml:"connection" json:"connection"`
	Options       []Option      `yaml:"options,omitempty" json:"options,omitempty"`
	KeyStrategy   *Strategy     `yaml:"key_strategy,omitempty" json:"key_strategy,omitempty"`
	ValueStrategy *Strategy     `yaml:"value_strategy,omitempty" json:"value_strategy,omitempty"`
	Seed          *AvroSeed     `yaml:"seed,omitempty" json:"seed,omitempty"`
}

// Strategy types
const (
	StrategyLatest = "latest"
	StrategyInline = "inline"
	StrategyByID   = "id"
)

type Strategy struct {
	Type string `yaml:"type" json:"type"`
	Raw  string `yaml:"raw,omitempty" json:"raw,omitempty"`
	ID   int    `yaml:"id,omitempty" json:"id,omitempty"`
}

type AvroSeed struct {
	KeySchema   *string `yaml:"key_schema,omitempty" json:"key_schema,omitempty"`
	ValueSchema string  `yaml:"value_schema" json:"value_schema"`
}

type Protobuf struct {
	MessageName string            `yaml:"message_name,omitempty" json:"message_name,omitempty"`
	Schema      string            `yaml:"schema,omitempty" json:"schema,omitempty"`
	SchemaFile  string            `yaml:"schema_file,omitempty" json:"schema_file,omitempty"`
	Registry    *ProtobufRegistry `yaml:"registry,omitempty" json:"registry,omitempty"`
}

type ProtobufRegistry struct {
	Connection ConnectionRef `yaml:"connection" json:"connection"`
	Options    []Option      `yaml:"options,omitempty" json:"options,omitempty"`
	Seed       *ProtobufSeed `yaml:"seed,omitempty" json:"seed,omitempty"`
}

type ProtobufSeed struct {
	Value ProtobufSchema  `yaml:"value" json:"value"`
	Key   *ProtobufSchema `yaml:"key,omitempty" json:"key,omitempty"`
}

type ProtobufSchema struct {
	Schema      string `yaml:"schema" json:"schema"`
	MessageName string `yaml:"message_name" json:"message_name"`
}

type Csv struct {
	Columns   int      `yaml:"columns,omitempty" json:"columns,omitempty"`
	Header    bool     `yaml:"header,omitempty" json:"header,omitempty"`
	Names     []string `yaml:"names,omitempty" json:"names,omitempty"`
	Delimiter string   `yaml:"delimiter,omitempty" json:"delimiter,omitempty"`
}

// Envelope names
const (
	EnvelopeNone           = "none"
	EnvelopeDebezium       = "debezium"
	EnvelopeDebeziumUpsert = "debezium_upsert"
	EnvelopeUpsert         = "upsert"
	EnvelopeCdcV2          = "cdcv2"
)

// Decode reads a YAML statement document and converts it to a statement.
func Decode(r io.Reader) (*ast.CreateSourceStatement, error) {
	var doc Statement
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding statement: %w", err)
	}
	stmt, err := doc.Statement()
	if err != nil {
		return nil, fmt.Errorf("decoding statement: %w", err)
	}
	return stmt, nil
}

// Statement converts the document to a statement.
func (d *Statement) Statement() (*ast.CreateSourceStatement, error) {
	stmt := &ast.CreateSourceStatement{
		Name:            d.Name,
		IncludeMetadata: d.IncludeMetadata,
		IfNotExists:     d.IfNotExists,
		Materialized:    d.Materialized,
	}
	var err error
	if stmt.Connection, err = d.Connection.connection(); err != nil {
		return nil, err
	}
	if stmt.Format, err = d.Format.format(); err != nil {
		return nil, err
	}
	if stmt.Envelope, err = envelope(d.Envelope); err != nil {
		return nil, err
	}
	if stmt.WithOptions, err = withOptions(d.Options); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (v Value) value() (ast.Value, error) {
	var values []ast.Value
	if v.String != nil {
		values = append(values, ast.String(*v.String))
	}
	if v.Number != nil {
		values = append(values, ast.Number(*v.Number))
	}
	if v.Boolean != nil {
		values = append(values, ast.Boolean(*v.Boolean))
	}
	if v.Secret != nil {
		values = append(values, ast.Secret{ID: *v.Secret})
	}
	if v.Array != nil {
		array := make(ast.Array, 0, len(v.Array))
		for _, e := range v.Array {
			ev, err := e.value()
			if err != nil {
				return nil, err
			}
			if ev == nil {
				return nil, fmt.Errorf("array elements require a value")
			}
			array = append(array, ev)
		}
		values = append(values, array)
	}
	switch len(values) {
	case 0:
		return nil, nil
	case 1:
		return values[0], nil
	default:
		return nil, fmt.Errorf("value must hold exactly one of string, number, boolean, secret or array")
	}
}

func withOptions(opts []Option) (ast.WithOptions, error) {
	if len(opts) == 0 {
		return nil, nil
	}
	out := make(ast.WithOptions, 0, len(opts))
	for _, opt := range opts {
		if opt.Key == "" {
			return nil, fmt.Errorf("option without a key")
		}
		v, err := opt.value()
		if err != nil {
			return nil, fmt.Errorf("option %q: %w", opt.Key, err)
		}
		out = append(out, ast.WithOption{Key: opt.Key, Value: v})
	}
	return out, nil
}

func (r ConnectionRef) ref() (ast.ConnectionRef, error) {
	switch {
	case r.Name != "" && len(r.Inline) > 0:
		return nil, fmt.Errorf("connection must either name a catalog connection or be inline")
	case r.Name != "":
		return &ast.ConnectionReference{Name: r.Name}, nil
	default:
		opts, err := withOptions(r.Inline)
		if err != nil {
			return nil, err
		}
		return &ast.InlineConnection{Options: opts}, nil
	}
}

func (c Connection) connection() (ast.CreateSourceConnection, error) {
	var conns []ast.CreateSourceConnection
	if c.Kafka != nil {
		ref, err := c.Kafka.Connection.ref()
		if err != nil {
			return nil, err
		}
		conns = append(conns, &ast.KafkaSourceConnection{Connection: ref, Topic: c.Kafka.Topic, KeyField: c.Kafka.KeyField})
	}
	if c.S3 != nil {
		src := &ast.S3SourceConnection{Pattern: c.S3.Pattern, Compression: c.S3.Compression}
		for _, ks := range c.S3.KeySources {
			src.KeySources = append(src.KeySources, ast.S3KeySource{Scan: ks.Scan, Bucket: ks.Bucket, Queue: ks.Queue})
		}
		conns = append(conns, src)
	}
	if c.Kinesis != nil {
		conns = append(conns, &ast.KinesisSourceConnection{ARN: c.Kinesis.ARN})
	}
	if c.Postgres != nil {
		ref, err := c.Postgres.Connection.ref()
		if err != nil {
			return nil, err
		}
		conns = append(conns, &ast.PostgresSourceConnection{
			Connection:  ref,
			Publication: c.Postgres.Publication,
			Details:     c.Postgres.Details,
		})
	}
	if c.PubNub != nil {
		conns = append(conns, &ast.PubNubSourceConnection{SubscribeKey: c.PubNub.SubscribeKey, Channel: c.PubNub.Channel})
	}
	if len(conns) != 1 {
		return nil, fmt.Errorf("connection must hold exactly one of kafka, s3, kinesis, postgres or pubnub")
	}
	return conns[0], nil
}

func (f *Format) format() (ast.CreateSourceFormat, error) {
	if f == nil || (f.Bare == nil && f.Key == nil && f.Value == nil) {
		return ast.FormatNone{}, nil
	}
	if f.Bare != nil {
		if f.Key != nil || f.Value != nil {
			return nil, fmt.Errorf("format is either bare or key and value")
		}
		format, err := f.Bare.format()
		if err != nil {
			return nil, err
		}
		return &ast.FormatBare{Format: format}, nil
	}
	if f.Key == nil || f.Value == nil {
		return nil, fmt.Errorf("key and value formats must be specified together")
	}
	key, err := f.Key.format()
	if err != nil {
		return nil, fmt.Errorf("key format: %w", err)
	}
	value, err := f.Value.format()
	if err != nil {
		return nil, fmt.Errorf("value format: %w", err)
	}
	return &ast.FormatKeyValue{Key: key, Value: value}, nil
}

func (f *SingleFormat) format() (ast.Format, error) {
	switch strings.ToLower(f.Type) {
	case TypeAvro:
		if f.Avro == nil {
			return nil, fmt.Errorf("avro format requires an avro section")
		}
		schema, err := f.Avro.schema()
		if err != nil {
			return nil, err
		}
		return &ast.AvroFormat{Schema: schema}, nil
	case TypeProtobuf:
		if f.Protobuf == nil {
			return nil, fmt.Errorf("protobuf format requires a protobuf section")
		}
		schema, err := f.Protobuf.schema()
		if err != nil {
			return nil, err
		}
		return &ast.ProtobufFormat{Schema: schema}, nil
	case TypeCsv:
		if f.Csv == nil {
			return nil, fmt.Errorf("csv format requires a csv section")
		}
		return f.Csv.format()
	case TypeBytes:
		return &ast.BytesFormat{}, nil
	case TypeRegex:
		return &ast.RegexFormat{Pattern: f.Pattern}, nil
	case TypeJSON:
		return &ast.JSONFormat{}, nil
	case TypeText:
		return &ast.TextFormat{}, nil
	default:
		return nil, fmt.Errorf("unknown format type %q", f.Type)
	}
}

func inlineOrFile(inline, file string) (ast.Schema, error) {
	switch {
	case inline != "" && file != "":
		return nil, fmt.Errorf("schema and schema_file are mutually exclusive")
	case file != "":
		return ast.SchemaFile{Path: file}, nil
	default:
		return ast.SchemaInline{Content: inline}, nil
	}
}

func (a *Avro) schema() (ast.AvroSchema, error) {
	if a.Registry != nil {
		if a.Schema != "" || a.SchemaFile != "" {
			return nil, fmt.Errorf("avro schema is either inline or from a registry")
		}
		ref, err := a.Registry.Connection.ref()
		if err != nil {
			return nil, err
		}
		opts, err := withOptions(a.Registry.Options)
		if err != nil {
			return nil, err
		}
		csrConn := &ast.CsrConnectionAvro{Connection: ref, WithOptions: opts}
		if csrConn.KeyStrategy, err = a.Registry.KeyStrategy.strategy(); err != nil {
			return nil, err
		}
		if csrConn.ValueStrategy, err = a.Registry.ValueStrategy.strategy(); err != nil {
			return nil, err
		}
		if seed := a.Registry.Seed; seed != nil {
			csrConn.Seed = &ast.CsrSeedAvro{KeySchema: seed.KeySchema, ValueSchema: seed.ValueSchema}
		}
		return &ast.AvroSchemaCsr{CsrConnection: csrConn}, nil
	}
	schema, err := inlineOrFile(a.Schema, a.SchemaFile)
	if err != nil {
		return nil, err
	}
	opts, err := withOptions(a.Options)
	if err != nil {
		return nil, err
	}
	return &ast.AvroSchemaInline{Schema: schema, WithOptions: opts}, nil
}

func (s *Strategy) strategy() (ast.ReaderSchemaSelectionStrategy, error) {
	if s == nil {
		return nil, nil
	}
	switch strings.ToLower(s.Type) {
	case StrategyLatest:
		return ast.LatestStrategy{}, nil
	case StrategyInline:
		return ast.InlineStrategy{Raw: s.Raw}, nil
	case StrategyByID:
		return ast.ByIDStrategy{ID: s.ID}, nil
	default:
		return nil, fmt.Errorf("unknown reader schema strategy %q", s.Type)
	}
}

func (p *Protobuf) schema() (ast.ProtobufSchema, error) {
	if p.Registry != nil {
		if p.Schema != "" || p.SchemaFile != "" {
			return nil, fmt.Errorf("protobuf schema is either inline or from a registry")
		}
		ref, err := p.Registry.Connection.ref()
		if err != nil {
			return nil, err
		}
		opts, err := withOptions(p.Registry.Options)
		if err != nil {
			return nil, err
		}
		csrConn := &ast.CsrConnectionProtobuf{Connection: ref, WithOptions: opts}
		if seed := p.Registry.Seed; seed != nil {
			csrConn.Seed = &ast.CsrSeedProtobuf{
				Value: ast.CsrSeedProtobufSchema{Schema: seed.Value.Schema, MessageName: seed.Value.MessageName},
			}
			if seed.Key != nil {
				csrConn.Seed.Key = &ast.CsrSeedProtobufSchema{Schema: seed.Key.Schema, MessageName: seed.Key.MessageName}
			}
		}
		return &ast.ProtobufSchemaCsr{CsrConnection: csrConn}, nil
	}
	schema, err := inlineOrFile(p.Schema, p.SchemaFile)
	if err != nil {
		return nil, err
	}
	return &ast.ProtobufSchemaInline{MessageName: p.MessageName, Schema: schema}, nil
}

func (c *Csv) format() (ast.Format, error) {
	delimiter := ','
	if c.Delimiter != "" {
		runes := []rune(c.Delimiter)
		if len(runes) != 1 {
			return nil, fmt.Errorf("csv delimiter must be a single character, got %q", c.Delimiter)
		}
		delimiter = runes[0]
	}
	if c.Header {
		if c.Columns != 0 {
			return nil, fmt.Errorf("csv columns and header are mutually exclusive")
		}
		return &ast.CsvFormat{Columns: &ast.CsvColumnsHeader{Names: c.Names}, Delimiter: delimiter}, nil
	}
	if len(c.Names) > 0 {
		return nil, fmt.Errorf("csv names require header")
	}
	return &ast.CsvFormat{Columns: ast.CsvColumnsCount{N: c.Columns}, Delimiter: delimiter}, nil
}

func envelope(s string) (ast.Envelope, error) {
	switch strings.ToLower(s) {
	case "", EnvelopeNone:
		return ast.EnvelopeNone{}, nil
	case EnvelopeDebezium:
		return ast.EnvelopeDebezium{Mode: ast.DbzModePlain}, nil
	case EnvelopeDebeziumUpsert:
		return ast.EnvelopeDebezium{Mode: ast.DbzModeUpsert}, nil
	case EnvelopeUpsert:
		return ast.EnvelopeUpsert{}, nil
	case EnvelopeCdcV2:
		return ast.EnvelopeCdcV2{}, nil
	default:
		return nil, fmt.Errorf("unknown envelope %q", s)
	}
}
