package document

import (
	"fmt"

	"github.com/rudderlabs/rudder-purifier/sql/ast"
)

// FromStatement returns the document form of stmt.
func FromStatement(stmt *ast.CreateSourceStatement) (*Statement, error) {
	doc := &Statement{
		Name:            stmt.Name,
		Options:         options(stmt.WithOptions),
		IncludeMetadata: stmt.IncludeMetadata,
		IfNotExists:     stmt.IfNotExists,
		Materialized:    stmt.Materialized,
	}

	switch src := stmt.Connection.(type) {
	case *ast.KafkaSourceConnection:
		doc.Connection.Kafka = &Kafka{Connection: connectionRef(src.Connection), Topic: src.Topic, KeyField: src.KeyField}
	case *ast.S3SourceConnection:
		s3 := &S3{Pattern: src.Pattern, Compression: src.Compression}
		for _, ks := range src.KeySources {
			s3.KeySources = append(s3.KeySources, S3KeySource{Scan: ks.Scan, Bucket: ks.Bucket, Queue: ks.Queue})
		}
		doc.Connection.S3 = s3
	case *ast.KinesisSourceConnection:
		doc.Connection.Kinesis = &Kinesis{ARN: src.ARN}
	case *ast.PostgresSourceConnection:
		doc.Connection.Postgres = &Postgres{
			Connection:  connectionRef(src.Connection),
			Publication: src.Publication,
			Details:     src.Details,
		}
	case *ast.PubNubSourceConnection:
		doc.Connection.PubNub = &PubNub{SubscribeKey: src.SubscribeKey, Channel: src.Channel}
	default:
		return nil, fmt.Errorf("unsupported source connection %T", src)
	}

	switch format := stmt.Format.(type) {
	case nil, ast.FormatNone:
	case *ast.FormatBare:
		bare, err := singleFormat(format.Format)
		if err != nil {
			return nil, err
		}
		doc.Format = &Format{Bare: bare}
	case *ast.FormatKeyValue:
		key, err := singleFormat(format.Key)
		if err != nil {
			return nil, err
		}
		value, err := singleFormat(format.Value)
		if err != nil {
			return nil, err
		}
		doc.Format = &Format{Key: key, Value: value}
	default:
		return nil, fmt.Errorf("unsupported source format %T", format)
	}

	switch env := stmt.Envelope.(type) {
	case nil, ast.EnvelopeNone:
	case ast.EnvelopeDebezium, *ast.EnvelopeDebezium:
		doc.Envelope = EnvelopeDebezium
		if ast.IsDebeziumUpsert(env) {
			doc.Envelope = EnvelopeDebeziumUpsert
		}
	case ast.EnvelopeUpsert:
		doc.Envelope = EnvelopeUpsert
	case ast.EnvelopeCdcV2:
		doc.Envelope = EnvelopeCdcV2
	default:
		return nil, fmt.Errorf("unsupported envelope %T", env)
	}
	return doc, nil
}

func fromValue(v ast.Value) Value {
	switch v := v.(type) {
	case ast.String:
		s := string(v)
		return Value{String: &s}
	case ast.Number:
		n := string(v)
		return Value{Number: &n}
	case ast.Boolean:
		b := bool(v)
		return Value{Boolean: &b}
	case ast.Secret:
		id := v.ID
		return Value{Secret: &id}
	case ast.Array:
		array := make([]Value, 0, len(v))
		for _, e := range v {
			array = append(array, fromValue(e))
		}
		return Value{Array: array}
	default:
		return Value{}
	}
}

func options(opts ast.WithOptions) []Option {
	if len(opts) == 0 {
		return nil
	}
	out := make([]Option, 0, len(opts))
	for _, opt := range opts {
		out = append(out, Option{Key: opt.Key, Value: fromValue(opt.Value)})
	}
	return out
}

func connectionRef(ref ast.ConnectionRef) ConnectionRef {
	switch ref := ref.(type) {
	case *ast.ConnectionReference:
		return ConnectionRef{Name: ref.Name}
	case *ast.InlineConnection:
		return ConnectionRef{Inline: options(ref.Options)}
	default:
		return ConnectionRef{}
	}
}

func schemaContent(s ast.Schema) (inline, file string) {
	switch s := s.(type) {
	case ast.SchemaInline:
		return s.Content, ""
	case ast.SchemaFile:
		return "", s.Path
	default:
		return "", ""
	}
}

func strategy(s ast.ReaderSchemaSelectionStrategy) *Strategy {
	switch s := s.(type) {
	case ast.LatestStrategy:
		return &Strategy{Type: StrategyLatest}
	case ast.InlineStrategy:
		return &Strategy{Type: StrategyInline, Raw: s.Raw}
	case ast.ByIDStrategy:
		return &Strategy{Type: StrategyByID, ID: s.ID}
	default:
		return nil
	}
}

func singleFormat(f ast.Format) (*SingleFormat, error) {
	switch f := f.(type) {
	case *ast.AvroFormat:
		avro := &Avro{}
		switch schema := f.Schema.(type) {
		case *ast.AvroSchemaInline:
			avro.Schema, avro.SchemaFile = schemaContent(schema.Schema)
			avro.Options = options(schema.WithOptions)
		case *ast.AvroSchemaCsr:
			csrConn := schema.CsrConnection
			registry := &AvroRegistry{
				Connection:    connectionRef(csrConn.Connection),
				Options:       options(csrConn.WithOptions),
				KeyStrategy:   strategy(csrConn.KeyStrategy),
				ValueStrategy: strategy(csrConn.ValueStrategy),
			}
			if csrConn.Seed != nil {
				registry.Seed = &AvroSeed{KeySchema: csrConn.Seed.KeySchema, ValueSchema: csrConn.Seed.ValueSchema}
			}
			avro.Registry = registry
		default:
			return nil, fmt.Errorf("unsupported avro schema %T", schema)
		}
		return &SingleFormat{Type: TypeAvro, Avro: avro}, nil
	case *ast.ProtobufFormat:
		protobuf := &Protobuf{}
		switch schema := f.Schema.(type) {
		case *ast.ProtobufSchemaInline:
			protobuf.MessageName = schema.MessageName
			protobuf.Schema, protobuf.SchemaFile = schemaContent(schema.Schema)
		case *ast.ProtobufSchemaCsr:
			csrConn := schema.CsrConnection
			registry := &ProtobufRegistry{
				Connection: connectionRef(csrConn.Connection),
				Options:    options(csrConn.WithOptions),
			}
			if csrConn.Seed != nil {
				registry.Seed = &ProtobufSeed{
					Value: ProtobufSchema{Schema: csrConn.Seed.Value.Schema, MessageName: csrConn.Seed.Value.MessageName},
				}
				if key := csrConn.Seed.Key; key != nil {
					registry.Seed.Key = &ProtobufSchema{Schema: key.Schema, MessageName: key.MessageName}
				}
			}
			protobuf.Registry = registry
		default:
			return nil, fmt.Errorf("unsupported protobuf schema %T", schema)
		}
		return &SingleFormat{Type: TypeProtobuf, Protobuf: protobuf}, nil
	case *ast.CsvFormat:
		csv := &Csv{}
		if f.Delimiter != 0 {
			csv.Delimiter = string(f.Delimiter)
		}
		switch columns := f.Columns.(type) {
		case ast.CsvColumnsCount:
			csv.Columns = columns.N
		case *ast.CsvColumnsHeader:
			csv.Header = true
			csv.Names = columns.Names
		}
		return &SingleFormat{Type: TypeCsv, Csv: csv}, nil
	case *ast.BytesFormat:
		return &SingleFormat{Type: TypeBytes}, nil
	case *ast.RegexFormat:
		return &SingleFormat{Type: TypeRegex, Pattern: f.Pattern}, nil
	case *ast.JSONFormat:
		return &SingleFormat{Type: TypeJSON}, nil
	case *ast.TextFormat:
		return &SingleFormat{Type: TypeText}, nil
	default:
		return nil, fmt.Errorf("unsupported format %T", f)
	}
}
