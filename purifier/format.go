package purifier

import (
	"context"
	"fmt"

	"github.com/linkedin/goavro/v2"

	"github.com/rudderlabs/rudder-purifier/catalog"
	"github.com/rudderlabs/rudder-purifier/connections"
	"github.com/rudderlabs/rudder-purifier/sql/ast"
)

// formatContext is what the format of a statement depends on.
type formatContext struct {
	catalog    catalog.SessionCatalog
	connection ast.CreateSourceConnection
	envelope   ast.Envelope
	connCtx    connections.Context
}

func (p *Purifier) purifyFormat(
	ctx context.Context, cat catalog.SessionCatalog, stmt *ast.CreateSourceStatement, connCtx connections.Context,
) error {
	fc := &formatContext{
		catalog:    cat,
		connection: stmt.Connection,
		envelope:   stmt.Envelope,
		connCtx:    connCtx,
	}

	switch format := stmt.Format.(type) {
	case nil, ast.FormatNone:
		return nil
	case *ast.FormatBare:
		return p.purifySingleFormat(ctx, fc, format.Format)
	case *ast.FormatKeyValue:
		if _, ok := stmt.Connection.(*ast.KafkaSourceConnection); !ok {
			return validationErrorf("Kafka sources are the only source type that can provide KEY/VALUE formats")
		}
		if err := p.purifySingleFormat(ctx, fc, format.Key); err != nil {
			return err
		}
		return p.purifySingleFormat(ctx, fc, format.Value)
	default:
		return fmt.Errorf("unsupported source format %T", format)
	}
}

func (p *Purifier) purifySingleFormat(ctx context.Context, fc *formatContext, format ast.Format) error {
	switch format := format.(type) {
	case *ast.AvroFormat:
		switch schema := format.Schema.(type) {
		case *ast.AvroSchemaCsr:
			return p.purifyAvroCsr(ctx, fc, schema.CsrConnection)
		case *ast.AvroSchemaInline:
			return p.inlineAvroSchema(ctx, schema)
		default:
			return fmt.Errorf("unsupported avro schema %T", schema)
		}
	case *ast.ProtobufFormat:
		switch schema := format.Schema.(type) {
		case *ast.ProtobufSchemaCsr:
			return p.purifyProtobufCsr(ctx, fc, schema.CsrConnection)
		case *ast.ProtobufSchemaInline:
			return p.inlineProtobufSchema(ctx, schema)
		default:
			return fmt.Errorf("unsupported protobuf schema %T", schema)
		}
	case *ast.CsvFormat:
		header, ok := format.Columns.(*ast.CsvColumnsHeader)
		if !ok {
			return nil
		}
		if _, ok := fc.connection.(*ast.S3SourceConnection); !ok {
			return validationErrorf("CSV WITH HEADER is only supported for S3 sources")
		}
		if len(header.Names) == 0 {
			return validationErrorf("CSV WITH HEADER for S3 sources requires specifying the header columns")
		}
		return nil
	case *ast.BytesFormat, *ast.RegexFormat, *ast.JSONFormat, *ast.TextFormat:
		return nil
	default:
		return fmt.Errorf("unsupported format %T", format)
	}
}

func (p *Purifier) inlineAvroSchema(ctx context.Context, schema *ast.AvroSchemaInline) error {
	file, ok := schema.Schema.(ast.SchemaFile)
	if !ok {
		return nil
	}
	content, err := p.files.ReadFile(ctx, file.Path)
	if err != nil {
		return fmt.Errorf("reading avro schema file %q: %w", file.Path, err)
	}
	if p.config.validateInlineAvro {
		if _, err := goavro.NewCodec(string(content)); err != nil {
			return validationErrorf("invalid avro schema in %q: %s", file.Path, err)
		}
	}
	schema.Schema = ast.SchemaInline{Content: string(content)}
	return nil
}

func (p *Purifier) inlineProtobufSchema(ctx context.Context, schema *ast.ProtobufSchemaInline) error {
	file, ok := schema.Schema.(ast.SchemaFile)
	if !ok {
		return nil
	}
	descriptors, err := p.files.ReadFile(ctx, file.Path)
	if err != nil {
		return fmt.Errorf("reading protobuf descriptor file %q: %w", file.Path, err)
	}
	schema.Schema = ast.SchemaInline{Content: ast.FormatBytes(descriptors)}
	return nil
}

// kafkaTopic returns the topic of a Kafka source, the only sources with registry schemas.
func kafkaTopic(connection ast.CreateSourceConnection) (string, error) {
	kafkaSrc, ok := connection.(*ast.KafkaSourceConnection)
	if !ok {
		return "", validationErrorf("Confluent Schema Registry is only supported with Kafka sources")
	}
	return kafkaSrc.Topic, nil
}
