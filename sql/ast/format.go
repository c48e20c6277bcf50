package ast

// CreateSourceFormat is the FORMAT clause of a CREATE SOURCE statement.
type CreateSourceFormat interface {
	isCreateSourceFormat()
	clone() CreateSourceFormat
}

type (
	// FormatNone is used when the statement carries no FORMAT clause
	FormatNone struct{}
	// FormatBare is `FORMAT <format>`
	FormatBare struct {
		Format Format
	}
	// FormatKeyValue is `KEY FORMAT <format> VALUE FORMAT <format>`
	FormatKeyValue struct {
		Key   Format
		Value Format
	}
)

func (FormatNone) isCreateSourceFormat()      {}
func (*FormatBare) isCreateSourceFormat()     {}
func (*FormatKeyValue) isCreateSourceFormat() {}

func (f FormatNone) clone() CreateSourceFormat { return f }

func (f *FormatBare) clone() CreateSourceFormat {
	return &FormatBare{Format: cloneFormat(f.Format)}
}

func (f *FormatKeyValue) clone() CreateSourceFormat {
	return &FormatKeyValue{Key: cloneFormat(f.Key), Value: cloneFormat(f.Value)}
}

// Format is a single payload format.
type Format interface {
	isFormat()
	clone() Format
}

type (
	AvroFormat struct {
		Schema AvroSchema
	}
	ProtobufFormat struct {
		Schema ProtobufSchema
	}
	CsvFormat struct {
		Columns   CsvColumns
		Delimiter rune
	}
	BytesFormat struct{}
	RegexFormat struct {
		Pattern string
	}
	JSONFormat struct{}
	TextFormat struct{}
)

func (*AvroFormat) isFormat()     {}
func (*ProtobufFormat) isFormat() {}
func (*CsvFormat) isFormat()      {}
func (*BytesFormat) isFormat()    {}
func (*RegexFormat) isFormat()    {}
func (*JSONFormat) isFormat()     {}
func (*TextFormat) isFormat()     {}

func (*BytesFormat) clone() Format   { return &BytesFormat{} }
func (f *RegexFormat) clone() Format { return &RegexFormat{Pattern: f.Pattern} }
func (*JSONFormat) clone() Format    { return &JSONFormat{} }
func (*TextFormat) clone() Format    { return &TextFormat{} }

func (f *AvroFormat) clone() Format {
	c := &AvroFormat{}
	if f.Schema != nil {
		c.Schema = f.Schema.clone()
	}
	return c
}

func (f *ProtobufFormat) clone() Format {
	c := &ProtobufFormat{}
	if f.Schema != nil {
		c.Schema = f.Schema.clone()
	}
	return c
}

func (f *CsvFormat) clone() Format {
	c := &CsvFormat{Delimiter: f.Delimiter}
	if f.Columns != nil {
		c.Columns = f.Columns.clone()
	}
	return c
}

func cloneFormat(f Format) Format {
	if f == nil {
		return nil
	}
	return f.clone()
}

// Schema is a schema given either inline or as a path to a file.
type Schema interface {
	isSchema()
}

type (
	SchemaInline struct {
		Content string
	}
	SchemaFile struct {
		Path string
	}
)

func (SchemaInline) isSchema() {}
func (SchemaFile) isSchema()   {}

// AvroSchema is either an inline schema or a schema registry reference.
type AvroSchema interface {
	isAvroSchema()
	clone() AvroSchema
}

type (
	AvroSchemaInline struct {
		Schema      Schema
		WithOptions WithOptions
	}
	AvroSchemaCsr struct {
		CsrConnection *CsrConnectionAvro
	}
)

func (*AvroSchemaInline) isAvroSchema() {}
func (*AvroSchemaCsr) isAvroSchema()    {}

func (s *AvroSchemaInline) clone() AvroSchema {
	return &AvroSchemaInline{Schema: s.Schema, WithOptions: s.WithOptions.Clone()}
}

func (s *AvroSchemaCsr) clone() AvroSchema {
	return &AvroSchemaCsr{CsrConnection: s.CsrConnection.clone()}
}

// CsrConnectionAvro points an Avro format at a schema registry.
// Seed is nil until the schemas have been fetched.
type CsrConnectionAvro struct {
	Connection    ConnectionRef
	Seed          *CsrSeedAvro
	KeyStrategy   ReaderSchemaSelectionStrategy
	ValueStrategy ReaderSchemaSelectionStrategy
	WithOptions   WithOptions
}

func (c *CsrConnectionAvro) clone() *CsrConnectionAvro {
	if c == nil {
		return nil
	}
	clone := &CsrConnectionAvro{
		Connection:    cloneConnectionRef(c.Connection),
		KeyStrategy:   c.KeyStrategy,
		ValueStrategy: c.ValueStrategy,
		WithOptions:   c.WithOptions.Clone(),
	}
	if c.Seed != nil {
		seed := *c.Seed
		if c.Seed.KeySchema != nil {
			key := *c.Seed.KeySchema
			seed.KeySchema = &key
		}
		clone.Seed = &seed
	}
	return clone
}

// CsrSeedAvro holds the schemas resolved from the registry.
type CsrSeedAvro struct {
	KeySchema   *string
	ValueSchema string
}

// ProtobufSchema is either an inline descriptor set or a schema registry reference.
type ProtobufSchema interface {
	isProtobufSchema()
	clone() ProtobufSchema
}

type (
	ProtobufSchemaInline struct {
		MessageName string
		Schema      Schema
	}
	ProtobufSchemaCsr struct {
		CsrConnection *CsrConnectionProtobuf
	}
)

func (*ProtobufSchemaInline) isProtobufSchema() {}
func (*ProtobufSchemaCsr) isProtobufSchema()    {}

func (s *ProtobufSchemaInline) clone() ProtobufSchema {
	return &ProtobufSchemaInline{MessageName: s.MessageName, Schema: s.Schema}
}

func (s *ProtobufSchemaCsr) clone() ProtobufSchema {
	return &ProtobufSchemaCsr{CsrConnection: s.CsrConnection.clone()}
}

// CsrConnectionProtobuf points a Protobuf format at a schema registry.
type CsrConnectionProtobuf struct {
	Connection  ConnectionRef
	Seed        *CsrSeedProtobuf
	WithOptions WithOptions
}

func (c *CsrConnectionProtobuf) clone() *CsrConnectionProtobuf {
	if c == nil {
		return nil
	}
	clone := &CsrConnectionProtobuf{
		Connection:  cloneConnectionRef(c.Connection),
		WithOptions: c.WithOptions.Clone(),
	}
	if c.Seed != nil {
		seed := *c.Seed
		if c.Seed.Key != nil {
			key := *c.Seed.Key
			seed.Key = &key
		}
		clone.Seed = &seed
	}
	return clone
}

type CsrSeedProtobuf struct {
	Value CsrSeedProtobufSchema
	Key   *CsrSeedProtobufSchema
}

// CsrSeedProtobufSchema is a compiled descriptor set, encoded as a byte-string literal,
// together with the name of the message it describes.
type CsrSeedProtobufSchema struct {
	Schema      string
	MessageName string
}

// ReaderSchemaSelectionStrategy selects which registry schema is used as reader schema.
// A nil strategy means LatestStrategy.
type ReaderSchemaSelectionStrategy interface {
	isReaderSchemaSelectionStrategy()
}

type (
	LatestStrategy struct{}
	InlineStrategy struct {
		Raw string
	}
	ByIDStrategy struct {
		ID int
	}
)

func (LatestStrategy) isReaderSchemaSelectionStrategy() {}
func (InlineStrategy) isReaderSchemaSelectionStrategy() {}
func (ByIDStrategy) isReaderSchemaSelectionStrategy()   {}

// CsvColumns describes how CSV columns are named.
type CsvColumns interface {
	isCsvColumns()
	clone() CsvColumns
}

type (
	CsvColumnsCount struct {
		N int
	}
	CsvColumnsHeader struct {
		Names []string
	}
)

func (CsvColumnsCount) isCsvColumns()   {}
func (*CsvColumnsHeader) isCsvColumns() {}

func (c CsvColumnsCount) clone() CsvColumns { return c }

func (c *CsvColumnsHeader) clone() CsvColumns {
	return &CsvColumnsHeader{Names: append([]string(nil), c.Names...)}
}
