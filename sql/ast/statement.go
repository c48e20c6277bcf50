// Package ast holds the CREATE SOURCE statement shapes produced by the SQL parser and
// consumed by purification and the catalog.
package ast

// CreateSourceStatement is a parsed `CREATE SOURCE` statement.
type CreateSourceStatement struct {
	Name            string
	Connection      CreateSourceConnection
	Format          CreateSourceFormat
	Envelope        Envelope
	WithOptions     WithOptions
	IncludeMetadata []string
	IfNotExists     bool
	Materialized    bool
}

// Clone returns a deep copy of the statement, sharing no mutable state with s.
func (s *CreateSourceStatement) Clone() *CreateSourceStatement {
	if s == nil {
		return nil
	}
	c := &CreateSourceStatement{
		Name:            s.Name,
		Envelope:        s.Envelope,
		WithOptions:     s.WithOptions.Clone(),
		IncludeMetadata: append([]string(nil), s.IncludeMetadata...),
		IfNotExists:     s.IfNotExists,
		Materialized:    s.Materialized,
	}
	if s.Connection != nil {
		c.Connection = s.Connection.clone()
	}
	if s.Format != nil {
		c.Format = s.Format.clone()
	}
	return c
}

// CreateSourceConnection is the connector part of a CREATE SOURCE statement.
type CreateSourceConnection interface {
	isCreateSourceConnection()
	clone() CreateSourceConnection
}

type (
	// KafkaSourceConnection reads a single Kafka topic
	KafkaSourceConnection struct {
		Connection ConnectionRef
		Topic      string
		KeyField   string
	}

	// S3SourceConnection reads objects from S3 buckets
	S3SourceConnection struct {
		KeySources  []S3KeySource
		Pattern     string
		Compression string
	}

	// KinesisSourceConnection reads a Kinesis stream
	KinesisSourceConnection struct {
		ARN string
	}

	// PostgresSourceConnection replicates the tables of a publication.
	// Details is empty until purification, then holds the encoded source details.
	PostgresSourceConnection struct {
		Connection  ConnectionRef
		Publication string
		Details     string
	}

	// PubNubSourceConnection subscribes to a PubNub channel
	PubNubSourceConnection struct {
		SubscribeKey string
		Channel      string
	}
)

// S3KeySource is a way of discovering the objects of an S3 source.
type S3KeySource struct {
	// Scan lists the bucket when set, otherwise objects are announced through SQS
	Scan   bool
	Bucket string
	Queue  string
}

func (*KafkaSourceConnection) isCreateSourceConnection()    {}
func (*S3SourceConnection) isCreateSourceConnection()       {}
func (*KinesisSourceConnection) isCreateSourceConnection()  {}
func (*PostgresSourceConnection) isCreateSourceConnection() {}
func (*PubNubSourceConnection) isCreateSourceConnection()   {}

func (c *KafkaSourceConnection) clone() CreateSourceConnection {
	return &KafkaSourceConnection{Connection: cloneConnectionRef(c.Connection), Topic: c.Topic, KeyField: c.KeyField}
}

func (c *S3SourceConnection) clone() CreateSourceConnection {
	return &S3SourceConnection{
		KeySources:  append([]S3KeySource(nil), c.KeySources...),
		Pattern:     c.Pattern,
		Compression: c.Compression,
	}
}

func (c *KinesisSourceConnection) clone() CreateSourceConnection {
	return &KinesisSourceConnection{ARN: c.ARN}
}

func (c *PostgresSourceConnection) clone() CreateSourceConnection {
	return &PostgresSourceConnection{
		Connection:  cloneConnectionRef(c.Connection),
		Publication: c.Publication,
		Details:     c.Details,
	}
}

func (c *PubNubSourceConnection) clone() CreateSourceConnection {
	return &PubNubSourceConnection{SubscribeKey: c.SubscribeKey, Channel: c.Channel}
}

// ConnectionRef is either a set of inline connection parameters or the name of a
// catalog connection.
type ConnectionRef interface {
	isConnectionRef()
}

type (
	InlineConnection struct {
		Options WithOptions
	}
	ConnectionReference struct {
		Name string
	}
)

func (*InlineConnection) isConnectionRef()    {}
func (*ConnectionReference) isConnectionRef() {}

func cloneConnectionRef(ref ConnectionRef) ConnectionRef {
	switch ref := ref.(type) {
	case *InlineConnection:
		return &InlineConnection{Options: ref.Options.Clone()}
	case *ConnectionReference:
		return &ConnectionReference{Name: ref.Name}
	default:
		return ref
	}
}
