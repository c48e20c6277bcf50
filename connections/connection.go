// Package connections models the connections stored in the catalog (Kafka, schema
// registry, Postgres and SSH) and how they are built from inline statement parameters.
//
// Connections never hold plaintext credentials: sensitive fields reference catalog secrets
// which are only read, through a secrets.Reader, when a live client is built.
package connections

// Kind names the type of a connection.
type Kind string

const (
	KindKafka    Kind = "kafka"
	KindCsr      Kind = "schema registry"
	KindPostgres Kind = "postgres"
	KindSSH      Kind = "ssh"
)

// Connection is one of *KafkaConnection, *CsrConnection, *PostgresConnection or
// *SSHConnection.
type Connection interface {
	Kind() Kind
}

func (*KafkaConnection) Kind() Kind    { return KindKafka }
func (*CsrConnection) Kind() Kind      { return KindCsr }
func (*PostgresConnection) Kind() Kind { return KindPostgres }
func (*SSHConnection) Kind() Kind      { return KindSSH }
