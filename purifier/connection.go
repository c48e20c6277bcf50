package purifier

import (
	"fmt"
	"strings"

	"github.com/rudderlabs/rudder-purifier/catalog"
	"github.com/rudderlabs/rudder-purifier/connections"
	"github.com/rudderlabs/rudder-purifier/sql/ast"
)

// inlineKafkaBroker is the only parameter of an inline Kafka connection
const inlineKafkaBroker = "broker"

// lookupConnection resolves a catalog reference into a connection of the given kind.
func lookupConnection(cat catalog.SessionCatalog, name string, kind connections.Kind) (connections.Connection, error) {
	item, err := cat.Lookup(name)
	if err != nil {
		return nil, err
	}
	if item.Connection == nil || item.Connection.Kind() != kind {
		return nil, validationErrorf("%s is not a %s connection", item.Name, kind)
	}
	return item.Connection, nil
}

// resolveKafkaConnection resolves ref. Inline brokers are added to options as bootstrap.servers
// before the connection is built out of them.
func resolveKafkaConnection(
	cat catalog.SessionCatalog, ref ast.ConnectionRef, options connections.Options,
) (*connections.KafkaConnection, error) {
	switch ref := ref.(type) {
	case *ast.ConnectionReference:
		conn, err := lookupConnection(cat, ref.Name, connections.KindKafka)
		if err != nil {
			return nil, err
		}
		return conn.(*connections.KafkaConnection), nil
	case *ast.InlineConnection:
		broker, ok := ref.Options.Get(inlineKafkaBroker)
		if !ok || broker == nil {
			return nil, validationErrorf("inline kafka connection requires %s", inlineKafkaBroker)
		}
		if _, ok := broker.(ast.String); !ok {
			return nil, validationErrorf("%s must be a string", inlineKafkaBroker)
		}
		addrs, err := connections.ParseKafkaAddrs(broker.String())
		if err != nil {
			return nil, err
		}
		options[connections.KafkaBootstrapServers] = connections.Literal(strings.Join(addrs, ","))
		return connections.NewKafkaConnection(options)
	default:
		return nil, fmt.Errorf("unsupported connection reference %T", ref)
	}
}

// resolveCsrConnection resolves ref. Inline parameters are merged with the options of the
// schema registry clause.
func resolveCsrConnection(
	cat catalog.SessionCatalog, ref ast.ConnectionRef, withOptions ast.WithOptions,
) (*connections.CsrConnection, error) {
	switch ref := ref.(type) {
	case *ast.ConnectionReference:
		conn, err := lookupConnection(cat, ref.Name, connections.KindCsr)
		if err != nil {
			return nil, err
		}
		return conn.(*connections.CsrConnection), nil
	case *ast.InlineConnection:
		merged := append(ref.Options.Clone(), withOptions...)
		opts, err := inlineOptions(merged)
		if err != nil {
			return nil, err
		}
		return connections.NewCsrConnection(opts)
	default:
		return nil, fmt.Errorf("unsupported connection reference %T", ref)
	}
}

func resolvePostgresConnection(cat catalog.SessionCatalog, ref ast.ConnectionRef) (*connections.PostgresConnection, error) {
	switch ref := ref.(type) {
	case *ast.ConnectionReference:
		conn, err := lookupConnection(cat, ref.Name, connections.KindPostgres)
		if err != nil {
			return nil, err
		}
		return conn.(*connections.PostgresConnection), nil
	case *ast.InlineConnection:
		opts, err := inlineOptions(ref.Options)
		if err != nil {
			return nil, err
		}
		return connections.NewPostgresConnection(opts)
	default:
		return nil, fmt.Errorf("unsupported connection reference %T", ref)
	}
}

func resolveSSHTunnel(cat catalog.SessionCatalog, name string) (*connections.SSHConnection, error) {
	if name == "" {
		return nil, nil
	}
	conn, err := lookupConnection(cat, name, connections.KindSSH)
	if err != nil {
		return nil, err
	}
	return conn.(*connections.SSHConnection), nil
}

func inlineOptions(o ast.WithOptions) (connections.Options, error) {
	values, err := o.Map()
	if err != nil {
		return nil, validationErrorf("%s", err)
	}
	return connections.OptionsFromValues(values)
}
