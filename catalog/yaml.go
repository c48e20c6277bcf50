package catalog

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/rudderlabs/rudder-purifier/connections"
)

type yamlCatalog struct {
	Connections []yamlConnection `yaml:"connections"`
}

type yamlConnection struct {
	Name    string              `yaml:"name"`
	Type    string              `yaml:"type"`
	Options connections.Options `yaml:"options"`
}

// LoadYAML reads a snapshot from a YAML document of the form:
//
//	connections:
//	  - name: kafka_conn
//	    type: kafka
//	    options:
//	      bootstrap.servers: { value: "localhost:9092" }
//	      sasl.password: { secret: "kafka-password" }
func LoadYAML(r io.Reader) (*Snapshot, error) {
	var doc yamlCatalog
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	items := make([]*Item, 0, len(doc.Connections))
	for _, c := range doc.Connections {
		if c.Name == "" {
			return nil, fmt.Errorf("decoding catalog: connection without a name")
		}
		opts := c.Options
		if opts == nil {
			opts = connections.Options{}
		}
		conn, err := newConnection(connections.Kind(c.Type), opts)
		if err != nil {
			return nil, fmt.Errorf("decoding connection %q: %w", c.Name, err)
		}
		items = append(items, &Item{Name: c.Name, Connection: conn})
	}
	return NewSnapshot(items...)
}

func newConnection(kind connections.Kind, opts connections.Options) (connections.Connection, error) {
	switch kind {
	case connections.KindKafka:
		return connections.NewKafkaConnection(opts)
	case connections.KindCsr, "csr":
		return connections.NewCsrConnection(opts)
	case connections.KindPostgres:
		return connections.NewPostgresConnection(opts)
	case connections.KindSSH:
		return connections.NewSSHConnection(opts)
	default:
		return nil, fmt.Errorf("unknown connection type %q", kind)
	}
}
