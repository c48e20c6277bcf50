package purifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/rudderlabs/rudder-go-kit/logger"

	"github.com/rudderlabs/rudder-purifier/services/csr"
	"github.com/rudderlabs/rudder-purifier/sql/ast"
)

func (p *Purifier) purifyAvroCsr(ctx context.Context, fc *formatContext, csrConn *ast.CsrConnectionAvro) error {
	topic, err := kafkaTopic(fc.connection)
	if err != nil {
		return err
	}
	if csrConn == nil {
		return validationErrorf("avro schema registry clause has no connection")
	}
	if csrConn.Seed != nil {
		return nil
	}

	conn, err := resolveCsrConnection(fc.catalog, csrConn.Connection, csrConn.WithOptions)
	if err != nil {
		return err
	}
	client, err := p.registry.Connect(ctx, conn, fc.connCtx.SecretsReader)
	if err != nil {
		return err
	}

	valueSubject := topic + "-value"
	valueSchema, err := schemaWithStrategy(ctx, client, csrConn.ValueStrategy, valueSubject)
	if err != nil {
		return fmt.Errorf("fetching latest schema for subject '%s' from registry: %w", valueSubject, err)
	}
	if valueSchema == nil {
		return errors.New("no value schema found")
	}
	keySchema, err := schemaWithStrategy(ctx, client, csrConn.KeyStrategy, topic+"-key")
	if err != nil {
		return err
	}

	if ast.IsDebeziumUpsert(fc.envelope) && keySchema == nil {
		return ErrKeySchemaRequired
	}

	p.logger.Debugn("Resolved avro schemas",
		logger.NewStringField("topic", topic),
		logger.NewBoolField("hasKeySchema", keySchema != nil),
	)
	csrConn.Seed = &ast.CsrSeedAvro{KeySchema: keySchema, ValueSchema: *valueSchema}
	return nil
}

// schemaWithStrategy returns the reader schema selected by strategy, nil when the registry
// does not know about it.
func schemaWithStrategy(
	ctx context.Context, client csr.Client, strategy ast.ReaderSchemaSelectionStrategy, subject string,
) (*string, error) {
	switch strategy := strategy.(type) {
	case nil, ast.LatestStrategy:
		schema, err := client.GetSchemaBySubject(ctx, subject)
		if errors.Is(err, csr.ErrSubjectNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up schema by subject: %w", err)
		}
		return &schema.Raw, nil
	case ast.InlineStrategy:
		raw := strategy.Raw
		return &raw, nil
	case ast.ByIDStrategy:
		schema, err := client.GetSchemaByID(ctx, strategy.ID)
		if errors.Is(err, csr.ErrSchemaNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up schema by id: %w", err)
		}
		return &schema.Raw, nil
	default:
		return nil, fmt.Errorf("unsupported reader schema selection strategy %T", strategy)
	}
}
