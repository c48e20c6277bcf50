package purifier

import (
	"context"
	"fmt"

	"google.golang.org/protobuf/proto"

	"github.com/rudderlabs/rudder-go-kit/logger"
	obskit "github.com/rudderlabs/rudder-observability-kit/go/labels"

	"github.com/rudderlabs/rudder-purifier/services/csr"
	"github.com/rudderlabs/rudder-purifier/sql/ast"
)

// protobufMessagesIssue tracks support for protobuf schemas with several messages
const protobufMessagesIssue = 9598

func (p *Purifier) purifyProtobufCsr(ctx context.Context, fc *formatContext, csrConn *ast.CsrConnectionProtobuf) error {
	topic, err := kafkaTopic(fc.connection)
	if err != nil {
		return err
	}
	if csrConn == nil {
		return validationErrorf("protobuf schema registry clause has no connection")
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

	value, err := p.compileSubject(ctx, client, topic+"-value")
	if err != nil {
		return err
	}
	key, err := p.compileSubject(ctx, client, topic+"-key")
	if err != nil {
		p.logger.Debugn("No usable key schema",
			logger.NewStringField("topic", topic),
			obskit.Error(err),
		)
		key = nil
	}

	if ast.IsDebeziumUpsert(fc.envelope) && key == nil {
		return ErrKeySchemaRequired
	}

	csrConn.Seed = &ast.CsrSeedProtobuf{Value: *value, Key: key}
	return nil
}

// compileSubject compiles the latest version of subject and the subjects it references into
// a descriptor set. The primary file must hold exactly one message.
func (p *Purifier) compileSubject(ctx context.Context, client csr.Client, subject string) (*ast.CsrSeedProtobufSchema, error) {
	primary, references, err := client.GetSubjectAndReferences(ctx, subject)
	if err != nil {
		return nil, err
	}

	files := make(map[string]string, len(references)+1)
	files[primary.Path] = primary.Schema.Raw
	for _, ref := range references {
		files[ref.Path] = ref.Schema.Raw
	}
	result, err := p.compiler.Compile(ctx, files, primary.Path)
	if err != nil {
		return nil, err
	}

	messages := result.Primary.Messages()
	switch messages.Len() {
	case 1:
	case 0:
		return nil, &UnsupportedError{Feature: "Protobuf schemas with no messages", Issue: protobufMessagesIssue}
	default:
		return nil, &UnsupportedError{Feature: "Protobuf schemas with multiple messages", Issue: protobufMessagesIssue}
	}

	b, err := proto.Marshal(result.Set)
	if err != nil {
		return nil, fmt.Errorf("encoding descriptor set of subject %q: %w", subject, err)
	}
	return &ast.CsrSeedProtobufSchema{
		Schema:      ast.FormatBytes(b),
		MessageName: string(messages.Get(0).Name()),
	}, nil
}
