package purifier

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/rudderlabs/rudder-go-kit/logger"

	"github.com/rudderlabs/rudder-purifier/catalog"
	"github.com/rudderlabs/rudder-purifier/connections"
	"github.com/rudderlabs/rudder-purifier/services/kafka"
	"github.com/rudderlabs/rudder-purifier/services/postgres"
	"github.com/rudderlabs/rudder-purifier/sql/ast"
	"github.com/rudderlabs/rudder-purifier/utils/awsutils"
)

func (p *Purifier) purifySource(
	ctx context.Context,
	cat catalog.SessionCatalog,
	now time.Time,
	stmt *ast.CreateSourceStatement,
	connCtx connections.Context,
) error {
	options, err := stmt.WithOptions.Map()
	if err != nil {
		return validationErrorf("%s", err)
	}

	switch src := stmt.Connection.(type) {
	case *ast.KafkaSourceConnection:
		return p.purifyKafkaSource(ctx, cat, now, stmt, src, options, connCtx)
	case *ast.S3SourceConnection:
		sessionConfig, err := awsutils.NewSessionConfigFromOptions(options, "", "s3")
		if err != nil {
			return err
		}
		return p.aws.ValidateCredentials(ctx, sessionConfig, connCtx.AWSExternalIDPrefix)
	case *ast.KinesisSourceConnection:
		region, err := awsutils.RegionFromARN(src.ARN)
		if err != nil {
			return err
		}
		sessionConfig, err := awsutils.NewSessionConfigFromOptions(options, region, "kinesis")
		if err != nil {
			return err
		}
		return p.aws.ValidateCredentials(ctx, sessionConfig, connCtx.AWSExternalIDPrefix)
	case *ast.PostgresSourceConnection:
		return p.purifyPostgresSource(ctx, cat, src, connCtx)
	case *ast.PubNubSourceConnection:
		return nil
	default:
		return fmt.Errorf("unsupported source connection %T", src)
	}
}

func (p *Purifier) purifyKafkaSource(
	ctx context.Context,
	cat catalog.SessionCatalog,
	now time.Time,
	stmt *ast.CreateSourceStatement,
	src *ast.KafkaSourceConnection,
	options map[string]ast.Value,
	connCtx connections.Context,
) error {
	clientOptions, err := kafka.ExtractConfig(options)
	if err != nil {
		return err
	}
	conn, err := resolveKafkaConnection(cat, src.Connection, clientOptions)
	if err != nil {
		return err
	}

	consumer, err := p.kafka.NewConsumer(ctx, src.Topic, conn, clientOptions, connCtx.KafkaLogLevel, connCtx.SecretsReader)
	if err != nil {
		return fmt.Errorf("failed to create and connect Kafka consumer: %w", err)
	}

	offsets, ok, err := kafka.LookupStartOffsets(ctx, consumer, src.Topic, options, now)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	p.logger.Infon("Translated time offset to start offsets",
		logger.NewStringField("topic", src.Topic),
		logger.NewIntField("partitions", int64(len(offsets))),
	)
	stmt.WithOptions.Remove(kafka.TimeOffsetOption)
	stmt.WithOptions.Append(kafka.StartOffsetOption, ast.Array(lo.Map(offsets, func(offset int64, _ int) ast.Value {
		return ast.NumberFromInt(offset)
	})))
	return nil
}

func (p *Purifier) purifyPostgresSource(
	ctx context.Context,
	cat catalog.SessionCatalog,
	src *ast.PostgresSourceConnection,
	connCtx connections.Context,
) error {
	conn, err := resolvePostgresConnection(cat, src.Connection)
	if err != nil {
		return err
	}
	tunnel, err := resolveSSHTunnel(cat, conn.SSHTunnel)
	if err != nil {
		return err
	}
	conf, err := postgres.NewConfig(ctx, conn, tunnel, connCtx.SecretsReader)
	if err != nil {
		return err
	}

	tables, err := p.introspector.PublicationInfo(ctx, conf, src.Publication)
	if err != nil {
		return err
	}
	details := postgres.SourceDetails{
		Tables: tables,
		Slot:   p.config.slotPrefix + "_" + p.newSlotID(),
	}
	src.Details = details.Encode()
	return nil
}
