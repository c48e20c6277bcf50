// Package purifier resolves the external dependencies of CREATE SOURCE statements: broker
// offsets, registry schemas, cloud credentials and replication metadata are fetched once and
// stored in the statement as literals, so that the catalog never has to reach them again.
package purifier

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/viant/afs"

	"github.com/rudderlabs/rudder-go-kit/config"
	"github.com/rudderlabs/rudder-go-kit/logger"
	"github.com/rudderlabs/rudder-go-kit/stats"
	obskit "github.com/rudderlabs/rudder-observability-kit/go/labels"

	"github.com/rudderlabs/rudder-purifier/catalog"
	"github.com/rudderlabs/rudder-purifier/connections"
	"github.com/rudderlabs/rudder-purifier/secrets"
	"github.com/rudderlabs/rudder-purifier/services/csr"
	"github.com/rudderlabs/rudder-purifier/services/kafka"
	"github.com/rudderlabs/rudder-purifier/services/postgres"
	"github.com/rudderlabs/rudder-purifier/services/protoc"
	"github.com/rudderlabs/rudder-purifier/sql/ast"
	"github.com/rudderlabs/rudder-purifier/utils/awsutils"
)

// KafkaConnector builds consumers able to read topic metadata.
type KafkaConnector interface {
	NewConsumer(
		ctx context.Context,
		topic string,
		conn *connections.KafkaConnection,
		options connections.Options,
		logLevel string,
		reader secrets.Reader,
	) (kafka.Consumer, error)
}

// RegistryConnector builds schema registry clients.
type RegistryConnector interface {
	Connect(ctx context.Context, conn *connections.CsrConnection, reader secrets.Reader) (csr.Client, error)
}

// RegistryConnectorFunc adapts a function to RegistryConnector.
type RegistryConnectorFunc func(ctx context.Context, conn *connections.CsrConnection, reader secrets.Reader) (csr.Client, error)

func (f RegistryConnectorFunc) Connect(ctx context.Context, conn *connections.CsrConnection, reader secrets.Reader) (csr.Client, error) {
	return f(ctx, conn, reader)
}

// DescriptorCompiler compiles in-memory .proto files.
type DescriptorCompiler interface {
	Compile(ctx context.Context, files map[string]string, primary string) (*protoc.Result, error)
}

// ReplicationIntrospector reads the tables of a Postgres publication.
type ReplicationIntrospector interface {
	PublicationInfo(ctx context.Context, conf *postgres.Config, publication string) ([]postgres.TableInfo, error)
}

// CredentialsValidator checks that AWS credentials are usable.
type CredentialsValidator interface {
	ValidateCredentials(ctx context.Context, conf *awsutils.SessionConfig, externalIDPrefix string) error
}

// FileReader reads the files referenced by statements.
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

type Opt func(*Purifier)

func WithKafkaConnector(c KafkaConnector) Opt {
	return func(p *Purifier) { p.kafka = c }
}

func WithRegistryConnector(c RegistryConnector) Opt {
	return func(p *Purifier) { p.registry = c }
}

func WithCompiler(c DescriptorCompiler) Opt {
	return func(p *Purifier) { p.compiler = c }
}

func WithIntrospector(i ReplicationIntrospector) Opt {
	return func(p *Purifier) { p.introspector = i }
}

func WithCredentialsValidator(v CredentialsValidator) Opt {
	return func(p *Purifier) { p.aws = v }
}

func WithFileReader(r FileReader) Opt {
	return func(p *Purifier) { p.files = r }
}

func WithSlotNameGenerator(f func() string) Opt {
	return func(p *Purifier) { p.newSlotID = f }
}

// Purifier purifies CREATE SOURCE statements. It holds no per-statement state and can be
// used concurrently.
type Purifier struct {
	logger logger.Logger
	stats  stats.Stats

	config struct {
		validateInlineAvro bool
		slotPrefix         string
	}

	kafka        KafkaConnector
	registry     RegistryConnector
	compiler     DescriptorCompiler
	introspector ReplicationIntrospector
	aws          CredentialsValidator
	files        FileReader
	newSlotID    func() string
}

var slotPrefixRegex = regexp.MustCompile(`^[a-z0-9_]*$`)

func New(conf *config.Config, log logger.Logger, stat stats.Stats, opts ...Opt) *Purifier {
	p := &Purifier{
		logger: log.Child("purifier"),
		stats:  stat,
	}
	p.config.validateInlineAvro = conf.GetBoolVar(true, "Purifier.Avro.validateInlineSchemas")
	p.config.slotPrefix = strings.ToLower(conf.GetStringVar("rudder_slot", "Purifier.Postgres.slotPrefix"))
	if !slotPrefixRegex.MatchString(p.config.slotPrefix) {
		p.logger.Warnn("Invalid replication slot prefix, using default",
			logger.NewStringField("prefix", p.config.slotPrefix),
		)
		p.config.slotPrefix = "rudder_slot"
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.kafka == nil {
		p.kafka = kafka.NewConnector(conf, log)
	}
	if p.registry == nil {
		p.registry = RegistryConnectorFunc(csr.New)
	}
	if p.compiler == nil {
		p.compiler = &protoc.Compiler{}
	}
	if p.introspector == nil {
		p.introspector = postgres.NewIntrospector(conf, log)
	}
	if p.aws == nil {
		p.aws = awsutils.NewValidator(conf, log)
	}
	if p.files == nil {
		p.files = &afsReader{fs: afs.New()}
	}
	if p.newSlotID == nil {
		p.newSlotID = func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") }
	}
	return p
}

// PurifyCreateSource returns a purified copy of stmt, leaving stmt untouched. Source kind
// specific state is resolved before the format, which may depend on it.
//
// Every call to a Postgres source mints a new replication slot name: on error the whole
// statement must be discarded and purified again from scratch.
func (p *Purifier) PurifyCreateSource(
	ctx context.Context,
	cat catalog.SessionCatalog,
	now time.Time,
	stmt *ast.CreateSourceStatement,
	connCtx connections.Context,
) (*ast.CreateSourceStatement, error) {
	if stmt == nil || stmt.Connection == nil {
		return nil, validationErrorf("source statement has no connection")
	}

	start := time.Now()
	kind := sourceKind(stmt.Connection)
	log := p.logger.Withn(
		logger.NewStringField("source", stmt.Name),
		logger.NewStringField("kind", kind),
	)
	log.Debugn("Purifying source")

	purified := stmt.Clone()
	err := p.purifySource(ctx, cat, now, purified, connCtx)
	if err == nil {
		err = p.purifyFormat(ctx, cat, purified, connCtx)
	}

	status := "success"
	if err != nil {
		status = "failure"
	}
	tags := stats.Tags{"kind": kind, "status": status}
	p.stats.NewTaggedStat("source_purification_duration", stats.TimerType, tags).Since(start)
	p.stats.NewTaggedStat("source_purification_total", stats.CountType, tags).Increment()

	if err != nil {
		log.Warnn("Purifying source failed", obskit.Error(err))
		return nil, err
	}
	log.Infon("Purified source", logger.NewDurationField("duration", time.Since(start)))
	return purified, nil
}

func sourceKind(c ast.CreateSourceConnection) string {
	switch c.(type) {
	case *ast.KafkaSourceConnection:
		return "kafka"
	case *ast.S3SourceConnection:
		return "s3"
	case *ast.KinesisSourceConnection:
		return "kinesis"
	case *ast.PostgresSourceConnection:
		return "postgres"
	case *ast.PubNubSourceConnection:
		return "pubnub"
	default:
		return fmt.Sprintf("%T", c)
	}
}

type afsReader struct {
	fs afs.Service
}

func (r *afsReader) ReadFile(ctx context.Context, path string) ([]byte, error) {
	return r.fs.DownloadWithURL(ctx, path)
}
