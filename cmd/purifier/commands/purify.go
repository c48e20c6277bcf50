package commands

import (
	"bytes"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rudderlabs/rudder-go-kit/config"
	"github.com/rudderlabs/rudder-go-kit/logger"
	"github.com/rudderlabs/rudder-go-kit/stats"

	"github.com/rudderlabs/rudder-purifier/connections"
	"github.com/rudderlabs/rudder-purifier/jsonrs"
	"github.com/rudderlabs/rudder-purifier/purifier"
	"github.com/rudderlabs/rudder-purifier/sql/document"
)

func init() {
	DefaultList = append(DefaultList, PURIFY())
}

func PURIFY() *cli.Command {
	return &cli.Command{
		Name:   "purify",
		Usage:  "purify a CREATE SOURCE statement and print it as JSON",
		Action: Purify,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "statement",
				Aliases:  []string{"s"},
				Usage:    "statement document, local path, afs URL or - for stdin",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "catalog",
				Aliases: []string{"c"},
				Usage:   "catalog document holding the connections the statement refers to",
			},
			&cli.StringFlag{
				Name:  "secrets",
				Usage: "YAML document mapping secret ids to their plaintext",
			},
			&cli.StringFlag{
				Name:  "scy-base-url",
				Usage: "location of the scy secret resources, one per secret id",
			},
			&cli.StringFlag{
				Name:  "scy-key",
				Usage: "key used to decrypt the scy secret resources",
			},
			&cli.StringFlag{
				Name:  "now",
				Usage: "RFC3339 timestamp that relative time offsets are resolved against, defaults to the current time",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log to stdout",
				Value:   false,
			},
		},
	}
}

func Purify(c *cli.Context) error {
	ctx := c.Context
	conf := config.New()

	log := logger.NOP
	if c.Bool("verbose") {
		log = logger.NewLogger().Child("cli")
	}

	now := time.Now()
	if s := c.String("now"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid now %q: %w", s, err)
		}
		now = t
	}

	raw, err := read(ctx, c, c.String("statement"))
	if err != nil {
		return err
	}
	stmt, err := document.Decode(bytes.NewReader(raw))
	if err != nil {
		return err
	}
	snapshot, err := loadCatalog(ctx, c, c.String("catalog"))
	if err != nil {
		return err
	}
	reader, err := secretsReader(ctx, c, conf)
	if err != nil {
		return err
	}

	p := purifier.New(conf, log, stats.NOP)
	purified, err := p.PurifyCreateSource(ctx, snapshot, now, stmt, connections.NewContext(conf, reader))
	if err != nil {
		return fmt.Errorf("purifying %s: %w", stmt.Name, err)
	}

	doc, err := document.FromStatement(purified)
	if err != nil {
		return err
	}
	return jsonrs.NewEncoder(c.App.Writer).Encode(doc)
}
