package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/rudderlabs/rudder-go-kit/config"

	"github.com/rudderlabs/rudder-purifier/catalog"
	"github.com/rudderlabs/rudder-purifier/secrets"
)

var DefaultList []*cli.Command

const stdin = "-"

// read returns the content of location, any afs URL or - for stdin.
func read(ctx context.Context, c *cli.Context, location string) ([]byte, error) {
	if location == stdin {
		return io.ReadAll(c.App.Reader)
	}
	b, err := afs.New().DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", location, err)
	}
	return b, nil
}

func loadCatalog(ctx context.Context, c *cli.Context, location string) (*catalog.Snapshot, error) {
	if location == "" {
		return catalog.NewSnapshot()
	}
	b, err := read(ctx, c, location)
	if err != nil {
		return nil, err
	}
	return catalog.LoadYAML(bytes.NewReader(b))
}

// secretsReader prefers a local secrets document, then scy resources, and falls back to no
// secrets at all.
func secretsReader(ctx context.Context, c *cli.Context, conf *config.Config) (secrets.Reader, error) {
	if location := c.String("secrets"); location != "" {
		b, err := read(ctx, c, location)
		if err != nil {
			return nil, err
		}
		static := secrets.Static{}
		if err := yaml.Unmarshal(b, &static); err != nil {
			return nil, fmt.Errorf("decoding secrets: %w", err)
		}
		return static, nil
	}
	baseURL := c.String("scy-base-url")
	if baseURL == "" {
		baseURL = conf.GetStringVar("", "Purifier.Secrets.scyBaseURL")
	}
	if baseURL != "" {
		return secrets.NewScyReader(baseURL, c.String("scy-key")), nil
	}
	return secrets.Static{}, nil
}
