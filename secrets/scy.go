package secrets

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/scy"
)

// ScyReader loads secrets with scy, one resource per secret id under BaseURL.
// Key, when set, names the key used to decrypt the stored resources.
type ScyReader struct {
	BaseURL string
	Key     string

	service *scy.Service
}

func NewScyReader(baseURL, key string) *ScyReader {
	return &ScyReader{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Key:     key,
		service: scy.New(),
	}
}

func (r *ScyReader) ReadString(ctx context.Context, id ID) (string, error) {
	if id == "" {
		return "", fmt.Errorf("reading secret: empty id")
	}
	resource := &scy.Resource{URL: r.BaseURL + "/" + string(id), Key: r.Key}
	secret, err := r.service.Load(ctx, resource)
	if err != nil {
		return "", fmt.Errorf("loading secret %q: %w", id, err)
	}
	return secret.String(), nil
}
