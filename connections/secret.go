package connections

import (
	"context"
	"fmt"

	"github.com/rudderlabs/rudder-purifier/secrets"
	"github.com/rudderlabs/rudder-purifier/sql/ast"
)

// StringOrSecret is either a literal string or a reference to a secret.
type StringOrSecret struct {
	Value  string     `yaml:"value,omitempty" json:"value,omitempty"`
	Secret secrets.ID `yaml:"secret,omitempty" json:"secret,omitempty"`
}

func Literal(s string) StringOrSecret { return StringOrSecret{Value: s} }

func SecretRef(id secrets.ID) StringOrSecret { return StringOrSecret{Secret: id} }

func (s StringOrSecret) IsSecret() bool { return s.Secret != "" }

// GetString returns the value, reading the secret if necessary.
func (s StringOrSecret) GetString(ctx context.Context, r secrets.Reader) (string, error) {
	if !s.IsSecret() {
		return s.Value, nil
	}
	return r.ReadString(ctx, s.Secret)
}

func (s StringOrSecret) String() string {
	if s.IsSecret() {
		return "SECRET " + string(s.Secret)
	}
	return s.Value
}

// Options are connection options keyed by their client configuration name.
type Options map[string]StringOrSecret

// OptionsFromValues converts normalized statement options into connection options.
// Only scalar values and secrets are accepted.
func OptionsFromValues(values map[string]ast.Value) (Options, error) {
	opts := make(Options, len(values))
	for k, v := range values {
		switch v := v.(type) {
		case ast.Secret:
			opts[k] = SecretRef(secrets.ID(v.ID))
		case ast.String, ast.Number, ast.Boolean:
			opts[k] = Literal(v.String())
		case nil:
			return nil, fmt.Errorf("option %q requires a value", k)
		default:
			return nil, fmt.Errorf("option %q: unsupported value %s", k, v)
		}
	}
	return opts, nil
}

// Remove deletes key and returns its value, if present.
func (o Options) Remove(key string) (StringOrSecret, bool) {
	v, ok := o[key]
	if ok {
		delete(o, key)
	}
	return v, ok
}

func (o Options) removeString(key string) (string, bool, error) {
	v, ok := o.Remove(key)
	if !ok {
		return "", false, nil
	}
	if v.IsSecret() {
		return "", false, fmt.Errorf("%s must be a string, not a secret", key)
	}
	return v.Value, true, nil
}

func (o Options) removeSecret(key string) (secrets.ID, bool, error) {
	v, ok := o.Remove(key)
	if !ok {
		return "", false, nil
	}
	if !v.IsSecret() {
		return "", false, fmt.Errorf("%s must be a secret", key)
	}
	return v.Secret, true, nil
}
