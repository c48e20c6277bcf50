package ast

import (
	"fmt"
	"strings"
)

// WithOption is a single `key = value` entry of a WITH (...) clause.
// A nil Value stands for a bare key.
type WithOption struct {
	Key   string
	Value Value
}

// WithOptions keeps the options in declaration order.
type WithOptions []WithOption

// NormalizeKey folds an option key the same way unquoted identifiers are folded.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Get returns the value of the first option matching key.
func (o WithOptions) Get(key string) (Value, bool) {
	key = NormalizeKey(key)
	for i := range o {
		if NormalizeKey(o[i].Key) == key {
			return o[i].Value, true
		}
	}
	return nil, false
}

// Remove drops every option matching key, keeping the order of the rest.
func (o *WithOptions) Remove(key string) {
	key = NormalizeKey(key)
	kept := (*o)[:0]
	for _, opt := range *o {
		if NormalizeKey(opt.Key) != key {
			kept = append(kept, opt)
		}
	}
	*o = kept
}

// Append adds a new option at the end.
func (o *WithOptions) Append(key string, value Value) {
	*o = append(*o, WithOption{Key: key, Value: value})
}

// Map normalizes the options into a key/value map, failing on duplicated keys.
func (o WithOptions) Map() (map[string]Value, error) {
	m := make(map[string]Value, len(o))
	for _, opt := range o {
		key := NormalizeKey(opt.Key)
		if _, ok := m[key]; ok {
			return nil, fmt.Errorf("option %q specified more than once", key)
		}
		m[key] = opt.Value
	}
	return m, nil
}

// Clone returns a deep copy of the options.
func (o WithOptions) Clone() WithOptions {
	if o == nil {
		return nil
	}
	c := make(WithOptions, len(o))
	for i := range o {
		c[i] = WithOption{Key: o[i].Key, Value: cloneValue(o[i].Value)}
	}
	return c
}
