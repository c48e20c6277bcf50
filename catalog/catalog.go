// Package catalog exposes the read-only view of the catalog needed during purification.
package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rudderlabs/rudder-purifier/connections"
)

var ErrUnknownItem = errors.New("unknown catalog item")

// Item is a named catalog object holding a connection.
type Item struct {
	Name       string
	Connection connections.Connection
}

// SessionCatalog resolves names against a catalog snapshot.
type SessionCatalog interface {
	Lookup(name string) (*Item, error)
}

// Snapshot is an immutable SessionCatalog.
type Snapshot struct {
	items map[string]*Item
}

// NewSnapshot returns a snapshot holding items. Nil items and duplicate names are rejected.
func NewSnapshot(items ...*Item) (*Snapshot, error) {
	s := &Snapshot{items: make(map[string]*Item, len(items))}
	for i, item := range items {
		if item == nil {
			return nil, fmt.Errorf("catalog item %d is nil", i)
		}
		if _, ok := s.items[item.Name]; ok {
			return nil, fmt.Errorf("catalog item %q already exists", item.Name)
		}
		s.items[item.Name] = item
	}
	return s, nil
}

func (s *Snapshot) Lookup(name string) (*Item, error) {
	item, ok := s.items[name]
	if !ok {
		return nil, fmt.Errorf("looking up %q: %w", name, ErrUnknownItem)
	}
	return item, nil
}

// Items returns the items of the snapshot sorted by name.
func (s *Snapshot) Items() []*Item {
	items := make([]*Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}
