package criteria

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Catalog is the read-only registry of disorder definitions. It is built once
// at startup and shared by every request.
type Catalog struct {
	entries map[string]Entry
	keys    []string
}

func (c *Catalog) Get(key string) (*Entry, error) {
	e, ok := c.entries[key]
	if !ok {
		return nil, &UnknownDisorderError{Key: key}
	}
	out := e.clone()
	return &out, nil
}

func (c *Catalog) Has(key string) bool {
	_, ok := c.entries[key]
	return ok
}

func (c *Catalog) Sections(key string) ([]Section, error) {
	e, err := c.Get(key)
	if err != nil {
		return nil, err
	}
	return e.Sections, nil
}

// Keys returns every registered key in sorted order.
func (c *Catalog) Keys() []string {
	return append([]string(nil), c.keys...)
}

func (c *Catalog) Entries() []Entry {
	out := make([]Entry, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, c.entries[k].clone())
	}
	return out
}

func (c *Catalog) Summaries() []Summary {
	out := make([]Summary, 0, len(c.keys))
	for _, k := range c.keys {
		e := c.entries[k]
		out = append(out, e.Summary())
	}
	return out
}

func (c *Catalog) Len() int { return len(c.keys) }

// Builder accumulates entries before the catalog is frozen. Registering a key
// that already exists replaces its definition wholesale.
type Builder struct {
	entries map[string]Entry
}

func NewBuilder() *Builder {
	return &Builder{entries: make(map[string]Entry)}
}

func (b *Builder) Register(e Entry) error {
	if err := Validate(e); err != nil {
		return err
	}
	b.entries[e.Key] = e.clone()
	return nil
}

// Load registers every entry produced by src and returns how many were read.
func (b *Builder) Load(ctx context.Context, src Source) (int, error) {
	entries, err := src.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load %s catalog: %w", src.Name(), err)
	}
	for _, e := range entries {
		if err := b.Register(e); err != nil {
			return 0, fmt.Errorf("load %s catalog: %w", src.Name(), err)
		}
	}
	return len(entries), nil
}

func (b *Builder) Build() *Catalog {
	c := &Catalog{entries: make(map[string]Entry, len(b.entries))}
	for k, e := range b.entries {
		c.entries[k] = e.clone()
		c.keys = append(c.keys, k)
	}
	sort.Strings(c.keys)
	return c
}

// Validate checks that an entry has a key and uniquely named, non-empty section prefixes.
func Validate(e Entry) error {
	if strings.TrimSpace(e.Key) == "" {
		return invalidEntry(e.Key, "key is required")
	}
	seen := make(map[string]bool, len(e.Sections))
	for i, s := range e.Sections {
		if s.Prefix == "" {
			return invalidEntry(e.Key, "section %d has no prefix", i)
		}
		if seen[s.Prefix] {
			return invalidEntry(e.Key, "duplicate section prefix %s", s.Prefix)
		}
		seen[s.Prefix] = true
	}
	return nil
}
