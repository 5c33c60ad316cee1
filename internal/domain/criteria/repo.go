package criteria

import "context"

// Source supplies catalog entries. Sources are layered in order, later ones
// replacing earlier keys.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]Entry, error)
}

type staticSource struct {
	name    string
	entries []Entry
}

// NewStaticSource wraps entries that are already in memory.
func NewStaticSource(name string, entries []Entry) Source {
	return &staticSource{name: name, entries: entries}
}

func (s *staticSource) Name() string { return s.name }

func (s *staticSource) Load(ctx context.Context) ([]Entry, error) {
	return s.entries, nil
}
