package criteria

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// CatalogRepoPG stores catalog entries in the criteria_disorder,
// criteria_section and criteria_item tables.
type CatalogRepoPG struct{ pool *pgxpool.Pool }

func NewCatalogRepoPG(pool *pgxpool.Pool) *CatalogRepoPG {
	return &CatalogRepoPG{pool: pool}
}

func (r *CatalogRepoPG) Name() string { return "postgres" }

func (r *CatalogRepoPG) Load(ctx context.Context) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT d.key, d.name, s.prefix, s.title, i.text
		FROM criteria_disorder d
		JOIN criteria_section s ON s.disorder_key = d.key
		LEFT JOIN criteria_item i ON i.disorder_key = s.disorder_key AND i.section_prefix = s.prefix
		ORDER BY d.key, s.position, i.position`)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var key, name, prefix, title string
		var text *string
		if err := rows.Scan(&key, &name, &prefix, &title, &text); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		entries = appendRow(entries, key, name, prefix, title, text)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog rows: %w", err)
	}
	return entries, nil
}

// appendRow folds one joined row into entries. Rows must arrive grouped by
// disorder and section.
func appendRow(entries []Entry, key, name, prefix, title string, text *string) []Entry {
	if n := len(entries); n == 0 || entries[n-1].Key != key {
		entries = append(entries, Entry{Key: key, Name: name})
	}
	e := &entries[len(entries)-1]
	if n := len(e.Sections); n == 0 || e.Sections[n-1].Prefix != prefix {
		e.Sections = append(e.Sections, Section{Title: title, Prefix: prefix})
	}
	if text != nil {
		s := &e.Sections[len(e.Sections)-1]
		s.Items = append(s.Items, *text)
	}
	return entries
}

// Seed writes entries in a single transaction, replacing any existing rows for
// the same keys.
func (r *CatalogRepoPG) Seed(ctx context.Context, entries []Entry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		if err := Validate(e); err != nil {
			return err
		}
		if err := seedEntry(ctx, tx, e); err != nil {
			return fmt.Errorf("seed %s: %w", e.Key, err)
		}
	}
	return tx.Commit(ctx)
}

func seedEntry(ctx context.Context, q queryable, e Entry) error {
	if _, err := q.Exec(ctx, `DELETE FROM criteria_disorder WHERE key = $1`, e.Key); err != nil {
		return err
	}
	if _, err := q.Exec(ctx, `INSERT INTO criteria_disorder (key, name) VALUES ($1, $2)`, e.Key, e.Name); err != nil {
		return err
	}
	for si, s := range e.Sections {
		if _, err := q.Exec(ctx, `
			INSERT INTO criteria_section (disorder_key, prefix, title, position)
			VALUES ($1, $2, $3, $4)`, e.Key, s.Prefix, s.Title, si); err != nil {
			return err
		}
		for ii, text := range s.Items {
			if _, err := q.Exec(ctx, `
				INSERT INTO criteria_item (disorder_key, section_prefix, text, position)
				VALUES ($1, $2, $3, $4)`, e.Key, s.Prefix, text, ii); err != nil {
				return err
			}
		}
	}
	return nil
}
