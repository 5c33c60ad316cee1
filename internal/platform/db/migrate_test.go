package db

import (
	"testing"
	"testing/fstest"
	"time"

	"github.com/ehr/formulation/migrations"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"003_items.sql":    {Data: []byte("CREATE TABLE items (id SERIAL);")},
		"001_core.sql":     {Data: []byte("CREATE TABLE core (id SERIAL);")},
		"002_sections.sql": {Data: []byte("CREATE TABLE sections (id SERIAL);")},
		"README.md":        {Data: []byte("not a migration")},
		"notes.sql":        {Data: []byte("-- no version prefix")},
		"000_zero.sql":     {Data: []byte("-- version zero is not valid")},
		"nested/004_x.sql": {Data: []byte("-- subdirectories are ignored")},
	}
}

func TestLoadMigrations(t *testing.T) {
	migs, err := NewMigrator(nil, testFS(), "").LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}
	if len(migs) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migs))
	}
	for i, want := range []string{"001_core.sql", "002_sections.sql", "003_items.sql"} {
		if migs[i].Name != want || migs[i].Version != i+1 {
			t.Errorf("migration %d: got %d %s, want %d %s", i, migs[i].Version, migs[i].Name, i+1, want)
		}
	}
	if migs[0].SQL != "CREATE TABLE core (id SERIAL);" {
		t.Errorf("unexpected SQL content: %s", migs[0].SQL)
	}
}

func TestLoadMigrations_DuplicateVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"001_a.sql":  {Data: []byte("SELECT 1;")},
		"0001_b.sql": {Data: []byte("SELECT 2;")},
	}
	if _, err := NewMigrator(nil, fsys, "").LoadMigrations(); err == nil {
		t.Error("expected error for duplicate versions")
	}
}

func TestLoadMigrations_Empty(t *testing.T) {
	migs, err := NewMigrator(nil, fstest.MapFS{}, "").LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}
	if len(migs) != 0 {
		t.Errorf("expected 0 migrations, got %d", len(migs))
	}
}

func TestLoadMigrations_Embedded(t *testing.T) {
	migs, err := NewMigrator(nil, migrations.FS, "").LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}
	if len(migs) == 0 || migs[0].Name != "001_criteria_catalog.sql" {
		t.Fatalf("expected embedded catalog migration, got %+v", migs)
	}
}

func TestParseVersion(t *testing.T) {
	tests := map[string]int{
		"001_core.sql":   1,
		"12_extra.sql":   12,
		"core.sql":       0,
		"001_core.txt":   0,
		"abc_core.sql":   0,
		"-1_minus.sql":   0,
		"001-dashed.sql": 0,
	}
	for name, want := range tests {
		got, ok := parseVersion(name)
		if ok != (want > 0) || got != want {
			t.Errorf("parseVersion(%q) = %d, %v; want %d", name, got, ok, want)
		}
	}
}

func TestPending(t *testing.T) {
	migs := []Migration{{Version: 1}, {Version: 2}, {Version: 3}, {Version: 4}}
	applied := map[int]time.Time{1: time.Now(), 3: time.Now()}

	got := pending(migs, applied, 0)
	if len(got) != 2 || got[0].Version != 2 || got[1].Version != 4 {
		t.Errorf("unexpected pending set %+v", got)
	}

	got = pending(migs, applied, 2)
	if len(got) != 1 || got[0].Version != 2 {
		t.Errorf("unexpected pending set up to 2: %+v", got)
	}
}

func TestBuildStatus(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	migs := []Migration{{Version: 1, Name: "001_core.sql"}, {Version: 2, Name: "002_sections.sql"}}
	statuses := buildStatus(migs, map[int]time.Time{1: at})

	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if !statuses[0].Applied || statuses[0].AppliedAt == nil || !statuses[0].AppliedAt.Equal(at) {
		t.Errorf("expected 001 applied at %v, got %+v", at, statuses[0])
	}
	if statuses[1].Applied || statuses[1].AppliedAt != nil {
		t.Errorf("expected 002 pending, got %+v", statuses[1])
	}
}

func TestNewMigrator_DefaultSchema(t *testing.T) {
	m := NewMigrator(nil, fstest.MapFS{}, "")
	if m.schema != DefaultSchema {
		t.Errorf("expected schema %s, got %s", DefaultSchema, m.schema)
	}
	if got := m.table(); got != `"public"."_migrations"` {
		t.Errorf("unexpected table identifier %s", got)
	}
	if got := NewMigrator(nil, fstest.MapFS{}, "clinic").table(); got != `"clinic"."_migrations"` {
		t.Errorf("unexpected table identifier %s", got)
	}
}
