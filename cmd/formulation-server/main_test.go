package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehr/formulation/internal/config"
	"github.com/ehr/formulation/internal/domain/criteria"
	"github.com/ehr/formulation/internal/domain/narrative"
	"github.com/ehr/formulation/internal/platform/db"
	"github.com/ehr/formulation/internal/platform/telemetry"
)

const extraCatalog = `disorders:
  - key: EXTRA
    name: "Extra Disorder"
    sections:
      - title: "Features"
        prefix: F
        items:
          - "feature one (1)"
`

// run executes the root command against the built-in catalog only.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CATALOG_FILE", "")
	t.Setenv("CATALOG_FROM_DB", "")
	t.Setenv("LOG_LEVEL", "error")

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testConfig() *config.Config {
	return &config.Config{
		Env:              "development",
		LogLevel:         "error",
		BodyLimit:        "1M",
		CORSOrigins:      []string{"http://localhost:3000"},
		BatchConcurrency: 4,
	}
}

func gadEntry() *criteria.Entry {
	return &criteria.Entry{
		Key:  "GAD",
		Name: "Generalized Anxiety Disorder",
		Sections: []criteria.Section{
			{Title: "Core", Prefix: "AB", Items: []string{"excessive anxiety (A)", "difficulty controlling worry (B)"}},
			{Title: "Somatic", Prefix: "C", Items: []string{"restlessness (1)"}},
		},
	}
}

func TestParseItems(t *testing.T) {
	sel, err := parseItems(gadEntry(), []string{"AB=#2", "C = restlessness (1)", "ZZ=stray text"})
	require.NoError(t, err)
	assert.Equal(t, criteria.Selection{
		{Text: "difficulty controlling worry (B)", Section: "AB"},
		{Text: "restlessness (1)", Section: "C"},
		{Text: "stray text", Section: "ZZ"},
	}, sel)
}

func TestParseItems_Errors(t *testing.T) {
	tests := map[string]string{
		"no separator":   "AB",
		"empty prefix":   "=text",
		"empty text":     "AB=",
		"bad number":     "AB=#two",
		"unknown prefix": "ZZ=#1",
		"out of range":   "C=#2",
		"zero":           "C=#0",
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseItems(gadEntry(), []string{raw})
			assert.Error(t, err)
		})
	}
}

func TestReadSelectionFile(t *testing.T) {
	path := writeTemp(t, "sel.yaml", "disorder: GAD\nselection:\n  - text: \"irritability (4)\"\n    section: C\n")
	doc, err := readSelectionFile(path)
	require.NoError(t, err)
	assert.Equal(t, "GAD", doc.Disorder)
	assert.Equal(t, criteria.Selection{{Text: "irritability (4)", Section: "C"}}, doc.Selection)
}

func TestReadSelectionFile_UnknownField(t *testing.T) {
	path := writeTemp(t, "sel.yaml", "disorder: GAD\nitems: []\n")
	_, err := readSelectionFile(path)
	assert.Error(t, err)
}

func TestWriteResult(t *testing.T) {
	res := &narrative.Result{Disorder: "GAD", Text: "**Diagnostic Summary: GAD** Text.", Met: true}

	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, res, formatText))
	assert.Equal(t, "**Diagnostic Summary: GAD** Text.\n", buf.String())

	buf.Reset()
	require.NoError(t, writeResult(&buf, res, formatPlain))
	assert.Equal(t, "Diagnostic Summary: GAD Text.\n", buf.String())

	buf.Reset()
	require.NoError(t, writeResult(&buf, res, formatJSON))
	var decoded narrative.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "GAD", decoded.Disorder)
	assert.True(t, decoded.Met)

	assert.Error(t, writeResult(&buf, res, "html"))
}

func TestGenerateCommand_EmptySelection(t *testing.T) {
	out, _, err := run(t, "generate", "--disorder", "GAD", "--format", "plain")
	require.NoError(t, err)
	assert.Equal(t, "Diagnostic Summary: Generalized Anxiety Disorder\n", out)
}

func TestGenerateCommand_NumberedItems(t *testing.T) {
	out, _, err := run(t, "generate", "--disorder", "AUD",
		"--item", "A=#1", "--item", "A=#2", "--item", "A=#3", "--item", "A=#4")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "**Diagnostic Summary: Alcohol Use Disorder** "))
	assert.Contains(t, out, "a Moderate Alcohol Use Disorder")
	assert.True(t, strings.HasSuffix(out, "(A4).\n"), out)
}

func TestGenerateCommand_FromFile(t *testing.T) {
	path := writeTemp(t, "sel.yaml", "disorder: GAD\nselection:\n  - text: \"zzz\"\n    section: NOPE\n")
	out, errOut, err := run(t, "generate", "--file", path, "--format", "json")
	require.NoError(t, err)

	var res narrative.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "GAD", res.Disorder)
	assert.Equal(t, 1, res.Dropped)
	assert.Contains(t, errOut, "1 item(s) with unrecognized sections")
}

func TestGenerateCommand_Errors(t *testing.T) {
	_, _, err := run(t, "generate")
	assert.EqualError(t, err, "--disorder is required")

	_, _, err = run(t, "generate", "--disorder", "NOT_A_DISORDER")
	assert.ErrorIs(t, err, criteria.ErrUnknownDisorder)
}

func TestDisordersCommand(t *testing.T) {
	out, _, err := run(t, "disorders")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "KEY"))
	assert.Contains(t, out, "Generalized Anxiety Disorder")
	assert.Contains(t, out, "AB,C,DEF")
}

func TestSectionsCommand(t *testing.T) {
	out, _, err := run(t, "sections", "GAD")
	require.NoError(t, err)
	assert.Contains(t, out, "[C] C. Associated Somatic/Cognitive Symptoms\n")
	assert.Contains(t, out, "  #4 irritability (4)\n")

	_, _, err = run(t, "sections", "NOPE")
	assert.ErrorIs(t, err, criteria.ErrUnknownDisorder)
}

func TestCatalogExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	_, errOut, err := run(t, "catalog", "export", "--out", path)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	entries, err := criteria.DecodeYAML(f)
	require.NoError(t, err)
	assert.Len(t, entries, 31)
	assert.Contains(t, errOut, "Exported 31 disorder(s)")
}

func TestCatalogSeed_RequiresDatabase(t *testing.T) {
	_, _, err := run(t, "catalog", "seed")
	assert.EqualError(t, err, "DATABASE_URL is required")
}

func TestLoadCatalog_Overlay(t *testing.T) {
	cfg := testConfig()
	cfg.CatalogFile = writeTemp(t, "extra.yaml", extraCatalog)

	catalog, err := loadCatalog(context.Background(), cfg, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 32, catalog.Len())
	assert.True(t, catalog.Has("EXTRA"))
	assert.True(t, catalog.Has("GAD"))
}

func TestLoadCatalog_FromDBWithoutPool(t *testing.T) {
	cfg := testConfig()
	cfg.CatalogFromDB = true
	_, err := loadCatalog(context.Background(), cfg, nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	mw, err := authMiddleware(cfg)
	require.NoError(t, err)
	assert.NotNil(t, mw)

	cfg.AuthMode = config.AuthModeJWT
	cfg.AuthSigningKey = "not-hex"
	_, err = authMiddleware(cfg)
	assert.Error(t, err)

	cfg.AuthSigningKey = strings.Repeat("ab", 32)
	_, err = authMiddleware(cfg)
	assert.NoError(t, err)
}

func TestNewServer(t *testing.T) {
	cfg := testConfig()
	svc, err := newService(context.Background(), cfg, nil, zerolog.Nop())
	require.NoError(t, err)
	tel, _, err := telemetry.Setup(context.Background(), telemetry.Config{})
	require.NoError(t, err)
	e, err := newServer(cfg, svc, nil, tel, zerolog.Nop())
	require.NoError(t, err)

	serve := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := serve(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = serve(http.MethodGet, "/health/db", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_configured")

	rec = serve(http.MethodGet, "/api/v1/disorders?limit=5", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(http.MethodGet, "/api/v1/openapi.json", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"operationId":"generateFormulation"`)

	rec = serve(http.MethodPost, "/api/v1/disorders/GAD/formulation", `{"selection":[],"markup":"strip"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var res narrative.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "Diagnostic Summary: Generalized Anxiety Disorder", res.Text)

	rec = serve(http.MethodPost, "/api/v1/disorders/NOPE/formulation", `{"selection":[]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMigrationsFS(t *testing.T) {
	m := db.NewMigrator(nil, migrationsFS(""), db.DefaultSchema)
	migs, err := m.LoadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	assert.Equal(t, "001_criteria_catalog.sql", migs[0].Name)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "007_extra.sql"), []byte("SELECT 1;"), 0o600))
	m = db.NewMigrator(nil, migrationsFS(dir), db.DefaultSchema)
	migs, err = m.LoadMigrations()
	require.NoError(t, err)
	require.Len(t, migs, 1)
	assert.Equal(t, 7, migs[0].Version)
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	printStatus(&buf, "public", []db.MigrationStatus{
		{Version: 1, Name: "001_criteria_catalog.sql"},
	})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Migration status for schema: public", lines[0])
	assert.Contains(t, lines[3], "pending")
}
