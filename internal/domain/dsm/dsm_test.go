package dsm_test

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ehr/formulation/internal/domain/criteria"
	"github.com/ehr/formulation/internal/domain/dsm"
	"github.com/ehr/formulation/internal/domain/narrative"
)

func loadEntries(t *testing.T) []criteria.Entry {
	t.Helper()
	entries, err := dsm.Entries()
	if err != nil {
		t.Fatalf("decode builtin catalog: %v", err)
	}
	return entries
}

func newGenerator(t *testing.T) *narrative.Generator {
	t.Helper()
	book, err := dsm.RuleBook()
	if err != nil {
		t.Fatalf("build rule book: %v", err)
	}
	return narrative.NewGenerator(book)
}

func TestEntries(t *testing.T) {
	entries := loadEntries(t)
	if len(entries) != 31 {
		t.Errorf("expected 31 builtin disorders, got %d", len(entries))
	}
	seen := map[string]bool{}
	for _, e := range entries {
		if err := criteria.Validate(e); err != nil {
			t.Errorf("invalid entry: %v", err)
		}
		if seen[e.Key] {
			t.Errorf("duplicate key %s", e.Key)
		}
		seen[e.Key] = true
		if e.Name == "" {
			t.Errorf("%s has no name", e.Key)
		}
	}
}

func TestRuleBookCoversCatalog(t *testing.T) {
	book, err := dsm.RuleBook()
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range loadEntries(t) {
		set, ok := book.RuleSet(e.Key)
		if !ok {
			t.Errorf("no rule set for %s", e.Key)
			continue
		}
		want := e.Summary().Prefixes
		got := set.Prefixes()
		sort.Strings(want)
		sort.Strings(got)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s prefixes mismatch (-catalog +rules):\n%s", e.Key, diff)
		}
	}
	if got := len(book.Keys()); got != len(dsm.Rules()) {
		t.Errorf("expected %d rule sets, got %d", len(dsm.Rules()), got)
	}
}

func TestEmptySelectionYieldsTitle(t *testing.T) {
	g := newGenerator(t)
	for _, e := range loadEntries(t) {
		t.Run(e.Key, func(t *testing.T) {
			set, _ := g.Rules().RuleSet(e.Key)
			res, err := g.Generate(&e, nil)
			if err != nil {
				t.Fatal(err)
			}
			if res.Text != set.Title {
				t.Errorf("expected title %q, got %q", set.Title, res.Text)
			}
		})
	}
}

func TestExtractionStripsParentheticals(t *testing.T) {
	book, err := dsm.RuleBook()
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range loadEntries(t) {
		set, _ := book.RuleSet(e.Key)
		for _, rule := range set.Sections {
			if rule.Verbatim {
				continue
			}
			s, _ := e.Section(rule.Prefix)
			for _, text := range s.Items {
				clean, code := narrative.Extract(text, rule.Prefix, rule.Ref)
				if strings.ContainsAny(clean, "()") {
					t.Errorf("%s/%s: parenthetical left in %q", e.Key, rule.Prefix, clean)
				}
				if clean == "" {
					t.Errorf("%s/%s: empty display text for %q", e.Key, rule.Prefix, text)
				}
				if code != "" && (!strings.HasPrefix(code, "(") || !strings.HasSuffix(code, ")")) {
					t.Errorf("%s/%s: malformed code %q", e.Key, rule.Prefix, code)
				}
				if rule.Ref.Shape == narrative.ShapeNone && code != "" {
					t.Errorf("%s/%s: unexpected code %q", e.Key, rule.Prefix, code)
				}
			}
		}
	}
}

func reversedSections(e criteria.Entry) criteria.Selection {
	var sel criteria.Selection
	for i := len(e.Sections) - 1; i >= 0; i-- {
		s := e.Sections[i]
		for _, text := range s.Items {
			sel = append(sel, criteria.Item{Text: text, Section: s.Prefix})
		}
	}
	return sel
}

func TestFullSelection(t *testing.T) {
	g := newGenerator(t)
	for _, e := range loadEntries(t) {
		t.Run(e.Key, func(t *testing.T) {
			first, err := g.Generate(&e, e.Items())
			if err != nil {
				t.Fatal(err)
			}
			if first.Dropped != 0 {
				t.Errorf("expected no dropped items, got %d", first.Dropped)
			}
			if strings.Contains(first.Text, "  ") {
				t.Errorf("double space in %q", first.Text)
			}
			if strings.Contains(first.Text, "<no value>") {
				t.Errorf("unrendered template value in %q", first.Text)
			}

			again, err := g.Generate(&e, reversedSections(e))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(first, again); diff != "" {
				t.Errorf("section order changed the result (-authored +reversed):\n%s", diff)
			}
		})
	}
}

func TestSource(t *testing.T) {
	src := dsm.Source()
	if src.Name() != "builtin" {
		t.Errorf("unexpected source name %q", src.Name())
	}
	entries, err := src.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != len(loadEntries(t)) {
		t.Errorf("source and Entries disagree: %d vs %d", len(entries), len(loadEntries(t)))
	}
}
