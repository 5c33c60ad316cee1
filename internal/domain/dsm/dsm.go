// Package dsm holds the built-in DSM-5-TR criteria catalog and the narrative
// rule set for each disorder in it.
package dsm

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"

	"github.com/ehr/formulation/internal/domain/criteria"
	"github.com/ehr/formulation/internal/domain/narrative"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Entries decodes the embedded catalog.
func Entries() ([]criteria.Entry, error) {
	entries, err := criteria.DecodeYAML(bytes.NewReader(catalogYAML))
	if err != nil {
		return nil, fmt.Errorf("builtin catalog: %w", err)
	}
	return entries, nil
}

type builtinSource struct{}

// Source exposes the embedded catalog as the base layer of a catalog build.
func Source() criteria.Source { return builtinSource{} }

func (builtinSource) Name() string { return "builtin" }

func (builtinSource) Load(ctx context.Context) ([]criteria.Entry, error) {
	return Entries()
}

// Rules returns the authored rule sets in key order.
func Rules() []narrative.RuleSet {
	var sets []narrative.RuleSet
	for _, group := range [][]narrative.RuleSet{
		neurodevelopmental(),
		substance(),
		mood(),
		anxiety(),
		trauma(),
		psychotic(),
		personality(),
		neurocognitive(),
		other(),
	} {
		sets = append(sets, group...)
	}
	return sets
}

func RuleBook() (*narrative.RuleBook, error) {
	return narrative.NewRuleBook(Rules()...)
}

func summary(name string) string {
	return "**Diagnostic Summary: " + name + "**"
}
