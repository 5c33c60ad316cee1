package narrative

import (
	"strings"

	"github.com/ehr/formulation/internal/domain/criteria"
)

// Result is the outcome of one generation call.
type Result struct {
	Disorder string   `json:"disorder"`
	Text     string   `json:"text"`
	Met      bool     `json:"met"`
	Alerts   []string `json:"alerts"`
	Severity string   `json:"severity,omitempty"`
	Dropped  int      `json:"dropped"`
}

// Generator turns selections into narrative text using a RuleBook. It holds no
// mutable state and is safe for concurrent use.
type Generator struct {
	rules *RuleBook
}

func NewGenerator(rules *RuleBook) *Generator {
	return &Generator{rules: rules}
}

func (g *Generator) Rules() *RuleBook { return g.rules }

// Generate renders the narrative for entry. Entries without an authored rule
// set fall back to DefaultRules.
func (g *Generator) Generate(entry *criteria.Entry, sel criteria.Selection) (*Result, error) {
	p, ok := g.rules.programs[entry.Key]
	if !ok {
		var err error
		if p, err = compile(DefaultRules(*entry)); err != nil {
			return nil, err
		}
	}
	return p.run(sel)
}

func (p *program) run(sel criteria.Selection) (*Result, error) {
	t := newTally()
	for _, item := range sel {
		rule, ok := p.sections[item.Section]
		if !ok {
			t.dropped++
			continue
		}
		t.add(rule.place(item.Text))
	}

	if s := p.set.Severity; s != nil {
		t.severity = s.Rate(t.Count(s.Bucket))
	}
	for _, gate := range p.gates {
		if !gate.when(t) {
			continue
		}
		alert, err := render(gate.alert, t)
		if err != nil {
			return nil, err
		}
		t.alerts = append(t.alerts, strings.TrimSpace(alert))
	}

	res := &Result{
		Disorder: p.set.Key,
		Met:      len(t.alerts) == 0,
		Alerts:   append([]string{}, t.alerts...),
		Severity: t.severity,
		Dropped:  t.dropped,
	}

	title := p.title(t)
	if t.selected == 0 {
		res.Text = title
		return res, nil
	}

	var clauses []string
	for _, c := range p.clauses {
		if !c.when(t) {
			continue
		}
		s, err := render(c.text, t)
		if err != nil {
			return nil, err
		}
		if s = strings.TrimSpace(s); s != "" {
			clauses = append(clauses, s)
		}
	}

	var warning string
	if !res.Met && p.warning != nil {
		w, err := render(p.warning, t)
		if err != nil {
			return nil, err
		}
		warning = strings.TrimSpace(w)
	}

	switch p.set.Style {
	case Documentation:
		res.Text = documentation(title, clauses, warning)
	default:
		res.Text = paragraph(title, clauses, warning)
	}
	return res, nil
}

func paragraph(title string, clauses []string, warning string) string {
	parts := append([]string{title}, clauses...)
	text := collapse(strings.Join(parts, " "))
	if warning != "" {
		text += "\n" + collapse(warning)
	}
	return text
}

func documentation(label string, blocks []string, warning string) string {
	if warning != "" {
		blocks = append(blocks, warning)
	}
	if len(blocks) == 0 {
		return label
	}
	text := label + "\n\n" + strings.Join(blocks, "\n\n")
	if !strings.HasSuffix(text, ".") {
		text += "."
	}
	return text
}

func collapse(s string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}
