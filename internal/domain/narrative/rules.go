package narrative

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/ehr/formulation/internal/domain/criteria"
)

// Style selects how clauses are assembled into the final text.
type Style int

const (
	// Paragraph joins the title and clauses into one line of prose.
	Paragraph Style = iota
	// Documentation emits a label line followed by blank-line separated blocks.
	Documentation
)

// Cond decides whether a clause, gate or title variant applies.
type Cond func(t *Tally) bool

func Always(t *Tally) bool { return true }

func Selected(t *Tally) bool { return t.selected > 0 }

func Rated(t *Tally) bool { return t.severity != "" }

func Has(bucket string) Cond {
	return func(t *Tally) bool { return t.Has(bucket) }
}

func Empty(bucket string) Cond {
	return func(t *Tally) bool { return !t.Has(bucket) }
}

func Below(bucket string, n int) Cond {
	return func(t *Tally) bool { return t.Count(bucket) < n }
}

func AtLeast(bucket string, n int) Cond {
	return func(t *Tally) bool { return t.Count(bucket) >= n }
}

func Mentions(bucket, substr string) Cond {
	return func(t *Tally) bool { return t.Mentions(bucket, substr) }
}

func Not(c Cond) Cond {
	return func(t *Tally) bool { return !c(t) }
}

func All(conds ...Cond) Cond {
	return func(t *Tally) bool {
		for _, c := range conds {
			if !c(t) {
				return false
			}
		}
		return true
	}
}

func Any(conds ...Cond) Cond {
	return func(t *Tally) bool {
		for _, c := range conds {
			if c(t) {
				return true
			}
		}
		return false
	}
}

// SectionRule routes selected items of one catalog section into a bucket.
type SectionRule struct {
	Prefix string
	Ref    Reference
	// Bucket overrides the target bucket; empty means Prefix.
	Bucket string
	// Uncoded, when set, receives items for which no code was extracted.
	Uncoded string
	// Verbatim keeps the authored text, parentheticals included.
	Verbatim bool
}

func (r SectionRule) bucket() string {
	if r.Bucket != "" {
		return r.Bucket
	}
	return r.Prefix
}

func (r SectionRule) place(text string) (bucket, clause string) {
	if r.Verbatim {
		return r.bucket(), strings.TrimSpace(text)
	}
	clean, code := Extract(text, r.Prefix, r.Ref)
	if code == "" {
		if r.Uncoded != "" {
			return r.Uncoded, clean
		}
		return r.bucket(), clean
	}
	return r.bucket(), clean + " " + code
}

type Tier struct {
	Min   int
	Label string
}

// Scale maps a bucket count to a label. Tiers are ordered by ascending Min and
// the highest tier reached wins.
type Scale struct {
	Bucket string
	Tiers  []Tier
}

func (s *Scale) Rate(n int) string {
	label := ""
	for _, t := range s.Tiers {
		if n >= t.Min {
			label = t.Label
		}
	}
	return label
}

// Gate adds Alert to the result and marks the diagnosis unmet when When holds.
type Gate struct {
	When  Cond
	Alert string
}

// Clause is one narrative sentence. Text is a text/template executed against
// the Tally; a nil When always renders.
type Clause struct {
	When Cond
	Text string
}

// On renders text only when bucket has selections.
func On(bucket, text string) Clause {
	return Clause{When: Has(bucket), Text: text}
}

func When(c Cond, text string) Clause {
	return Clause{When: c, Text: text}
}

type TitleVariant struct {
	When  Cond
	Title string
}

// RuleSet is the declarative description of one disorder's narrative.
type RuleSet struct {
	Key   string
	Title string
	// TitleVariants replace Title; the last matching variant wins.
	TitleVariants []TitleVariant
	Style         Style
	Sections      []SectionRule
	Severity      *Scale
	Gates         []Gate
	Clauses       []Clause
	// Warning is appended when any gate fired.
	Warning string
}

// Prefixes lists the catalog section prefixes the rule set consumes.
func (r RuleSet) Prefixes() []string {
	out := make([]string, len(r.Sections))
	for i, s := range r.Sections {
		out[i] = s.Prefix
	}
	return out
}

type compiledGate struct {
	when  Cond
	alert *template.Template
}

type compiledClause struct {
	when Cond
	text *template.Template
}

type program struct {
	set      RuleSet
	sections map[string]SectionRule
	gates    []compiledGate
	clauses  []compiledClause
	warning  *template.Template
}

func compile(set RuleSet) (*program, error) {
	if set.Key == "" {
		return nil, fmt.Errorf("rule set has no key")
	}
	if set.Title == "" {
		return nil, fmt.Errorf("rule set %s has no title", set.Key)
	}
	p := &program{set: set, sections: make(map[string]SectionRule, len(set.Sections))}
	for _, s := range set.Sections {
		if _, dup := p.sections[s.Prefix]; dup {
			return nil, fmt.Errorf("rule set %s: duplicate section %s", set.Key, s.Prefix)
		}
		p.sections[s.Prefix] = s
	}
	for i, g := range set.Gates {
		if g.When == nil {
			return nil, fmt.Errorf("rule set %s: gate %d has no condition", set.Key, i)
		}
		tmpl, err := parse(set.Key, fmt.Sprintf("gate%d", i), g.Alert)
		if err != nil {
			return nil, err
		}
		p.gates = append(p.gates, compiledGate{when: g.When, alert: tmpl})
	}
	for i, c := range set.Clauses {
		tmpl, err := parse(set.Key, fmt.Sprintf("clause%d", i), c.Text)
		if err != nil {
			return nil, err
		}
		when := c.When
		if when == nil {
			when = Always
		}
		p.clauses = append(p.clauses, compiledClause{when: when, text: tmpl})
	}
	if set.Warning != "" {
		tmpl, err := parse(set.Key, "warning", set.Warning)
		if err != nil {
			return nil, err
		}
		p.warning = tmpl
	}
	return p, nil
}

func parse(key, name, text string) (*template.Template, error) {
	tmpl, err := template.New(key + "/" + name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("rule set %s: parse %s: %w", key, name, err)
	}
	return tmpl, nil
}

func render(tmpl *template.Template, t *Tally) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, t); err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

func (p *program) title(t *Tally) string {
	title := p.set.Title
	for _, v := range p.set.TitleVariants {
		if v.When(t) {
			title = v.Title
		}
	}
	return title
}

// RuleBook is an immutable set of compiled rule sets keyed by disorder.
type RuleBook struct {
	programs map[string]*program
}

// NewRuleBook compiles every rule set. Keys must be unique.
func NewRuleBook(sets ...RuleSet) (*RuleBook, error) {
	b := &RuleBook{programs: make(map[string]*program, len(sets))}
	for _, s := range sets {
		if _, dup := b.programs[s.Key]; dup {
			return nil, fmt.Errorf("duplicate rule set %s", s.Key)
		}
		p, err := compile(s)
		if err != nil {
			return nil, err
		}
		b.programs[s.Key] = p
	}
	return b, nil
}

// WithDefaults returns a copy of the book that also covers every entry
// lacking an authored rule set.
func (b *RuleBook) WithDefaults(entries []criteria.Entry) (*RuleBook, error) {
	out := &RuleBook{programs: make(map[string]*program, len(b.programs)+len(entries))}
	for k, p := range b.programs {
		out.programs[k] = p
	}
	for _, e := range entries {
		if _, ok := out.programs[e.Key]; ok {
			continue
		}
		p, err := compile(DefaultRules(e))
		if err != nil {
			return nil, err
		}
		out.programs[e.Key] = p
	}
	return out, nil
}

func (b *RuleBook) Has(key string) bool {
	_, ok := b.programs[key]
	return ok
}

// RuleSet returns the authored rule set for key.
func (b *RuleBook) RuleSet(key string) (RuleSet, bool) {
	p, ok := b.programs[key]
	if !ok {
		return RuleSet{}, false
	}
	return p.set, true
}

func (b *RuleBook) Keys() []string {
	keys := make([]string, 0, len(b.programs))
	for k := range b.programs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DefaultRules derives a generic paragraph rule set from a catalog entry: one
// clause per section in authored order, with reference shapes inferred from
// the items.
func DefaultRules(e criteria.Entry) RuleSet {
	name := e.Name
	if name == "" {
		name = e.Key
	}
	set := RuleSet{
		Key:   e.Key,
		Title: "**Diagnostic Summary: " + name + "**",
		Style: Paragraph,
	}
	for _, s := range e.Sections {
		set.Sections = append(set.Sections, SectionRule{
			Prefix: s.Prefix,
			Ref:    Reference{Shape: InferShape(s.Items)},
		})
		label := strings.TrimSpace(s.Title)
		if label == "" {
			label = s.Prefix
		}
		set.Clauses = append(set.Clauses, On(s.Prefix,
			fmt.Sprintf(`{{%q}}: {{.List %q}}.`, label, s.Prefix)))
	}
	return set
}
