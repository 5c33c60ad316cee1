package narrative

import "strings"

// Tally is the per-call bucket map plus the values derived from it. Clause,
// gate and warning templates execute against it.
type Tally struct {
	buckets  map[string][]string
	selected int
	dropped  int
	severity string
	alerts   []string
}

func newTally() *Tally {
	return &Tally{buckets: make(map[string][]string)}
}

func (t *Tally) add(bucket, clause string) {
	t.buckets[bucket] = append(t.buckets[bucket], clause)
	t.selected++
}

// List formats a bucket with its first fragment capitalized.
func (t *Tally) List(bucket string) string {
	return FormatList(t.buckets[bucket], true)
}

// Series formats a bucket without capitalization.
func (t *Tally) Series(bucket string) string {
	return FormatList(t.buckets[bucket], false)
}

func (t *Tally) Count(bucket string) int {
	return len(t.buckets[bucket])
}

func (t *Tally) Has(bucket string) bool {
	return len(t.buckets[bucket]) > 0
}

// Missing reports how many of want items are absent from a bucket.
func (t *Tally) Missing(bucket string, want int) int {
	if n := want - t.Count(bucket); n > 0 {
		return n
	}
	return 0
}

// Mentions reports whether any clause in the bucket contains substr, ignoring case.
func (t *Tally) Mentions(bucket, substr string) bool {
	needle := strings.ToLower(substr)
	for _, c := range t.buckets[bucket] {
		if strings.Contains(strings.ToLower(c), needle) {
			return true
		}
	}
	return false
}

func (t *Tally) Selected() int { return t.selected }

func (t *Tally) Severity() string { return t.severity }

// Alerts joins the fired gate alerts with semicolons.
func (t *Tally) Alerts() string {
	return strings.Join(t.alerts, "; ")
}
