package narrative

import (
	"regexp"
	"strings"
)

// Shape names how a section's embedded parenthetical is turned into a
// reference suffix.
type Shape int

const (
	// ShapeNone appends nothing.
	ShapeNone Shape = iota
	// ShapeNumbered turns "(3)" into "(A3)".
	ShapeNumbered
	// ShapeLettered turns "(c)" into "(A1c)".
	ShapeLettered
	// ShapeLetter echoes a bare uppercase criterion such as "(C)".
	ShapeLetter
	// ShapeFixed always yields "(Label)".
	ShapeFixed
	// ShapeAsFound echoes the first parenthetical verbatim.
	ShapeAsFound
)

var shapeNames = map[Shape]string{
	ShapeNone:     "none",
	ShapeNumbered: "numbered",
	ShapeLettered: "lettered",
	ShapeLetter:   "letter",
	ShapeFixed:    "fixed",
	ShapeAsFound:  "as-found",
}

func (s Shape) String() string {
	if n, ok := shapeNames[s]; ok {
		return n
	}
	return "unknown"
}

// Reference configures extraction for one section. An empty Label means the
// section prefix.
type Reference struct {
	Shape Shape
	Label string
}

var NoRef = Reference{}

func Numbered() Reference { return Reference{Shape: ShapeNumbered} }
func NumberedAs(label string) Reference { return Reference{Shape: ShapeNumbered, Label: label} }
func Lettered() Reference { return Reference{Shape: ShapeLettered} }
func Letter() Reference { return Reference{Shape: ShapeLetter} }
func Fixed(label string) Reference { return Reference{Shape: ShapeFixed, Label: label} }
func AsFound() Reference { return Reference{Shape: ShapeAsFound} }

var (
	groupPattern  = regexp.MustCompile(`\(([^()]*)\)`)
	digitsPattern = regexp.MustCompile(`^\d+$`)
	lowerPattern  = regexp.MustCompile(`^[a-z]$`)
	upperPattern  = regexp.MustCompile(`^[A-Z]$`)
	spacePattern  = regexp.MustCompile(`\s+`)
	punctPattern  = regexp.MustCompile(`\s+([,.;:])`)
)

// Clean removes every parenthetical group and normalizes the spacing left behind.
func Clean(text string) string {
	out := groupPattern.ReplaceAllString(text, " ")
	out = spacePattern.ReplaceAllString(out, " ")
	out = punctPattern.ReplaceAllString(out, "$1")
	return strings.TrimSpace(out)
}

// Extract returns the display text of an item with parentheticals removed and
// the canonical reference code for the section. Text without a matching
// parenthetical yields an empty code, except for ShapeFixed which always
// labels the item.
func Extract(text, prefix string, ref Reference) (clean, code string) {
	clean = Clean(text)
	label := ref.Label
	if label == "" {
		label = prefix
	}

	groups := groupPattern.FindAllStringSubmatch(text, -1)
	switch ref.Shape {
	case ShapeNone:
		return clean, ""
	case ShapeFixed:
		return clean, "(" + label + ")"
	case ShapeAsFound:
		if len(groups) == 0 {
			return clean, ""
		}
		return clean, groups[0][0]
	case ShapeNumbered:
		if g := firstGroup(groups, digitsPattern); g != "" {
			return clean, "(" + label + g + ")"
		}
	case ShapeLettered:
		if g := firstGroup(groups, lowerPattern); g != "" {
			return clean, "(" + label + g + ")"
		}
	}
	// numbered and lettered sections still carry global letters such as "(B)"
	if g := firstGroup(groups, upperPattern); g != "" {
		return clean, "(" + g + ")"
	}
	return clean, ""
}

func firstGroup(groups [][]string, pattern *regexp.Regexp) string {
	for _, g := range groups {
		if pattern.MatchString(g[1]) {
			return g[1]
		}
	}
	return ""
}

// InferShape picks the shape that best describes a section's authored items.
func InferShape(items []string) Shape {
	counts := map[Shape]int{}
	for _, text := range items {
		groups := groupPattern.FindAllStringSubmatch(text, -1)
		switch {
		case firstGroup(groups, digitsPattern) != "":
			counts[ShapeNumbered]++
		case firstGroup(groups, lowerPattern) != "":
			counts[ShapeLettered]++
		case firstGroup(groups, upperPattern) != "":
			counts[ShapeLetter]++
		}
	}
	best, n := ShapeNone, 0
	for _, s := range []Shape{ShapeNumbered, ShapeLettered, ShapeLetter} {
		if counts[s] > n {
			best, n = s, counts[s]
		}
	}
	return best
}
