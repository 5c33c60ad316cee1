package narrative

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// FormatList joins clause fragments in clinical prose style: "a", "a and b",
// "a, b, and c". Each fragment is trimmed; only the first may be capitalized.
func FormatList(items []string, capitalizeFirst bool) string {
	if len(items) == 0 {
		return ""
	}
	parts := make([]string, len(items))
	for i, s := range items {
		parts[i] = strings.TrimSpace(s)
	}
	if capitalizeFirst {
		parts[0] = upperFirst(parts[0])
	}
	switch len(parts) {
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	}
	last := len(parts) - 1
	return strings.Join(parts[:last], ", ") + ", and " + parts[last]
}

// JoinClinical is FormatList with the leading fragment capitalized.
func JoinClinical(items []string) string {
	return FormatList(items, true)
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
