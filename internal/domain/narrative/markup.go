package narrative

import "strings"

// StripMarkup removes the double-asterisk emphasis markers from generated text.
func StripMarkup(text string) string {
	return strings.ReplaceAll(text, "**", "")
}
