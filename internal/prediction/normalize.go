package prediction

import (
	"regexp"
	"strings"
)

var (
	fencePattern      = regexp.MustCompile("```json|```")
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Normalize strips Markdown code fences from a model reply, collapses every
// whitespace run to a single space and trims the ends. Whitespace inside JSON
// strings is collapsed too.
func Normalize(raw string) string {
	s := fencePattern.ReplaceAllString(raw, "")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
