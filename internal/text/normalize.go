// Package text cleans raw document text before scoring.
package text

import (
	"regexp"
	"strings"
)

// Compiled once; Normalize is on the hot path for every document.
var (
	nonASCIIPattern   = regexp.MustCompile(`[^\x00-\x7F]+`)
	emailPattern      = regexp.MustCompile(`\S+@\S+`)
	phonePattern      = regexp.MustCompile(`\b\d{10,15}\b`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Normalize strips formatting noise from raw resume or job-description text:
// line breaks become spaces, non-ASCII runs collapse to a single space,
// e-mail-shaped tokens and 10-15 digit runs (candidate phone numbers) are
// deleted, and whitespace is collapsed and trimmed. The non-ASCII drop is a
// deliberate lossy simplification, not transliteration. Output length never
// exceeds input length.
func Normalize(raw string) string {
	s := strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(raw)

	s = nonASCIIPattern.ReplaceAllString(s, " ")
	s = emailPattern.ReplaceAllString(s, "")
	s = phonePattern.ReplaceAllString(s, "")
	s = whitespacePattern.ReplaceAllString(s, " ")

	return strings.TrimSpace(s)
}
