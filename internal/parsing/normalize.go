// Package parsing turns the flat text extracted from a CV into a structured record.
package parsing

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reHorizontalSpace = regexp.MustCompile(`[ \t]+`)
	reBlankLines      = regexp.MustCompile(`\n{2,}`)
)

// NormalizeText canonicalizes extracted text.
// Accented Latin letters are folded to ASCII (NFKD, then combining marks dropped),
// runs of spaces and tabs become one space and runs of line breaks become one.
// The result is trimmed. NormalizeText(NormalizeText(s)) == NormalizeText(s).
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = StripDiacritics(text)
	text = reHorizontalSpace.ReplaceAllString(text, " ")
	text = reBlankLines.ReplaceAllString(text, "\n")

	return strings.TrimSpace(text)
}

// StripDiacritics decomposes text and removes combining marks, so "Educación" becomes "Educacion".
func StripDiacritics(text string) string {
	// A transformer chain carries state, so one is built per call.
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	result, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return result
}

// foldKey lowercases a line and collapses inner whitespace for table lookups
func foldKey(line string) string {
	line = strings.ToLower(strings.TrimSpace(line))
	line = strings.TrimRight(line, ": ")
	return strings.Join(strings.Fields(line), " ")
}
