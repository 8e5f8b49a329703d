package parsing

import (
	"regexp"
	"strconv"
)

// URL placeholders are wrapped in private-use runes: they contain no whitespace or
// punctuation, survive NFKD and every structural regex, and do not occur in extracted text.
// Input that already contains such a token is not guaranteed to round-trip.
const (
	urlTokenOpen  = "\uE000"
	urlTokenClose = "\uE001"
)

var (
	reGuardedURL = regexp.MustCompile(`(?i)https?://\S+|www\.\S+|linkedin\.com/\S+|github\.com/\S+`)
	reURLToken   = regexp.MustCompile(urlTokenOpen + `(\d+)` + urlTokenClose)
)

// URLRegistry holds the URLs replaced by ProtectURLs; a token's index is its position.
type URLRegistry []string

// ProtectURLs replaces every URL with a sequential placeholder token so that
// line-breaking heuristics cannot split it.
func ProtectURLs(text string) (string, URLRegistry) {
	var registry URLRegistry
	protected := reGuardedURL.ReplaceAllStringFunc(text, func(url string) string {
		token := urlTokenOpen + strconv.Itoa(len(registry)) + urlTokenClose
		registry = append(registry, url)
		return token
	})
	return protected, registry
}

// RestoreURLs puts the original URLs back in place of their tokens.
// Tokens with no registry entry are left as they are.
func RestoreURLs(text string, registry URLRegistry) string {
	if len(registry) == 0 {
		return text
	}
	return reURLToken.ReplaceAllStringFunc(text, func(token string) string {
		idx, err := strconv.Atoi(token[len(urlTokenOpen) : len(token)-len(urlTokenClose)])
		if err != nil || idx < 0 || idx >= len(registry) {
			return token
		}
		return registry[idx]
	})
}
