package generator

import (
	"strings"
	"unicode"

	"github.com/jonathan/cv-templater/internal/types"
)

const (
	outputPrefix  = "CV_FINAL_"
	fallbackName  = "cv"
	maxNameLength = 60
)

// SanitizeName turns a candidate name into a file-name fragment made of [A-Za-z0-9_-].
// Whitespace runs become a single underscore; the sentinel and empty results yield "cv".
func SanitizeName(name string) string {
	if name == types.NameNotDetected {
		return fallbackName
	}

	var sb strings.Builder
	pendingSep := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsSpace(r):
			pendingSep = true
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'):
			if pendingSep && sb.Len() > 0 {
				sb.WriteByte('_')
			}
			pendingSep = false
			sb.WriteRune(r)
		}
	}

	out := strings.Trim(sb.String(), "_-")
	if len(out) > maxNameLength {
		out = strings.TrimRight(out[:maxNameLength], "_-")
	}
	if out == "" {
		return fallbackName
	}
	return out
}

// OutputBaseName returns CV_FINAL_<name>_<suffix> without extension.
func OutputBaseName(name, suffix string) string {
	return outputPrefix + SanitizeName(name) + "_" + suffix
}
