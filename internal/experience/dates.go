// Package experience rebuilds employer and project blocks from the flat lines of a CV section.
package experience

import (
	"regexp"
	"strings"
)

// Month names, longest first within each family so that "septiembre" wins over "sep".
var monthNames = []string{
	// Spanish
	"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto",
	"septiembre", "setiembre", "octubre", "noviembre", "diciembre",
	"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "set", "oct", "nov", "dic",
	// English
	"january", "february", "march", "april", "june", "july", "august",
	"september", "october", "november", "december",
	"jan", "apr", "aug", "sept", "dec",
}

const presentPattern = `(?:actualidad|presente|present|current|hoy)`

// yearPattern only accepts 19xx and 20xx, so counts such as "1000-5000" are not ranges.
const yearPattern = `(?:19|20)\d{2}`

// DateRangeRegex recognizes the date range of an employment entry:
// MM/YYYY–MM/YYYY, YYYY–YYYY, MonthName YYYY – MonthName YYYY, each with an open end
// (actualidad/present). The separator is a hyphen, en-dash or em-dash.
var DateRangeRegex = buildDateRangeRegex()

func buildDateRangeRegex() *regexp.Regexp {
	month := `(?:` + strings.Join(monthNames, "|") + `)\.?`
	sep := `\s*[-–—]\s*`
	numeric := `(?:0?[1-9]|1[0-2])/` + yearPattern
	named := month + `\s+(?:de\s+)?` + yearPattern

	ranges := []string{
		`\b` + numeric + sep + `(?:` + numeric + `|` + presentPattern + `)\b`,
		`\b` + named + sep + `(?:` + named + `|` + presentPattern + `)\b`,
		`\b` + yearPattern + sep + `(?:` + yearPattern + `|` + presentPattern + `)\b`,
	}

	return regexp.MustCompile(`(?i)` + strings.Join(ranges, "|"))
}

// IsDateRange reports whether a line contains an employment date range
func IsDateRange(line string) bool {
	return DateRangeRegex.MatchString(line)
}
