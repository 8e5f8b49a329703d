package experience

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/cv-templater/internal/types"
)

const dutyBullet = "• "

var (
	reLeadingBullets = regexp.MustCompile(`^[\s•*|▪●\-]+`)
	rePipe           = regexp.MustCompile(`\s*\|\s*`)
)

// CleanLines strips leading bullet glyphs and pipe separators from section lines and
// drops lines left with two characters or fewer.
func CleanLines(lines []string) []string {
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = reLeadingBullets.ReplaceAllString(line, "")
		line = strings.TrimSpace(rePipe.ReplaceAllString(line, " "))
		if utf8.RuneCountInString(line) > 2 {
			cleaned = append(cleaned, line)
		}
	}
	return cleaned
}

// isCompanyLine reports whether a line is written entirely in upper case
func isCompanyLine(line string) bool {
	hasLetter := false
	for _, r := range line {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

// blockAccumulator is the state of the left fold over experience lines.
// building is false until the first company line.
type blockAccumulator struct {
	blocks   []types.ExperienceBlock
	current  types.ExperienceBlock
	building bool
}

func (acc blockAccumulator) flush() blockAccumulator {
	if acc.building {
		acc.blocks = append(acc.blocks, acc.current)
	}
	acc.current = types.ExperienceBlock{}
	acc.building = false
	return acc
}

func (acc blockAccumulator) step(line string) blockAccumulator {
	switch {
	case IsDateRange(line):
		if !acc.building {
			return acc
		}
		if acc.current.Fecha == "" {
			acc.current.Fecha = line
			return acc
		}
	case isCompanyLine(line):
		acc = acc.flush()
		acc.current = types.ExperienceBlock{Empresa: line, Funciones: []string{}}
		acc.building = true
		return acc
	}

	if !acc.building {
		return acc
	}
	if acc.current.Puesto == "" {
		acc.current.Puesto = line
		return acc
	}

	funciones := make([]string, len(acc.current.Funciones), len(acc.current.Funciones)+1)
	copy(funciones, acc.current.Funciones)
	acc.current.Funciones = append(funciones, line)
	return acc
}

// BuildBlocks folds cleaned experience lines into one block per employer.
// An all-uppercase line opens a block, the first date range fills Fecha, the first
// remaining line fills Puesto and later lines become Funciones.
// A date line is tested before the uppercase rule, so "JAN 2018 - PRESENT" is a date.
func BuildBlocks(lines []string) []types.ExperienceBlock {
	acc := blockAccumulator{blocks: []types.ExperienceBlock{}}
	for _, line := range lines {
		acc = acc.step(line)
	}
	return acc.flush().blocks
}

// FormatBlocks renders blocks as text: the date line, company, role and duties, with a
// blank line between blocks. An empty date is omitted.
func FormatBlocks(blocks []types.ExperienceBlock) string {
	rendered := make([]string, 0, len(blocks))
	for _, b := range blocks {
		var sb strings.Builder
		if b.Fecha != "" {
			sb.WriteString(b.Fecha)
			sb.WriteString("\n")
		}
		sb.WriteString("Empresa: " + b.Empresa + "\n")
		sb.WriteString("Puesto: " + b.Puesto + "\n")
		sb.WriteString("Funciones:")
		for _, duty := range b.Funciones {
			sb.WriteString("\n" + dutyBullet + duty)
		}
		rendered = append(rendered, sb.String())
	}
	return strings.Join(rendered, "\n\n")
}
