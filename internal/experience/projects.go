package experience

import (
	"strings"
	"unicode/utf8"

	"github.com/jonathan/cv-templater/internal/types"
)

const maxTitleWords = 6

const projectBullets = "•*|▪●"

// isProjectTitle reports whether a line opens a new project: short and not a bullet
func isProjectTitle(line string) bool {
	r, _ := utf8.DecodeRuneInString(line)
	if strings.ContainsRune(projectBullets, r) {
		return false
	}
	return len(strings.Fields(line)) <= maxTitleWords
}

type projectAccumulator struct {
	blocks  []types.ProjectBlock
	current *types.ProjectBlock
}

func (acc projectAccumulator) flush() projectAccumulator {
	if acc.current != nil {
		acc.blocks = append(acc.blocks, *acc.current)
	}
	acc.current = nil
	return acc
}

func (acc projectAccumulator) step(line string) projectAccumulator {
	if isProjectTitle(line) {
		acc = acc.flush()
		acc.current = &types.ProjectBlock{Titulo: line, Lineas: []string{line}}
		return acc
	}

	if acc.current == nil {
		// Details before any title still form a block, just an untitled one.
		acc.current = &types.ProjectBlock{Lineas: []string{}}
	}
	next := *acc.current
	next.Lineas = append(append([]string{}, acc.current.Lineas...), line)
	acc.current = &next
	return acc
}

// BuildProjects groups project lines. A line that does not start with a bullet glyph and
// has at most six words is a title and opens a new block; other lines join the current one.
func BuildProjects(lines []string) []types.ProjectBlock {
	acc := projectAccumulator{blocks: []types.ProjectBlock{}}
	for _, line := range lines {
		acc = acc.step(line)
	}
	return acc.flush().blocks
}

// FormatProjects joins each block's lines with line breaks and blocks with a blank line.
func FormatProjects(blocks []types.ProjectBlock) string {
	rendered := make([]string, 0, len(blocks))
	for _, b := range blocks {
		rendered = append(rendered, strings.Join(b.Lineas, "\n"))
	}
	return strings.Join(rendered, "\n\n")
}
