// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/cv-templater/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func writeList(sb *strings.Builder, title string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(title + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
	sb.WriteString("\n")
}

// PrintParsedCV outputs a human-readable summary of the parsed CV.
func (p *Printer) PrintParsedCV(cv *types.ParsedCV) {
	if cv == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", cv.Nombre))
	for _, field := range []struct{ label, value string }{
		{"Email", cv.Contacto.Email},
		{"Phone", cv.Contacto.Telefono},
		{"GitHub", cv.Contacto.GitHub},
		{"LinkedIn", cv.Contacto.LinkedIn},
	} {
		if field.value != "" {
			sb.WriteString(fmt.Sprintf("%-9s %s\n", field.label+":", field.value))
		}
	}
	sb.WriteString("\n")

	if len(cv.ExperienciaBloques) > 0 {
		sb.WriteString(fmt.Sprintf("Experience (%d):\n", len(cv.ExperienciaBloques)))
		count := min(len(cv.ExperienciaBloques), maxItemsToShow)
		for i := 0; i < count; i++ {
			block := cv.ExperienciaBloques[i]
			line := block.Empresa
			if block.Puesto != "" {
				line += " - " + block.Puesto
			}
			if block.Fecha != "" {
				line += " (" + block.Fecha + ")"
			}
			sb.WriteString(fmt.Sprintf("  • %s\n", line))
		}
		if len(cv.ExperienciaBloques) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(cv.ExperienciaBloques)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(cv.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("Skills:   %s\n\n", strings.Join(cv.Skills, ", ")))
	}
	writeList(&sb, "Education", cv.Educacion, 3)
	writeList(&sb, "Certifications", cv.Certificaciones, 3)

	if len(cv.Idiomas) > 0 {
		names := make([]string, 0, len(cv.Idiomas))
		for name := range cv.Idiomas {
			names = append(names, name)
		}
		sort.Strings(names)
		pairs := make([]string, len(names))
		for i, name := range names {
			pairs[i] = name + ": " + cv.Idiomas[name]
		}
		sb.WriteString(fmt.Sprintf("Languages: %s\n\n", strings.Join(pairs, ", ")))
	}

	titles := make([]string, len(cv.ProyectosBloques))
	for i, block := range cv.ProyectosBloques {
		titles[i] = block.Titulo
	}
	writeList(&sb, "Projects", titles, 3)

	p.printBox("PARSED CV", strings.TrimRight(sb.String(), "\n"))
}

// PrintGeneration outputs the files produced by a generation and its warnings.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintGeneration(result *types.GenerateResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:       %s\n", result.ID))
	sb.WriteString(fmt.Sprintf("Template: %s\n", result.TemplateID))
	sb.WriteString(fmt.Sprintf("Source:   %s (%d pages, %d chars)\n",
		filepath.Base(result.Source.Path), result.Source.Pages, result.Source.Chars))
	sb.WriteString(fmt.Sprintf("DOCX:     %s\n", filepath.Base(result.DocxPath)))
	if result.PDFPath != "" {
		sb.WriteString(fmt.Sprintf("PDF:      %s\n", filepath.Base(result.PDFPath)))
	} else {
		sb.WriteString("PDF:      (not rendered)\n")
	}

	p.printBox("GENERATED CV", strings.TrimSuffix(sb.String(), "\n"))

	if len(result.Warnings) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO WARNINGS")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var warnings strings.Builder
	for i, w := range result.Warnings {
		warnings.WriteString(fmt.Sprintf("⚠ %s", w))
		if i < len(result.Warnings)-1 {
			warnings.WriteString("\n")
		}
	}
	p.printBox("WARNINGS", warnings.String())
}
