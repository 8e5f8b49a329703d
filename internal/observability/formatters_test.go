package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/cv-templater/internal/types"
)

func TestPrintParsedCV(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	cv := &types.ParsedCV{
		Nombre:   "JANE DOE",
		Contacto: types.ContactInfo{Email: "jane@example.com"},
		Skills:   []string{"Python", "Docker"},
		ExperienciaBloques: []types.ExperienceBlock{
			{Empresa: "ACME CORP", Puesto: "Backend Engineer", Fecha: "03/2020 - 09/2021"},
		},
		Educacion: []string{"UTN", "UBA", "ITBA", "UADE"},
		Idiomas:   map[string]string{"Ingles": "B2", "Espanol": "Nativo"},
		ProyectosBloques: []types.ProjectBlock{
			{Titulo: "cv-templater"},
		},
	}

	p.PrintParsedCV(cv)
	output := buf.String()

	assert.Contains(t, output, "PARSED CV")
	assert.Contains(t, output, "JANE DOE")
	assert.Contains(t, output, "jane@example.com")
	assert.NotContains(t, output, "Phone:")
	assert.Contains(t, output, "ACME CORP - Backend Engineer (03/2020 - 09/2021)")
	assert.Contains(t, output, "Python, Docker")
	assert.Contains(t, output, "... and 1 more")
	assert.Contains(t, output, "Espanol: Nativo, Ingles: B2")
	assert.Contains(t, output, "cv-templater")
}

func TestPrintParsedCV_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintParsedCV(nil)

	assert.Empty(t, buf.String())
}

func TestPrintGeneration(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintGeneration(&types.GenerateResult{
		ID:         uuid.MustParse("1a2b3c4d-0000-4000-8000-000000000000"),
		TemplateID: "2",
		Source:     types.SourceInfo{Path: "/tmp/cv.pdf", Pages: 2, Chars: 1234},
		DocxPath:   "/srv/output/CV_FINAL_JANE_DOE_1a2b3c4d.docx",
		Warnings:   []string{"PDF rendering failed: no browser"},
	})
	output := buf.String()

	assert.Contains(t, output, "GENERATED CV")
	assert.Contains(t, output, "1a2b3c4d-0000-4000-8000-000000000000")
	assert.Contains(t, output, "cv.pdf (2 pages, 1234 chars)")
	assert.Contains(t, output, "CV_FINAL_JANE_DOE_1a2b3c4d.docx")
	assert.Contains(t, output, "(not rendered)")
	assert.Contains(t, output, "WARNINGS")
	assert.Contains(t, output, "PDF rendering failed")
}

func TestPrintGeneration_NoWarnings(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintGeneration(&types.GenerateResult{PDFPath: "/srv/output/x.pdf"})

	assert.Contains(t, buf.String(), "PDF:      x.pdf")
	assert.Contains(t, buf.String(), "NO WARNINGS")
}

func TestPrintBox_TruncatesByRune(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("ñ", 100))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)), line)
	}
	assert.Contains(t, buf.String(), "...")
}
