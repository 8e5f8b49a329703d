package rendering

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDOCXToHTML(t *testing.T) {
	docx := buildDOCX(t,
		`<w:p><w:pPr><w:pStyle w:val="Title"/></w:pPr><w:r><w:t>JANE DOE</w:t></w:r></w:p>`+
			`<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>EXPERIENCIA</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>Empresa: ACME</w:t><w:br/><w:t>Puesto: Dev</w:t></w:r></w:p>`+
			`<w:p/>`+
			`<w:p><w:r><w:t xml:space="preserve">  </w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>&lt;script&gt;alert(1)&lt;/script&gt;</w:t></w:r></w:p>`,
	)

	out, err := DOCXToHTML(docx)
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)

	assert.Equal(t, "JANE DOE", doc.Find("title").Text())
	assert.Equal(t, "JANE DOE", doc.Find("h1").Text())
	assert.Equal(t, "EXPERIENCIA", doc.Find("h2").Text())
	assert.Equal(t, 1, doc.Find("p.blank").Length())

	paragraphs := doc.Find("p").Not(".blank")
	require.Equal(t, 2, paragraphs.Length())
	assert.Equal(t, 1, paragraphs.First().Find("br").Length())
	assert.Equal(t, "Empresa: ACMEPuesto: Dev", paragraphs.First().Text())

	assert.Equal(t, 0, doc.Find("body script").Length())
	assert.Equal(t, "<script>alert(1)</script>", paragraphs.Last().Text())
}

func TestDOCXToHTML_LocalizedHeadingStyles(t *testing.T) {
	docx := buildDOCX(t,
		`<w:p><w:pPr><w:pStyle w:val="Ttulo"/></w:pPr><w:r><w:t>Nombre</w:t></w:r></w:p>`+
			`<w:p><w:pPr><w:pStyle w:val="Ttulo2"/></w:pPr><w:r><w:t>Idiomas</w:t></w:r></w:p>`+
			`<w:p><w:pPr><w:pStyle w:val="ListParagraph"/></w:pPr><w:r><w:t>Ingles: B2</w:t></w:r></w:p>`,
	)

	out, err := DOCXToHTML(docx)
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)

	assert.Equal(t, "Nombre", doc.Find("h1").Text())
	assert.Equal(t, "Idiomas", doc.Find("h2").Text())
	assert.Equal(t, "Ingles: B2", doc.Find("p").Text())
}

func TestDOCXToHTML_InvalidDocument(t *testing.T) {
	_, err := DOCXToHTML([]byte("not a docx"))

	var templateErr *TemplateError
	assert.ErrorAs(t, err, &templateErr)
}
