package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-templater/internal/ingestion/pdftest"
)

func TestReadPDFBytes_ExtractsEveryPage(t *testing.T) {
	data := pdftest.Build("JANE DOE\nBackend Engineer", "SKILLS\nGo, Python")

	doc, err := ReadPDFBytes("cv.pdf", data)
	require.NoError(t, err)

	require.Equal(t, 2, doc.PageCount())
	assert.Contains(t, doc.Pages[0], "JANE DOE")
	assert.Contains(t, doc.Pages[0], "Backend Engineer")
	assert.Contains(t, doc.Pages[1], "Go, Python")

	text := doc.Text()
	assert.Less(t, strings.Index(text, "JANE DOE"), strings.Index(text, "SKILLS"))
}

func TestReadPDFBytes_EmptyPageIsKept(t *testing.T) {
	doc, err := ReadPDFBytes("cv.pdf", pdftest.Build("", "JANE DOE"))
	require.NoError(t, err)

	require.Equal(t, 2, doc.PageCount())
	assert.Empty(t, doc.Pages[0])
	assert.Contains(t, doc.Pages[1], "JANE DOE")
}

func TestReadPDFBytes_EscapedParentheses(t *testing.T) {
	doc, err := ReadPDFBytes("cv.pdf", pdftest.Build("Tel (011) 4555-1234"))
	require.NoError(t, err)
	assert.Contains(t, doc.Text(), "Tel (011) 4555-1234")
}

func TestReadPDFBytes_NoPages(t *testing.T) {
	doc, err := ReadPDFBytes("cv.pdf", pdftest.Build())

	assert.Nil(t, doc)
	assert.ErrorIs(t, err, ErrUnreadableSource)
	assert.Contains(t, err.Error(), "no pages")
}

func TestReadPDFBytes_NotAPDF(t *testing.T) {
	doc, err := ReadPDFBytes("cv.pdf", []byte(strings.Repeat("not a pdf ", 20)))

	assert.Nil(t, doc)
	assert.ErrorIs(t, err, ErrUnreadableSource)
}

func TestReadPDFBytes_Empty(t *testing.T) {
	_, err := ReadPDFBytes("cv.pdf", nil)
	assert.ErrorIs(t, err, ErrUnreadableSource)
}

func TestUnreadableSourceError_Message(t *testing.T) {
	err := &UnreadableSourceError{Path: "cv.pdf", Message: "file is empty"}
	assert.Equal(t, `unreadable source "cv.pdf": file is empty`, err.Error())
	assert.Nil(t, err.Unwrap())
}
