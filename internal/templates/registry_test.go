package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemplates(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("PK"), 0644))
	}
	return dir
}

func TestNewRegistry_Defaults(t *testing.T) {
	registry, err := NewRegistry("templates", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2", "3"}, registry.IDs())
	assert.Equal(t, "templates", registry.Dir())
}

func TestNewRegistry_RejectsInvalidEntries(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"empty id", map[string]string{" ": "a.docx"}},
		{"empty file", map[string]string{"1": ""}},
		{"path instead of name", map[string]string{"1": "../secret.docx"}},
		{"not a docx", map[string]string{"1": "cv.odt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry("templates", tt.files)
			assert.Error(t, err)
		})
	}
}

func TestRegistry_IDsOrder(t *testing.T) {
	registry, err := NewRegistry("templates", map[string]string{
		"10":      "t10.docx",
		"2":       "t2.docx",
		"moderno": "moderno.docx",
		"1":       "t1.docx",
		"clasico": "clasico.DOCX",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2", "10", "clasico", "moderno"}, registry.IDs())
}

func TestRegistry_Resolve(t *testing.T) {
	dir := writeTemplates(t, "Plantilla1.docx", "Plantilla2.docx")
	registry, err := NewRegistry(dir, nil)
	require.NoError(t, err)

	path, err := registry.Resolve("1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Plantilla1.docx"), path)

	path, err = registry.Resolve(" 2 ")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Plantilla2.docx"), path)
}

func TestRegistry_ResolveUnknown(t *testing.T) {
	dir := writeTemplates(t, "Plantilla1.docx")
	registry, err := NewRegistry(dir, nil)
	require.NoError(t, err)

	_, err = registry.Resolve("9")

	var unknownErr *UnknownTemplateError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "9", unknownErr.ID)
	assert.Equal(t, []string{"1", "2", "3"}, unknownErr.Available)
	assert.Contains(t, err.Error(), `unknown template "9" (available: 1, 2, 3)`)
}

func TestRegistry_ResolveMissingFile(t *testing.T) {
	dir := writeTemplates(t, "Plantilla1.docx")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Plantilla2.docx"), 0755))
	registry, err := NewRegistry(dir, nil)
	require.NoError(t, err)

	for _, id := range []string{"2", "3"} {
		_, err = registry.Resolve(id)

		var unknownErr *UnknownTemplateError
		require.ErrorAs(t, err, &unknownErr, "id %s", id)
		assert.Error(t, unknownErr.Cause)
	}
}

func TestRegistry_List(t *testing.T) {
	dir := writeTemplates(t, "Plantilla1.docx", "Plantilla3.docx")
	registry, err := NewRegistry(dir, nil)
	require.NoError(t, err)

	list := registry.List()

	require.Len(t, list, 3)
	assert.Equal(t, Template{ID: "1", File: "Plantilla1.docx", Path: filepath.Join(dir, "Plantilla1.docx"), Exists: true}, list[0])
	assert.False(t, list[1].Exists)
	assert.True(t, list[2].Exists)
}

func TestNewRegistry_CopiesInput(t *testing.T) {
	files := map[string]string{"a": "a.docx"}
	registry, err := NewRegistry("templates", files)
	require.NoError(t, err)

	files["b"] = "b.docx"

	assert.Equal(t, []string{"a"}, registry.IDs())
}
