package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// DefaultFiles is the built-in identifier → file name table.
var DefaultFiles = map[string]string{
	"1": "Plantilla1.docx",
	"2": "Plantilla2.docx",
	"3": "Plantilla3.docx",
}

// Template is a registered template and where its file lives.
type Template struct {
	ID     string `json:"id"`
	File   string `json:"file"`
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

// Registry resolves template identifiers against a directory.
// It is read-only after construction and safe for concurrent use.
type Registry struct {
	dir   string
	files map[string]string
}

// NewRegistry builds a registry over dir. A nil or empty files map uses DefaultFiles.
func NewRegistry(dir string, files map[string]string) (*Registry, error) {
	if len(files) == 0 {
		files = DefaultFiles
	}
	copied := make(map[string]string, len(files))
	for id, file := range files {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("template id must not be empty")
		}
		if file == "" || filepath.Base(file) != file {
			return nil, fmt.Errorf("template %q: file must be a plain file name, got %q", id, file)
		}
		if !strings.EqualFold(filepath.Ext(file), ".docx") {
			return nil, fmt.Errorf("template %q: %q is not a .docx file", id, file)
		}
		copied[id] = file
	}
	return &Registry{dir: dir, files: copied}, nil
}

// Dir returns the templates directory.
func (r *Registry) Dir() string {
	return r.dir
}

// IDs returns the registered identifiers, numeric ones first in numeric order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.files))
	for id := range r.files {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return ids[i] < ids[j]
	})
	return ids
}

// List returns every registered template, sorted by identifier, with whether its file exists.
func (r *Registry) List() []Template {
	ids := r.IDs()
	list := make([]Template, 0, len(ids))
	for _, id := range ids {
		path := filepath.Join(r.dir, r.files[id])
		info, err := os.Stat(path)
		list = append(list, Template{
			ID:     id,
			File:   r.files[id],
			Path:   path,
			Exists: err == nil && !info.IsDir(),
		})
	}
	return list
}

// Resolve returns the path of the template registered under id.
// The identifier is trimmed; an unregistered id or a missing file yields *UnknownTemplateError.
func (r *Registry) Resolve(id string) (string, error) {
	id = strings.TrimSpace(id)
	file, ok := r.files[id]
	if !ok {
		return "", &UnknownTemplateError{ID: id, Available: r.IDs()}
	}

	path := filepath.Join(r.dir, file)
	info, err := os.Stat(path)
	if err != nil {
		return "", &UnknownTemplateError{ID: id, Available: r.IDs(), Cause: fmt.Errorf("template file not found: %s", path)}
	}
	if info.IsDir() {
		return "", &UnknownTemplateError{ID: id, Available: r.IDs(), Cause: fmt.Errorf("template path is a directory: %s", path)}
	}
	return path, nil
}
