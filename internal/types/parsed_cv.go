// Package types provides type definitions for structured data used throughout the cv-templater system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// NameNotDetected is returned as Nombre when no line qualifies as the candidate name.
// It is valid output, not an error.
const NameNotDetected = "No detectado"

// ContactInfo holds the contact fields found in a CV.
// A field that was not found is the empty string, never omitted.
type ContactInfo struct {
	Email    string `json:"email"`
	Telefono string `json:"telefono"`
	GitHub   string `json:"github"`
	LinkedIn string `json:"linkedin"`
}

// ExperienceBlock is one employer entry rebuilt from the experience section
type ExperienceBlock struct {
	Empresa   string   `json:"empresa"`
	Puesto    string   `json:"puesto"`
	Fecha     string   `json:"fecha"`
	Funciones []string `json:"funciones"`
}

// ProjectBlock is one titled group of lines from the projects section
type ProjectBlock struct {
	Titulo string   `json:"titulo"`
	Lineas []string `json:"lineas"`
}

// ParsedCV is the structured record extracted from a CV's text.
// Sequences are never nil so that the JSON form always carries arrays.
type ParsedCV struct {
	Nombre                string            `json:"nombre"`
	Contacto              ContactInfo       `json:"contacto"`
	Perfil                string            `json:"perfil"`
	Skills                []string          `json:"skills"`
	Experiencia           []string          `json:"experiencia"`
	ExperienciaBloques    []ExperienceBlock `json:"experiencia_bloques"`
	ExperienciaFormateada string            `json:"experiencia_formateada"`
	Educacion             []string          `json:"educacion"`
	Certificaciones       []string          `json:"certificaciones"`
	Idiomas               map[string]string `json:"idiomas"`
	Proyectos             []string          `json:"proyectos"`
	ProyectosBloques      []ProjectBlock    `json:"proyectos_bloques"`
	ProyectosFormateados  string            `json:"proyectos_formateados"`
}

// NameDetected reports whether Nombre holds a real name rather than the sentinel.
func (cv *ParsedCV) NameDetected() bool {
	return cv.Nombre != "" && cv.Nombre != NameNotDetected
}
