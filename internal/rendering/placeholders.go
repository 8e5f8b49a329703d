package rendering

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/cv-templater/internal/types"
)

// Placeholder names understood by the templates
const (
	KeyNombre               = "NOMBRE"
	KeyEmail                = "EMAIL"
	KeyTelefono             = "TELEFONO"
	KeyGitHub               = "GITHUB"
	KeyLinkedIn             = "LINKEDIN"
	KeyPerfil               = "PERFIL"
	KeySkills               = "SKILLS"
	KeyFormacion            = "FORMACION"
	KeyCertificaciones      = "CERTIFICACIONES"
	KeyExperienciaPlantilla = "EXPERIENCIA_PLANTILLA"
	KeyIdiomas              = "IDIOMAS"
	KeyProyectos            = "PROYECTOS"
)

// PlaceholderKeys lists every placeholder in the order they usually appear in a CV
var PlaceholderKeys = []string{
	KeyNombre, KeyEmail, KeyTelefono, KeyGitHub, KeyLinkedIn, KeyPerfil, KeySkills,
	KeyFormacion, KeyCertificaciones, KeyExperienciaPlantilla, KeyIdiomas, KeyProyectos,
}

// BuildPlaceholders flattens a parsed CV into the placeholder mapping used by the templates.
// Every key is present; missing data maps to "".
func BuildPlaceholders(cv *types.ParsedCV) map[string]string {
	if cv == nil {
		cv = &types.ParsedCV{}
	}

	return map[string]string{
		KeyNombre:               cv.Nombre,
		KeyEmail:                cv.Contacto.Email,
		KeyTelefono:             cv.Contacto.Telefono,
		KeyGitHub:               cv.Contacto.GitHub,
		KeyLinkedIn:             cv.Contacto.LinkedIn,
		KeyPerfil:               cv.Perfil,
		KeySkills:               strings.Join(cv.Skills, ", "),
		KeyFormacion:            strings.Join(cv.Educacion, "\n"),
		KeyCertificaciones:      strings.Join(cv.Certificaciones, "\n"),
		KeyExperienciaPlantilla: cv.ExperienciaFormateada,
		KeyIdiomas:              formatLanguages(cv.Idiomas),
		KeyProyectos:            cv.ProyectosFormateados,
	}
}

// formatLanguages renders one "language: level" line per entry, sorted by language
func formatLanguages(languages map[string]string) string {
	names := make([]string, 0, len(languages))
	for name := range languages {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = fmt.Sprintf("%s: %s", name, languages[name])
	}
	return strings.Join(lines, "\n")
}
