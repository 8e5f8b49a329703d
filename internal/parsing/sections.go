package parsing

import (
	"strings"
	"unicode/utf8"
)

// SectionKey names a CV section
type SectionKey string

// Section keys. SectionNone is the splitter's state before the first header.
const (
	SectionNone        SectionKey = ""
	SectionPerfil      SectionKey = "perfil"
	SectionExperiencia SectionKey = "experiencia"
	SectionEducacion   SectionKey = "educacion"
	SectionSkills      SectionKey = "skills"
	SectionIdiomas     SectionKey = "idiomas"
	SectionProyectos   SectionKey = "proyectos"
)

// SectionKeys lists every section in a stable order
var SectionKeys = []SectionKey{
	SectionPerfil,
	SectionExperiencia,
	SectionEducacion,
	SectionSkills,
	SectionIdiomas,
	SectionProyectos,
}

// sectionAliases are the header lines, already ASCII-folded and lowercased, that open each section.
var sectionAliases = map[SectionKey][]string{
	SectionPerfil: {
		"perfil", "perfil profesional", "resumen", "resumen profesional", "sobre mi", "acerca de mi", "extracto",
		"profile", "professional profile", "summary", "professional summary", "about me", "about",
	},
	SectionExperiencia: {
		"experiencia", "experiencia laboral", "experiencia profesional", "historial laboral",
		"experience", "work experience", "professional experience", "employment history", "employment",
	},
	SectionEducacion: {
		"educacion", "formacion", "formacion academica", "estudios", "certificaciones", "cursos y certificaciones",
		"education", "academic background", "certifications", "courses",
	},
	SectionSkills: {
		"habilidades", "habilidades tecnicas", "competencias", "conocimientos", "conocimientos tecnicos",
		"tecnologias", "lenguajes", "herramientas",
		"skills", "technical skills", "tech stack", "technologies",
	},
	SectionIdiomas: {
		"idiomas", "languages",
	},
	SectionProyectos: {
		"proyectos", "proyectos personales", "projects", "personal projects", "side projects",
	},
}

// headerTransitions is the splitter's transition table: folded header line -> next state.
var headerTransitions = buildHeaderTransitions()

func buildHeaderTransitions() map[string]SectionKey {
	table := make(map[string]SectionKey)
	for _, key := range SectionKeys {
		for _, alias := range sectionAliases[key] {
			table[alias] = key
		}
	}
	return table
}

// SectionMap holds the lines of each section in document order
type SectionMap map[SectionKey][]string

// Lines returns the lines of a section, never nil
func (m SectionMap) Lines(key SectionKey) []string {
	if lines, ok := m[key]; ok && lines != nil {
		return lines
	}
	return []string{}
}

// SplitLines splits text into trimmed lines longer than two characters.
func SplitLines(text string) []string {
	lines := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) > 2 {
			lines = append(lines, line)
		}
	}
	return lines
}

// MatchSectionHeader reports which section a line opens.
// The whole line must equal an alias once case and whitespace are folded, so a sentence
// that merely mentions "experiencia" does not switch sections.
func MatchSectionHeader(line string) (SectionKey, bool) {
	key, ok := headerTransitions[foldKey(line)]
	return key, ok
}

// SplitSections assigns each line to the section opened by the closest preceding header.
// Header lines are not stored and lines before the first header are dropped.
func SplitSections(lines []string) SectionMap {
	sections := make(SectionMap, len(SectionKeys))
	for _, key := range SectionKeys {
		sections[key] = []string{}
	}

	current := SectionNone
	for _, line := range lines {
		if next, ok := MatchSectionHeader(line); ok {
			current = next
			continue
		}
		if current == SectionNone {
			continue
		}
		sections[current] = append(sections[current], line)
	}

	return sections
}
