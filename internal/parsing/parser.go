package parsing

import (
	"strings"

	"github.com/jonathan/cv-templater/internal/experience"
	"github.com/jonathan/cv-templater/internal/types"
)

// ParseCV turns the text extracted from a CV into a ParsedCV.
// It never fails: fields that cannot be found keep their empty defaults, and empty text
// yields a record with only the name sentinel set. The result shares no state with other calls.
func ParseCV(rawText string) *types.ParsedCV {
	structured := RebuildStructure(NormalizeText(rawText))
	lines := SplitLines(structured)
	sections := SplitSections(lines)

	education, certifications := SplitCertifications(sections.Lines(SectionEducacion))

	experienceLines := sections.Lines(SectionExperiencia)
	blocks := experience.BuildBlocks(experience.CleanLines(experienceLines))

	projectLines := sections.Lines(SectionProyectos)
	projects := experience.BuildProjects(projectLines)

	return &types.ParsedCV{
		Nombre:                ExtractName(lines),
		Contacto:              ExtractContact(structured),
		Perfil:                strings.Join(sections.Lines(SectionPerfil), " "),
		Skills:                ExtractSkills(sections.Lines(SectionSkills)),
		Experiencia:           experienceLines,
		ExperienciaBloques:    blocks,
		ExperienciaFormateada: experience.FormatBlocks(blocks),
		Educacion:             education,
		Certificaciones:       certifications,
		Idiomas:               ExtractLanguages(sections.Lines(SectionIdiomas)),
		Proyectos:             projectLines,
		ProyectosBloques:      projects,
		ProyectosFormateados:  experience.FormatProjects(projects),
	}
}
