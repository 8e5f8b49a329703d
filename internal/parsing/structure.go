package parsing

import (
	"regexp"
	"sort"
	"strings"
)

// rebuildHeaders are the header phrases that get forced onto their own line.
// Single words that commonly appear inside sentences ("experience", "skills", "projects")
// are left out: they still open a section when the extractor already put them on their own line,
// and a few of them split as labels (see labelHeaders).
var rebuildHeaders = []string{
	"perfil profesional", "resumen profesional", "sobre mi", "acerca de mi",
	"professional summary", "professional profile", "about me",
	"experiencia laboral", "experiencia profesional", "work experience", "professional experience", "employment history",
	"educacion", "formacion academica", "education", "academic background",
	"habilidades tecnicas", "conocimientos tecnicos", "lenguajes", "technical skills", "tech stack",
	"idiomas",
	"proyectos personales", "proyectos", "personal projects", "side projects",
}

// labelHeaders are single-word headers that only split when written as a label ("Skills: Go").
var labelHeaders = []string{"skills", "habilidades", "languages"}

// BulletGlyphs are the characters that start a list item
const BulletGlyphs = "•*|▪●"

var (
	reHeaderPhrase = buildHeaderPhraseRegex(rebuildHeaders)
	reHeaderLabel  = regexp.MustCompile(`(?i)\s*\b(` + strings.Join(labelHeaders, "|") + `)\s*:\s*`)
	reBulletGlyph  = regexp.MustCompile(`[` + regexp.QuoteMeta(BulletGlyphs) + `]`)
	reEmailToken   = regexp.MustCompile(`(^|\s)(\S+@\S+)`)
	rePhoneToken   = regexp.MustCompile(`(^|[^\w+(])(` + phonePattern + `)`)
)

// buildHeaderPhraseRegex matches any phrase as whole words, longest first, with the
// surrounding whitespace and an optional trailing colon.
func buildHeaderPhraseRegex(phrases []string) *regexp.Regexp {
	sorted := append([]string(nil), phrases...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	alternatives := make([]string, len(sorted))
	for i, phrase := range sorted {
		words := strings.Fields(phrase)
		for j, w := range words {
			words[j] = regexp.QuoteMeta(w)
		}
		alternatives[i] = strings.Join(words, `\s+`)
	}
	return regexp.MustCompile(`(?i)\s*\b(?:` + strings.Join(alternatives, "|") + `)\b:?\s*`)
}

// headerLine puts a matched header on its own upper-cased line
func headerLine(match string) string {
	header := strings.TrimRight(strings.TrimSpace(match), ":")
	header = strings.Join(strings.Fields(header), " ")
	return "\n" + strings.ToUpper(header) + "\n"
}

// RebuildStructure forces line breaks around anchors that text extraction tends to merge
// into neighbouring lines: section headers (which are also upper-cased), bullet glyphs,
// email addresses and phone numbers. URLs are shielded while the edits run.
func RebuildStructure(text string) string {
	text, urls := ProtectURLs(text)

	text = reHeaderPhrase.ReplaceAllStringFunc(text, headerLine)
	text = reHeaderLabel.ReplaceAllStringFunc(text, headerLine)
	text = reBulletGlyph.ReplaceAllStringFunc(text, func(glyph string) string {
		return "\n" + glyph
	})
	text = reEmailToken.ReplaceAllString(text, "${1}\n${2}")
	text = rePhoneToken.ReplaceAllString(text, "${1}\n${2}")

	text = RestoreURLs(text, urls)
	return NormalizeText(text)
}
