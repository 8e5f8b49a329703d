package parsing

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/cv-templater/internal/types"
)

// phonePattern accepts an optional country code, an optional parenthesized area code
// and a digit-grouped body.
const phonePattern = `(?:\+\d{1,3}[\s\-.]?)?\(?\d{2,4}\)?[\s\-.]?\d{3,4}[\s\-.]?\d{3,4}`

const nameScanLines = 10

var (
	reEmail    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9\-]+(?:\.[A-Za-z0-9\-]+)*\.[A-Za-z]{2,}`)
	rePhone    = regexp.MustCompile(`(?:^|[^\w+(])(` + phonePattern + `)`)
	reGitHub   = regexp.MustCompile(`(?i)github\.com/[A-Za-z0-9\-_]+`)
	reLinkedIn = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?linkedin\.com/(?:in|pub)/[A-Za-z0-9\-_%]+/?`)
	reSpaces   = regexp.MustCompile(`\s+`)

	reSkillSeparator = regexp.MustCompile(`[,:]`)
	reLanguagePair   = regexp.MustCompile(`(\p{L}+)\s*[:\-–]\s*([\p{L}\p{N}]+)`)
)

// nameStopwords disqualify a line from being the candidate's name
var nameStopwords = []string{
	"curriculum", "resume", "perfil", "profile", "experiencia", "experience",
	"educacion", "education", "habilidades", "skills", "idiomas", "languages",
	"proyectos", "projects", "contacto", "contact",
}

// certificationKeywords move an education line into the certifications list
var certificationKeywords = []string{"cert", "ibm", "caelum", "oracle", "aws"}

// ExtractName returns the first of the leading lines that looks like a person's name:
// at least two words, no digits, no email and no section keyword.
// It returns types.NameNotDetected when no line qualifies.
func ExtractName(lines []string) string {
	limit := min(len(lines), nameScanLines)
	for _, line := range lines[:limit] {
		if isNameCandidate(line) {
			return line
		}
	}
	return types.NameNotDetected
}

func isNameCandidate(line string) bool {
	if strings.IndexFunc(line, unicode.IsDigit) >= 0 {
		return false
	}
	if reEmail.MatchString(line) || strings.Contains(line, "@") {
		return false
	}
	if len(strings.Fields(line)) < 2 {
		return false
	}
	lower := strings.ToLower(line)
	for _, word := range nameStopwords {
		if strings.Contains(lower, word) {
			return false
		}
	}
	return true
}

// ExtractContact runs the four contact searches over the full text.
func ExtractContact(text string) types.ContactInfo {
	contact := types.ContactInfo{
		Email:    reEmail.FindString(text),
		GitHub:   reGitHub.FindString(text),
		LinkedIn: reSpaces.ReplaceAllString(reLinkedIn.FindString(text), ""),
	}

	if m := rePhone.FindStringSubmatch(text); m != nil {
		contact.Telefono = strings.TrimSpace(reSpaces.ReplaceAllString(m[1], " "))
	}

	return contact
}

// ExtractSkills splits skill lines on commas and colons and keeps tokens longer than two
// characters, deduplicated case-insensitively in first-seen order and casing.
func ExtractSkills(lines []string) []string {
	skills := []string{}
	seen := make(map[string]struct{})

	for _, line := range lines {
		for _, token := range reSkillSeparator.Split(line, -1) {
			token = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(token), BulletGlyphs+"-"))
			if utf8.RuneCountInString(token) <= 2 {
				continue
			}
			key := strings.ToLower(token)
			if _, exists := seen[key]; exists {
				continue
			}
			seen[key] = struct{}{}
			skills = append(skills, token)
		}
	}

	return skills
}

// ExtractLanguages collects "language: level" and "language - level" pairs.
// A language listed twice keeps the level of its last occurrence.
func ExtractLanguages(lines []string) map[string]string {
	languages := make(map[string]string)
	for _, line := range lines {
		for _, m := range reLanguagePair.FindAllStringSubmatch(line, -1) {
			languages[m[1]] = m[2]
		}
	}
	return languages
}

// SplitCertifications partitions education lines into certifications and the remaining
// education lines, keeping the order within each.
func SplitCertifications(lines []string) (education, certifications []string) {
	education = []string{}
	certifications = []string{}

	for _, line := range lines {
		if isCertification(line) {
			certifications = append(certifications, line)
		} else {
			education = append(education, line)
		}
	}

	return education, certifications
}

func isCertification(line string) bool {
	lower := strings.ToLower(line)
	for _, keyword := range certificationKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
