package extraction

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kailas-cloud/resumatch/internal/domain/document"
)

// Heading acceptance threshold and confidence bonuses.
const (
	headingThreshold   = 0.85
	shortLineBonus     = 0.05
	casedLineBonus     = 0.03
	colonBonus         = 0.02
	followingTextBonus = 0.02
	defaultConfidence  = 0.5
)

type sectionRule struct {
	name       document.SectionName
	patterns   []string
	confidence float64
}

// sectionRegistry is evaluated in order; earlier entries win ties.
var sectionRegistry = []sectionRule{
	{document.SectionPersonalInfo, []string{"contact", "personal information", "about me", "personal details"}, 0.90},
	{document.SectionSummary, []string{
		"summary", "profile", "objective", "professional summary",
		"career objective", "personal statement", "about", "overview",
	}, 0.95},
	{document.SectionExperience, []string{
		"experience", "work experience", "employment", "professional experience",
		"career history", "work history", "positions", "employment history",
		"professional background", "work", "career",
	}, 0.98},
	{document.SectionEducation, []string{
		"education", "academic background", "educational background",
		"qualifications", "academic qualifications", "degrees", "academic",
	}, 0.95},
	{document.SectionSkills, []string{
		"skills", "technical skills", "core competencies", "expertise",
		"proficiencies", "technologies", "tools", "programming languages",
		"technical competencies", "software", "languages",
	}, 0.92},
	{document.SectionProjects, []string{
		"projects", "key projects", "notable projects", "personal projects",
		"academic projects", "portfolio", "selected projects",
	}, 0.88},
	{document.SectionCertifications, []string{
		"certifications", "certificates", "professional certifications",
		"licenses", "credentials", "training",
	}, 0.90},
	{document.SectionAwards, []string{"awards", "honors", "achievements", "recognition", "accomplishments"}, 0.85},
	{document.SectionRequirements, []string{
		"requirements", "qualifications", "required", "must have",
		"minimum requirements", "prerequisites",
	}, 0.95},
	{document.SectionResponsibilities, []string{
		"responsibilities", "duties", "job description", "role",
		"key responsibilities", "main duties",
	}, 0.93},
	{document.SectionBenefits, []string{"benefits", "compensation", "salary", "package", "perks"}, 0.88},
}

// Segment splits text into labeled sections. Lines that do not look like a
// heading accumulate into the current section, which starts as "general".
// A revisited section replaces its earlier content.
func Segment(text string) (document.Sections, map[document.SectionName]float64) {
	var sections document.Sections
	confidence := make(map[document.SectionName]float64)

	lines := strings.Split(text, "\n")
	current := document.SectionGeneral
	var acc []string

	flush := func() {
		if len(acc) == 0 {
			return
		}
		content := strings.TrimSpace(strings.Join(acc, "\n"))
		if content == "" {
			return
		}
		sections.Set(current, content)
		if _, ok := confidence[current]; !ok {
			confidence[current] = defaultConfidence
		}
	}

	for i, line := range lines {
		name, score, ok := classifyHeading(lines, i)
		if !ok {
			acc = append(acc, line)
			continue
		}
		flush()
		current = name
		confidence[current] = min(score, 1.0)
		acc = acc[:0]
	}
	flush()

	for name := range confidence {
		if !sections.Has(name) {
			delete(confidence, name)
		}
	}
	return sections, confidence
}

// classifyHeading scores line i against the registry and reports the best
// section when its confidence clears the threshold.
func classifyHeading(lines []string, i int) (document.SectionName, float64, bool) {
	clean := strings.TrimSpace(lines[i])
	n := utf8.RuneCountInString(clean)
	if n < 3 || n > 80 {
		return "", 0, false
	}

	bonus := 0.0
	if n < 30 {
		bonus += shortLineBonus
	}
	if isUpper(clean) || isTitle(clean) {
		bonus += casedLineBonus
	}
	if strings.Contains(clean, ":") {
		bonus += colonBonus
	}
	if followedByText(lines, i) {
		bonus += followingTextBonus
	}

	lower := strings.ToLower(clean)
	var best document.SectionName
	bestScore := 0.0
	for _, rule := range sectionRegistry {
		if !containsAny(lower, rule.patterns) {
			continue
		}
		if score := rule.confidence + bonus; score > bestScore {
			best, bestScore = rule.name, score
		}
	}
	if best == "" || bestScore <= headingThreshold {
		return "", 0, false
	}
	return best, bestScore, true
}

func followedByText(lines []string, i int) bool {
	end := min(i+4, len(lines))
	for _, next := range lines[i+1 : end] {
		if utf8.RuneCountInString(strings.TrimSpace(next)) > 20 {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// isUpper reports whether s has at least one cased rune and no lowercase runes.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

// isTitle reports whether every word starts with an uppercase rune followed
// only by lowercase runes, with at least one cased rune overall.
func isTitle(s string) bool {
	cased, prevCased := false, false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			if prevCased {
				return false
			}
			prevCased, cased = true, true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			prevCased, cased = true, true
		default:
			prevCased = false
		}
	}
	return cased
}
