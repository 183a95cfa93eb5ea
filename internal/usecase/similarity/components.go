package similarity

import (
	"github.com/kailas-cloud/resumatch/internal/domain/document"
	"github.com/kailas-cloud/resumatch/internal/domain/feature"
	"github.com/kailas-cloud/resumatch/internal/textproc"
)

// skillMatchCategories are the categories compared by the skill component.
var skillMatchCategories = []document.SkillCategory{
	document.ProgrammingLanguages,
	document.FrameworksLibraries,
	document.Databases,
	document.ToolsPlatforms,
}

// Experience and education scoring constants.
const (
	neutralExperience   = 0.5
	qualifiedBase       = 0.7
	overQualifiedSlope  = 0.3
	underQualifiedSlope = 0.6

	educationNotRequired = 1.0
	educationBoth        = 0.8
	educationMissing     = 0.2
)

type skillMatch struct {
	score   float64
	matched []string
	missing []string
}

// matchSkills compares the union of the four technical categories. Matched
// and missing skills follow the order of the job's skill lists.
func matchSkills(resume, job feature.Vector) skillMatch {
	have := make(map[string]struct{})
	for _, cat := range skillMatchCategories {
		for _, s := range resume.Skills.List(cat) {
			have[s] = struct{}{}
		}
	}

	var required []string
	seen := make(map[string]struct{})
	for _, cat := range skillMatchCategories {
		for _, s := range job.Skills.List(cat) {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			required = append(required, s)
		}
	}

	m := skillMatch{matched: []string{}, missing: []string{}}
	if len(required) == 0 {
		return m
	}
	for _, s := range required {
		if _, ok := have[s]; ok {
			m.matched = append(m.matched, s)
		} else {
			m.missing = append(m.missing, s)
		}
	}
	m.score = float64(len(m.matched)) / float64(len(required))
	return m
}

// matchExperience compares the most years the resume claims with the fewest
// the job asks for. A zero requirement cannot form a ratio and scores neutral.
func matchExperience(resume, job feature.Vector) float64 {
	if len(resume.Skills.YearsExperience) == 0 || len(job.Skills.YearsExperience) == 0 {
		return neutralExperience
	}
	have := resume.Skills.YearsExperience[0]
	for _, y := range resume.Skills.YearsExperience[1:] {
		have = max(have, y)
	}
	want := job.Skills.YearsExperience[0]
	for _, y := range job.Skills.YearsExperience[1:] {
		want = min(want, y)
	}
	if want == 0 {
		return neutralExperience
	}

	ratio := float64(have) / float64(want)
	if have >= want {
		return min(1.0, qualifiedBase+(ratio-1)*overQualifiedSlope)
	}
	return max(0.0, ratio*underQualifiedSlope)
}

func matchEducation(resume, job feature.Vector) float64 {
	hasEducation := resume.HasSection(document.SectionEducation)
	requiresEducation := job.HasSection(document.SectionEducation)
	switch {
	case !requiresEducation:
		return educationNotRequired
	case hasEducation:
		return educationBoth
	default:
		return educationMissing
	}
}

// matchKeywords fits a fresh TF-IDF model on the two processed texts.
func matchKeywords(resume, job feature.Vector) float64 {
	if resume.Text.ProcessedText == "" || job.Text.ProcessedText == "" {
		return 0
	}
	return max(0, textproc.Similarity(resume.Text.ProcessedText, job.Text.ProcessedText))
}
