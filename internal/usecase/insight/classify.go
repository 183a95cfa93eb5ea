// Package insight classifies extracted documents and scores their quality.
// Nothing here sits on the scoring path.
package insight

import (
	"strings"

	"github.com/kailas-cloud/resumatch/internal/domain/document"
	dominsight "github.com/kailas-cloud/resumatch/internal/domain/insight"
)

var jobPostingKeywords = []string{
	"requirements", "qualifications", "responsibilities", "salary",
	"benefits", "apply", "position", "role",
}

// Classify infers document type, level, completeness, strengths and
// improvements for doc.
func Classify(doc document.Document) dominsight.Insights {
	ins := dominsight.Insights{
		DocumentType:          DocumentType(doc),
		CompletenessScore:     Completeness(doc),
		ProfessionalLevel:     ProfessionalLevel(doc),
		KeyStrengths:          []string{},
		PotentialImprovements: []string{},
		RelevantSections:      []document.SectionName{},
	}

	if len(doc.Keywords.TechnicalSkills) > 8 {
		ins.KeyStrengths = append(ins.KeyStrengths, "Strong technical background")
	}
	if len(doc.Achievements) > 2 {
		ins.KeyStrengths = append(ins.KeyStrengths, "Demonstrated achievements")
	}
	if summary, ok := doc.Sections.Get(document.SectionSummary); ok && len([]rune(summary)) > 100 {
		ins.KeyStrengths = append(ins.KeyStrengths, "Clear professional summary")
	}

	if !doc.ContactInfo.HasEmail() {
		ins.PotentialImprovements = append(ins.PotentialImprovements, "Add contact information")
	}
	if !doc.Sections.Has(document.SectionSkills) {
		ins.PotentialImprovements = append(ins.PotentialImprovements, "Add skills section")
	}
	if len(doc.Achievements) == 0 {
		ins.PotentialImprovements = append(ins.PotentialImprovements, "Include quantifiable achievements")
	}

	switch {
	case ins.DocumentType.IsResume():
		ins.RelevantSections = []document.SectionName{
			document.SectionExperience, document.SectionEducation,
			document.SectionSkills, document.SectionProjects,
		}
	case ins.DocumentType.IsJobDescription():
		ins.RelevantSections = []document.SectionName{
			document.SectionRequirements, document.SectionResponsibilities, document.SectionBenefits,
		}
	}

	return ins
}

// DocumentType votes between resume indicators and job-posting keywords.
func DocumentType(doc document.Document) dominsight.DocumentType {
	resume := 0
	if doc.Sections.Has(document.SectionExperience) {
		resume += 2
	}
	if doc.Sections.Has(document.SectionEducation) {
		resume += 2
	}
	if doc.Sections.Has(document.SectionSkills) {
		resume++
	}
	if len(doc.ContactInfo.Emails) > 0 || len(doc.ContactInfo.Phones) > 0 {
		resume++
	}
	if len(doc.StructuredData.TechnicalInfo.ProgrammingLanguages) > 0 {
		resume++
	}

	job := 0
	lower := strings.ToLower(doc.NormalizedText)
	for _, kw := range jobPostingKeywords {
		if strings.Contains(lower, kw) {
			job++
		}
	}

	switch {
	case resume >= 4:
		return dominsight.TypeResume
	case job >= 3:
		return dominsight.TypeJobDescription
	case resume >= 2:
		return dominsight.TypeResumePartial
	case job >= 1:
		return dominsight.TypeJobDescriptionPartial
	default:
		return dominsight.TypeUnknown
	}
}

// ProfessionalLevel infers seniority from date ranges and technical keyword hits.
func ProfessionalLevel(doc document.Document) dominsight.Level {
	ranges := len(doc.StructuredData.Experience.DateRanges)
	tech := len(doc.Keywords.TechnicalSkills)
	switch {
	case ranges >= 3 && tech >= 5:
		return dominsight.LevelSenior
	case ranges >= 1 && tech >= 3:
		return dominsight.LevelMid
	case tech >= 1:
		return dominsight.LevelJunior
	default:
		return dominsight.LevelEntry
	}
}

// Completeness is the fraction of six presence checks satisfied.
func Completeness(doc document.Document) float64 {
	checks := []bool{
		doc.ContactInfo.HasEmail(),
		doc.Sections.Has(document.SectionExperience),
		doc.Sections.Has(document.SectionEducation),
		doc.Sections.Has(document.SectionSkills),
		len(doc.Keywords.TechnicalSkills) > 0,
		len(doc.Achievements) > 0,
	}
	return fraction(checks)
}

func fraction(checks []bool) float64 {
	n := 0
	for _, ok := range checks {
		if ok {
			n++
		}
	}
	return float64(n) / float64(len(checks))
}
