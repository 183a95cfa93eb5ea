package insight

import (
	"strings"

	"github.com/kailas-cloud/resumatch/internal/domain/document"
	dominsight "github.com/kailas-cloud/resumatch/internal/domain/insight"
)

// Source describes how raw text was obtained.
type Source struct {
	FileType         string
	ExtractionMethod string
}

// Summarize builds the digest of doc.
func Summarize(doc document.Document, ins dominsight.Insights, src Source) dominsight.Summary {
	tech := doc.Keywords.TechnicalSkills

	quantified := false
	for _, a := range doc.Achievements {
		if a.Type == document.AchievementQuantified {
			quantified = true
			break
		}
	}

	profile := dominsight.TechnicalProfile{
		ProgrammingLanguages: []string{},
		Frameworks:           []string{},
		ToolsAndPlatforms:    []string{},
		SoftSkills:           []string{},
	}
	for _, k := range tech {
		switch k.Category {
		case "programming":
			profile.ProgrammingLanguages = append(profile.ProgrammingLanguages, k.Term)
		case "frameworks":
			profile.Frameworks = append(profile.Frameworks, k.Term)
		case "tools", "cloud", "databases":
			profile.ToolsAndPlatforms = append(profile.ToolsAndPlatforms, k.Term)
		}
	}
	for _, k := range doc.Keywords.SoftSkills {
		profile.SoftSkills = append(profile.SoftSkills, k.Term)
	}

	missing := []document.SectionName{}
	for _, s := range ins.RelevantSections {
		if !doc.Sections.Has(s) {
			missing = append(missing, s)
		}
	}

	confidence := make(map[document.SectionName]float64, len(doc.SectionConfidence))
	for k, v := range doc.SectionConfidence {
		confidence[k] = v
	}

	return dominsight.Summary{
		DocumentAnalysis: dominsight.DocumentAnalysis{
			Type:              ins.DocumentType,
			ProfessionalLevel: ins.ProfessionalLevel,
			QualityScore:      doc.QualityScore,
			CompletenessScore: ins.CompletenessScore,
		},
		ContentStatistics: dominsight.ContentStatistics{
			CharacterCount:       len([]rune(doc.RawText)),
			WordCount:            len(strings.Fields(doc.NormalizedText)),
			LineCount:            strings.Count(doc.RawText, "\n") + 1,
			SectionsFound:        doc.Sections.Len(),
			AchievementsCount:    len(doc.Achievements),
			TechnicalSkillsCount: len(tech),
		},
		KeyInformation: dominsight.KeyInformation{
			HasContactInfo:            doc.ContactInfo.HasEmail(),
			HasExperienceSection:      doc.Sections.Has(document.SectionExperience),
			HasEducationSection:       doc.Sections.Has(document.SectionEducation),
			HasSkillsSection:          doc.Sections.Has(document.SectionSkills),
			HasQuantifiedAchievements: quantified,
			HasProfessionalSummary:    doc.Sections.Has(document.SectionSummary),
		},
		TechnicalProfile: profile,
		Recommendations: dominsight.Recommendations{
			Strengths:       ins.KeyStrengths,
			Improvements:    ins.PotentialImprovements,
			MissingSections: missing,
		},
		ExtractionMetadata: dominsight.ExtractionMetadata{
			FileType:         src.FileType,
			ExtractionMethod: src.ExtractionMethod,
			ConfidenceScores: confidence,
		},
	}
}
