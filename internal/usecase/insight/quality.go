package insight

import (
	"github.com/kailas-cloud/resumatch/internal/domain/document"
	dominsight "github.com/kailas-cloud/resumatch/internal/domain/insight"
)

// QualityScore rates doc on a 0-100 scale from its length, sections,
// contact details, structured data, keywords and classifier verdict.
func QualityScore(doc document.Document, ins dominsight.Insights) float64 {
	score := 0.0

	switch n := len([]rune(doc.NormalizedText)); {
	case n > 1000:
		score += 25
	case n > 500:
		score += 20
	case n > 200:
		score += 15
	case n > 50:
		score += 10
	}

	switch n := doc.Sections.Len(); {
	case n >= 5:
		score += 25
	case n >= 3:
		score += 20
	case n >= 2:
		score += 15
	case n >= 1:
		score += 10
	}

	c := doc.ContactInfo
	if len(c.Emails) > 0 {
		score += 8
	}
	if len(c.Phones) > 0 {
		score += 6
	}
	if c.LinkedIn != "" || c.GitHub != "" {
		score += 4
	}
	if c.Location != "" {
		score += 2
	}

	sd := doc.StructuredData
	if len(sd.Education.Degrees) > 0 {
		score += 4
	}
	if len(sd.Experience.DateRanges) > 0 {
		score += 4
	}
	if len(sd.TechnicalInfo.ProgrammingLanguages) > 0 {
		score += 3
	}
	if len(sd.TechnicalInfo.Frameworks) > 0 {
		score += 2
	}
	if len(sd.TechnicalInfo.Tools) > 0 {
		score += 2
	}

	score += tiered(len(doc.Keywords.TechnicalSkills), []tier{{5, 4}, {3, 3}, {1, 2}})
	score += tiered(len(doc.Achievements), []tier{{3, 3}, {1, 2}})
	score += tiered(len(doc.Keywords.SoftSkills), []tier{{3, 3}, {1, 2}})

	switch {
	case ins.CompletenessScore > 0.7:
		score += 3
	case ins.CompletenessScore > 0.5:
		score += 2
	case ins.CompletenessScore > 0.3:
		score += 1
	}
	if ins.ProfessionalLevel != dominsight.LevelUnknown {
		score += 2
	}

	return min(score, 100)
}

type tier struct {
	atLeast int
	points  float64
}

func tiered(n int, tiers []tier) float64 {
	for _, t := range tiers {
		if n >= t.atLeast {
			return t.points
		}
	}
	return 0
}

// TextQuality rates the writing of doc on completeness, clarity,
// professionalism and technical depth.
func TextQuality(doc document.Document) dominsight.TextQuality {
	var q dominsight.TextQuality
	stats := doc.Statistics

	experience, _ := doc.Sections.Get(document.SectionExperience)
	education, _ := doc.Sections.Get(document.SectionEducation)
	skills, _ := doc.Sections.Get(document.SectionSkills)

	q.Completeness = fraction([]bool{
		len(doc.Entities[document.EntityEmail]) > 0,
		len(doc.ContactInfo.Phones) > 0,
		len([]rune(experience)) > 50,
		len([]rune(education)) > 20,
		len([]rune(skills)) > 20,
		stats.WordCount > 100,
	})

	sentences := max(stats.SentenceCount, 1)
	words := stats.WordCount
	if words == 0 {
		words = 1
	}
	switch avg := float64(words) / float64(sentences); {
	case avg >= 15 && avg <= 20:
		q.Clarity = 1.0
	case (avg >= 10 && avg < 15) || (avg > 20 && avg <= 25):
		q.Clarity = 0.8
	default:
		q.Clarity = 0.6
	}

	q.TechnicalDepth = min(float64(doc.Skills.Total())/10, 1.0)

	q.Professionalism = fraction([]bool{
		doc.Sections.Has(document.SectionSummary),
		experience != "",
		education != "",
		skills != "",
		len(doc.Entities[document.EntityEmail]) <= 2,
		stats.WordCount >= 150,
	})

	q.Overall = q.Completeness*0.3 + q.Clarity*0.2 + q.Professionalism*0.3 + q.TechnicalDepth*0.2
	return q
}
