package similarity

import (
	"fmt"
	"strings"

	domsim "github.com/kailas-cloud/resumatch/internal/domain/similarity"
)

// Analysis thresholds.
const (
	strengthThreshold = 0.6
	weaknessThreshold = 0.25
	maxListedMissing  = 5
)

func analyze(scores map[domsim.Component]float64, overall float64) domsim.Analysis {
	a := domsim.Analysis{
		Strengths:         []string{},
		Weaknesses:        []string{},
		ScoreBreakdown:    make(map[domsim.Component]string, len(scores)),
		OverallAssessment: domsim.AssessmentFor(overall),
	}
	for _, c := range domsim.Components {
		score, ok := scores[c]
		if !ok {
			continue
		}
		a.ScoreBreakdown[c] = fmt.Sprintf("%.1f%%", score*100)
		label := strings.ReplaceAll(string(c), "_", " ")
		switch {
		case score >= strengthThreshold:
			a.Strengths = append(a.Strengths, "Strong "+label)
		case score <= weaknessThreshold:
			a.Weaknesses = append(a.Weaknesses, "Weak "+label)
		}
	}
	return a
}

type recommendationRule struct {
	component domsim.Component
	below     float64
	tips      []string
}

var recommendationRules = []recommendationRule{
	{domsim.Semantic, 0.4, []string{
		"Include more relevant keywords from the job description",
		"Tailor your resume content to better match the role requirements",
	}},
	{domsim.Experience, 0.5, []string{
		"Highlight relevant work experience more prominently",
		"Include specific examples of achievements in similar roles",
	}},
	{domsim.Education, 0.5, []string{
		"Ensure educational qualifications are clearly stated",
		"Consider adding relevant certifications or courses",
	}},
	{domsim.Keyword, 0.4, []string{
		"Use more industry-specific terminology from the job posting",
		"Include relevant buzzwords and technical terms",
	}},
}

func recommend(scores map[domsim.Component]float64, missing []string) []string {
	out := []string{}
	if scores[domsim.Skill] < 0.5 && len(missing) > 0 {
		top := missing[:min(len(missing), maxListedMissing)]
		out = append(out, "Consider adding these skills: "+strings.Join(top, ", "))
	}
	for _, r := range recommendationRules {
		if scores[r.component] < r.below {
			out = append(out, r.tips...)
		}
	}
	return out
}
