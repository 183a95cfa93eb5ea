package similarity

// Assessment is the qualitative verdict on the overall score.
type Assessment string

// Assessment values.
const (
	Excellent Assessment = "Excellent match"
	Good      Assessment = "Good match"
	Fair      Assessment = "Fair match"
	Poor      Assessment = "Poor match"
)

// AssessmentFor maps a final score in [0,100] to its verdict.
func AssessmentFor(score float64) Assessment {
	switch {
	case score >= 75:
		return Excellent
	case score >= 60:
		return Good
	case score >= 45:
		return Fair
	default:
		return Poor
	}
}

// Analysis explains a result.
type Analysis struct {
	Strengths         []string             `json:"strengths"`
	Weaknesses        []string             `json:"weaknesses"`
	ScoreBreakdown    map[Component]string `json:"score_breakdown"`
	OverallAssessment Assessment           `json:"overall_assessment,omitempty"`
	Error             string               `json:"error,omitempty"`
}

// Result is the outcome of one resume/job comparison.
type Result struct {
	OverallScore     float64               `json:"overall_score"`
	ComponentScores  map[Component]float64 `json:"component_scores"`
	MatchedSkills    []string              `json:"matched_skills"`
	MissingSkills    []string              `json:"missing_skills"`
	DetailedAnalysis Analysis              `json:"detailed_analysis"`
	Recommendations  []string              `json:"recommendations"`
	SemanticProvider string                `json:"semantic_provider,omitempty"`
	WeightsSum       float64               `json:"weights_sum"`

	err error
}

// Err returns the internal fault that zeroed this result, if any.
func (r Result) Err() error { return r.err }

// Failed builds the zeroed result returned when scoring faults.
func Failed(err error) Result {
	return Result{
		ComponentScores: map[Component]float64{},
		MatchedSkills:   []string{},
		MissingSkills:   []string{},
		DetailedAnalysis: Analysis{
			Strengths:      []string{},
			Weaknesses:     []string{},
			ScoreBreakdown: map[Component]string{},
			Error:          err.Error(),
		},
		Recommendations: []string{},
		err:             err,
	}
}
