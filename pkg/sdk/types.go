package resumatch

import "time"

// Component names accepted by WithWeights and SetWeights.
const (
	ComponentSemantic   = "semantic_similarity"
	ComponentSkill      = "skill_match"
	ComponentExperience = "experience_match"
	ComponentEducation  = "education_match"
	ComponentKeyword    = "keyword_match"
)

// Match is the outcome of scoring one resume against one job description.
type Match struct {
	ID              string
	Score           float64 // 0..100
	Components      map[string]float64
	MatchedSkills   []string
	MissingSkills   []string
	Assessment      string
	Strengths       []string
	Weaknesses      []string
	Recommendations []string
	Provider        string // semantic provider that answered, e.g. "tfidf"
	ResumeQuality   float64
	CreatedAt       time.Time
	Duration        time.Duration
}

// Candidate is one resume submitted to Rank.
type Candidate struct {
	Name string
	Text string
}

// Ranked is one Rank outcome. Successful candidates come first, best score
// first; failed candidates follow in submission order.
type Ranked struct {
	Name  string
	Index int // position in the submitted slice
	OK    bool
	Match Match
	Err   error
}
