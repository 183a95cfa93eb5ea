package document

// StructuredData holds the nested education, experience, technical and salary records.
type StructuredData struct {
	Education     EducationInfo  `json:"education"`
	Experience    ExperienceInfo `json:"experience"`
	TechnicalInfo TechnicalInfo  `json:"technical_info"`
	Metrics       SalaryMetrics  `json:"metrics"`
}

// EducationInfo describes degrees and schooling.
type EducationInfo struct {
	Degrees         []string `json:"degrees"`
	Institutions    []string `json:"institutions"`
	GPA             *float64 `json:"gpa,omitempty"`
	GraduationYears []int    `json:"graduation_years"`
}

// ExperienceInfo describes employment history.
type ExperienceInfo struct {
	Companies       []string    `json:"companies"`
	Positions       []string    `json:"positions"`
	YearsExperience []int       `json:"years_experience"`
	DateRanges      []DateRange `json:"date_ranges"`
}

// DateRange is a "from - to" span as written in the document.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// TechnicalInfo lists technical terms by coarse category.
type TechnicalInfo struct {
	ProgrammingLanguages []string `json:"programming_languages"`
	Frameworks           []string `json:"frameworks"`
	Tools                []string `json:"tools"`
	Certifications       []string `json:"certifications"`
}

// SalaryMetrics describes compensation mentions.
type SalaryMetrics struct {
	SalaryMentioned      bool         `json:"salary_mentioned"`
	SalaryRange          *SalaryRange `json:"salary_range,omitempty"`
	YearsTotalExperience *int         `json:"years_total_experience,omitempty"`
}

// SalaryRange holds the first salary figure found and its optional upper bound.
type SalaryRange struct {
	Min string `json:"min"`
	Max string `json:"max,omitempty"`
}

// Keyword is a vocabulary hit annotated with a confidence in [0,1].
type Keyword struct {
	Term       string  `json:"term"`
	Category   string  `json:"category,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Keywords groups vocabulary hits by kind.
type Keywords struct {
	TechnicalSkills []Keyword `json:"technical_skills"`
	SoftSkills      []Keyword `json:"soft_skills"`
	Industries      []Keyword `json:"industries"`
	JobTitles       []Keyword `json:"job_titles"`
	ActionWords     []Keyword `json:"action_words"`
}

// AchievementType distinguishes measured from descriptive achievements.
type AchievementType string

// Achievement types.
const (
	AchievementQuantified  AchievementType = "quantified"
	AchievementQualitative AchievementType = "qualitative"
)

// Achievement is a sentence fragment describing an accomplishment.
type Achievement struct {
	Text       string          `json:"text"`
	Type       AchievementType `json:"type"`
	Confidence float64         `json:"confidence"`
}
