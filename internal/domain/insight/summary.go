package insight

import "github.com/kailas-cloud/resumatch/internal/domain/document"

// Summary is the human-oriented digest of one extraction.
type Summary struct {
	DocumentAnalysis   DocumentAnalysis   `json:"document_analysis"`
	ContentStatistics  ContentStatistics  `json:"content_statistics"`
	KeyInformation     KeyInformation     `json:"key_information"`
	TechnicalProfile   TechnicalProfile   `json:"technical_profile"`
	Recommendations    Recommendations    `json:"recommendations"`
	ExtractionMetadata ExtractionMetadata `json:"extraction_metadata"`
}

// DocumentAnalysis is the classifier verdict.
type DocumentAnalysis struct {
	Type              DocumentType `json:"type"`
	ProfessionalLevel Level        `json:"professional_level"`
	QualityScore      float64      `json:"quality_score"`
	CompletenessScore float64      `json:"completeness_score"`
}

// ContentStatistics counts what was found.
type ContentStatistics struct {
	CharacterCount       int `json:"character_count"`
	WordCount            int `json:"word_count"`
	LineCount            int `json:"line_count"`
	SectionsFound        int `json:"sections_found"`
	AchievementsCount    int `json:"achievements_count"`
	TechnicalSkillsCount int `json:"technical_skills_count"`
}

// KeyInformation flags the presence of core resume elements.
type KeyInformation struct {
	HasContactInfo            bool `json:"has_contact_info"`
	HasExperienceSection      bool `json:"has_experience_section"`
	HasEducationSection       bool `json:"has_education_section"`
	HasSkillsSection          bool `json:"has_skills_section"`
	HasQuantifiedAchievements bool `json:"has_quantified_achievements"`
	HasProfessionalSummary    bool `json:"has_professional_summary"`
}

// TechnicalProfile groups technical keyword hits.
type TechnicalProfile struct {
	ProgrammingLanguages []string `json:"programming_languages"`
	Frameworks           []string `json:"frameworks"`
	ToolsAndPlatforms    []string `json:"tools_and_platforms"`
	SoftSkills           []string `json:"soft_skills"`
}

// Recommendations lists strengths, improvements and missing sections.
type Recommendations struct {
	Strengths       []string               `json:"strengths"`
	Improvements    []string               `json:"improvements"`
	MissingSections []document.SectionName `json:"missing_sections"`
}

// ExtractionMetadata describes how the text was obtained.
type ExtractionMetadata struct {
	FileType         string                           `json:"file_type,omitempty"`
	ExtractionMethod string                           `json:"extraction_method,omitempty"`
	ConfidenceScores map[document.SectionName]float64 `json:"confidence_scores"`
}
