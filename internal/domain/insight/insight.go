package insight

import (
	"strings"

	"github.com/kailas-cloud/resumatch/internal/domain/document"
)

// DocumentType is the inferred kind of document.
type DocumentType string

// Document types.
const (
	TypeResume                DocumentType = "resume"
	TypeResumePartial         DocumentType = "resume_partial"
	TypeJobDescription        DocumentType = "job_description"
	TypeJobDescriptionPartial DocumentType = "job_description_partial"
	TypeUnknown               DocumentType = "unknown"
)

// IsResume reports whether t is a full or partial resume.
func (t DocumentType) IsResume() bool { return strings.HasPrefix(string(t), "resume") }

// IsJobDescription reports whether t is a full or partial job description.
func (t DocumentType) IsJobDescription() bool {
	return strings.HasPrefix(string(t), "job_description")
}

// Level is the inferred seniority of the author.
type Level string

// Professional levels.
const (
	LevelSenior  Level = "senior"
	LevelMid     Level = "mid-level"
	LevelJunior  Level = "junior"
	LevelEntry   Level = "entry-level"
	LevelUnknown Level = "unknown"
)

// Insights is the classifier output for one document.
type Insights struct {
	DocumentType          DocumentType           `json:"document_type"`
	CompletenessScore     float64                `json:"completeness_score"`
	ProfessionalLevel     Level                  `json:"professional_level"`
	KeyStrengths          []string               `json:"key_strengths"`
	PotentialImprovements []string               `json:"potential_improvements"`
	RelevantSections      []document.SectionName `json:"relevant_sections"`
}

// TextQuality scores the writing of a document, each metric in [0,1].
type TextQuality struct {
	Completeness    float64 `json:"completeness"`
	Clarity         float64 `json:"clarity"`
	Professionalism float64 `json:"professionalism"`
	TechnicalDepth  float64 `json:"technical_depth"`
	Overall         float64 `json:"overall"`
}
