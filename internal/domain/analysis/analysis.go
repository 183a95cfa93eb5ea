// Package analysis holds the stored record of one resume/job comparison.
package analysis

import (
	"time"

	"github.com/kailas-cloud/resumatch/internal/domain/document"
	"github.com/kailas-cloud/resumatch/internal/domain/feature"
	dominsight "github.com/kailas-cloud/resumatch/internal/domain/insight"
	domsim "github.com/kailas-cloud/resumatch/internal/domain/similarity"
)

// Extraction describes where the resume text came from.
type Extraction struct {
	FileName string `json:"file_name,omitempty"`
	FileType string `json:"file_type"`
	Method   string `json:"method"`
}

// DocumentReport is the per-document part of an analysis.
type DocumentReport struct {
	Statistics   document.Statistics    `json:"statistics"`
	Entities     document.Entities      `json:"entities"`
	Skills       document.Skills        `json:"skills"`
	Sections     []document.SectionName `json:"sections"`
	Features     feature.Vector         `json:"features"`
	TextQuality  dominsight.TextQuality `json:"text_quality"`
	QualityScore float64                `json:"quality_score"`
}

// Analysis is the full outcome of scoring one resume against one job description.
type Analysis struct {
	ID               string         `json:"analysis_id"`
	Timestamp        time.Time      `json:"timestamp"`
	Extraction       Extraction     `json:"extraction"`
	Resume           DocumentReport `json:"resume"`
	Job              DocumentReport `json:"job_description"`
	Similarity       domsim.Result  `json:"similarity"`
	ProcessingTimeMs int64          `json:"processing_time_ms"`
}

// Score returns the overall similarity score.
func (a Analysis) Score() float64 { return a.Similarity.OverallScore }

// Stats summarizes service activity.
type Stats struct {
	TotalAnalyses int64    `json:"total_analyses"`
	Providers     []string `json:"semantic_providers"`
	ResultStore   bool     `json:"result_store"`
}
