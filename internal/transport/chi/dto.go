package chi

import (
	"time"

	"github.com/kailas-cloud/resumatch/internal/domain/document"
	"github.com/kailas-cloud/resumatch/internal/domain/feature"
	dominsight "github.com/kailas-cloud/resumatch/internal/domain/insight"
	domsim "github.com/kailas-cloud/resumatch/internal/domain/similarity"
)

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes returned by the API.
const (
	CodeBadRequest        ErrorCode = "bad_request"
	CodeUnauthorized      ErrorCode = "unauthorized"
	CodeValidationFailed  ErrorCode = "validation_failed"
	CodeNotFound          ErrorCode = "not_found"
	CodeEmptyInput        ErrorCode = "empty_input"
	CodeInvalidWeights    ErrorCode = "invalid_weights"
	CodeBatchTooLarge     ErrorCode = "batch_too_large"
	CodeUnsupportedFormat ErrorCode = "unsupported_format"
	CodeDocumentTooLarge  ErrorCode = "document_too_large"
	CodeRateLimited       ErrorCode = "rate_limited"
	CodeQuotaExceeded     ErrorCode = "embedding_quota_exceeded"
	CodeProviderError     ErrorCode = "embedding_provider_error"
	CodeTimeout           ErrorCode = "timeout"
	CodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// AnalyzeRequest is the JSON form of POST /analyze.
type AnalyzeRequest struct {
	ResumeText     string `json:"resume_text"`
	JobDescription string `json:"job_description"`
}

// AnalyzeResponse is the reply to POST /analyze.
type AnalyzeResponse struct {
	AnalysisID         string        `json:"analysis_id"`
	SimilarityAnalysis domsim.Result `json:"similarity_analysis"`
	Timestamp          time.Time     `json:"timestamp"`
}

// BatchItem is one ranked resume.
type BatchItem struct {
	Filename     string         `json:"filename"`
	Status       string         `json:"status"` // success, failed
	AnalysisID   string         `json:"analysis_id,omitempty"`
	OverallScore *float64       `json:"overall_score,omitempty"`
	Error        *ErrorResponse `json:"error,omitempty"`
}

// BatchResponse is the reply to POST /batch-analyze.
type BatchResponse struct {
	TotalResumes int         `json:"total_resumes"`
	Successful   int         `json:"successful"`
	Failed       int         `json:"failed"`
	Results      []BatchItem `json:"results"`
}

// ExtractRequest is the JSON form of POST /extract.
type ExtractRequest struct {
	Text string `json:"text"`
}

// ExtractResponse is the reply to POST /extract.
type ExtractResponse struct {
	Document    *document.Document     `json:"document"`
	Features    feature.Vector         `json:"features"`
	Insights    dominsight.Insights    `json:"insights"`
	TextQuality dominsight.TextQuality `json:"text_quality"`
	Summary     dominsight.Summary     `json:"summary"`
}

// exportRecord is the flattened form written by ?format=csv.
type exportRecord struct {
	Features    feature.Vector         `json:"features"`
	Summary     dominsight.Summary     `json:"summary"`
	TextQuality dominsight.TextQuality `json:"text_quality"`
}

// MatrixRequest is the body of POST /similarity-matrix.
type MatrixRequest struct {
	Texts []string `json:"texts"`
}

// MatrixResponse is the reply to POST /similarity-matrix.
type MatrixResponse struct {
	Matrix   [][]float64 `json:"matrix"`
	Provider string      `json:"provider"`
}

// WeightsRequest is the body of PUT /weights.
type WeightsRequest struct {
	Weights map[string]float64 `json:"weights"`
}

// WeightsResponse is the reply to GET and PUT /weights.
type WeightsResponse struct {
	Weights    map[string]float64 `json:"weights"`
	WeightsSum float64            `json:"weights_sum"`
}

// BudgetStatus is a provider's budget snapshot.
type BudgetStatus struct {
	TokensLimit     int64      `json:"tokens_limit"`
	TokensRemaining int64      `json:"tokens_remaining"`
	IsExhausted     bool       `json:"is_exhausted"`
	Action          string     `json:"action"`
	ResetsAt        *time.Time `json:"resets_at,omitempty"`
}

// ProviderUsage is one provider's token usage.
type ProviderUsage struct {
	Provider      string       `json:"provider"`
	Tokens        int64        `json:"tokens"`
	CostUSD       float64      `json:"cost_usd,omitempty"`
	PeriodStartAt time.Time    `json:"period_start_at"`
	PeriodEndAt   time.Time    `json:"period_end_at"`
	Budget        BudgetStatus `json:"budget"`
}

// UsageResponse is the reply to GET /usage.
type UsageResponse struct {
	Period    string          `json:"period"`
	Providers []ProviderUsage `json:"providers"`
}

// StatsResponse is the reply to GET /api/stats.
type StatsResponse struct {
	TotalAnalyses     int64    `json:"total_analyses"`
	SemanticProviders []string `json:"semantic_providers"`
	ResultStore       bool     `json:"result_store"`
	SupportedFormats  []string `json:"supported_formats"`
	Version           string   `json:"version"`
	Uptime            string   `json:"uptime"`
}

// HealthResponse is the reply to GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
