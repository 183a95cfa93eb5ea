package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrEmptyInput signals an empty resume or job description.
	ErrEmptyInput = errors.New("empty input")
	// ErrInvalidWeights signals a rejected scoring weight update.
	ErrInvalidWeights = errors.New("invalid weights")
	// ErrScoringFailed signals an internal fault inside the similarity engine.
	ErrScoringFailed = errors.New("scoring failed")
	// ErrBatchTooLarge signals a batch over the configured limit.
	ErrBatchTooLarge = errors.New("batch too large")
	// ErrUnsupportedFormat signals a document format that cannot be decoded.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrDocumentTooLarge signals a document over the configured size limit.
	ErrDocumentTooLarge = errors.New("document too large")

	// ErrProviderUnavailable signals that a semantic provider cannot serve a request.
	ErrProviderUnavailable = errors.New("semantic provider unavailable")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingQuotaExceeded signals an exhausted embedding budget.
	ErrEmbeddingQuotaExceeded = errors.New("embedding quota exceeded")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)

// WeightSumError wraps ErrInvalidWeights with the offending sum.
type WeightSumError struct {
	Sum float64
}

func (e *WeightSumError) Error() string {
	return fmt.Sprintf("%s: weights must sum to 1.0, got %.6f", ErrInvalidWeights.Error(), e.Sum)
}

func (e *WeightSumError) Unwrap() error { return ErrInvalidWeights }

// UnknownComponentError wraps ErrInvalidWeights with the unrecognized component name.
type UnknownComponentError struct {
	Component string
}

func (e *UnknownComponentError) Error() string {
	return fmt.Sprintf("%s: unknown component %q", ErrInvalidWeights.Error(), e.Component)
}

func (e *UnknownComponentError) Unwrap() error { return ErrInvalidWeights }

// ScoringError wraps ErrScoringFailed with the stage that failed.
type ScoringError struct {
	Stage string
	Cause error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrScoringFailed.Error(), e.Stage, e.Cause)
}

func (e *ScoringError) Unwrap() []error { return []error{ErrScoringFailed, e.Cause} }

// NewScoringError creates a scoring error for the given stage.
func NewScoringError(stage string, cause error) error {
	return &ScoringError{Stage: stage, Cause: cause}
}
