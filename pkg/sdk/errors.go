package resumatch

import "github.com/kailas-cloud/resumatch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound               = domain.ErrNotFound
	ErrEmptyInput             = domain.ErrEmptyInput
	ErrInvalidWeights         = domain.ErrInvalidWeights
	ErrBatchTooLarge          = domain.ErrBatchTooLarge
	ErrDocumentTooLarge       = domain.ErrDocumentTooLarge
	ErrRateLimited            = domain.ErrRateLimited
	ErrEmbeddingQuotaExceeded = domain.ErrEmbeddingQuotaExceeded
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
)
