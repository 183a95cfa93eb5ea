package chi

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumatch/internal/domain"
	logpkg "github.com/kailas-cloud/resumatch/internal/logger"
)

// clientSentinels are errors whose message is safe to return to the client.
var clientSentinels = []error{
	domain.ErrNotFound,
	domain.ErrEmptyInput,
	domain.ErrInvalidWeights,
	domain.ErrBatchTooLarge,
	domain.ErrUnsupportedFormat,
	domain.ErrDocumentTooLarge,
	domain.ErrRateLimited,
	domain.ErrEmbeddingQuotaExceeded,
	domain.ErrEmbeddingProviderError,
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	for _, s := range clientSentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "processing timed out"
	}
	return "internal error"
}

// errorCode maps an error to its API code, for per-item batch errors.
func errorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		return CodeEmptyInput
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return CodeUnsupportedFormat
	case errors.Is(err, domain.ErrDocumentTooLarge):
		return CodeDocumentTooLarge
	case errors.Is(err, domain.ErrEmbeddingQuotaExceeded):
		return CodeQuotaExceeded
	case errors.Is(err, domain.ErrEmbeddingProviderError):
		return CodeProviderError
	case errors.Is(err, domain.ErrRateLimited):
		return CodeRateLimited
	case errors.Is(err, context.DeadlineExceeded):
		return CodeTimeout
	default:
		return CodeInternalError
	}
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// timeoutHandler reports an exceeded processing timeout.
func timeoutHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	writeError(w, http.StatusGatewayTimeout, CodeTimeout, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
