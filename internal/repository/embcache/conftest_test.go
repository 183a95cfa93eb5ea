package embcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumatch/internal/db/memory"
	"github.com/kailas-cloud/resumatch/internal/domain"
)

// mockEmbedder returns the same vector for every text and counts calls.
type mockEmbedder struct {
	result     domain.EmbeddingResult
	err        error
	calls      int
	batchCalls int
	batchTexts []string
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	return m.result, m.err
}

// batchMock adds a native batch endpoint to mockEmbedder.
type batchMock struct {
	mockEmbedder
}

func (m *batchMock) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.batchCalls++
	m.batchTexts = append(m.batchTexts, texts...)
	if m.err != nil {
		return domain.BatchEmbeddingResult{}, m.err
	}
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = m.result.Embedding
	}
	return domain.BatchEmbeddingResult{
		Embeddings:   embeddings,
		PromptTokens: m.result.PromptTokens * len(texts),
		TotalTokens:  m.result.TotalTokens * len(texts),
	}, nil
}

func newTestCachedEmbedder(t *testing.T, inner domain.Embedder) (*CachedEmbedder, *memory.Store) {
	t.Helper()
	ms := memory.New()
	ce := New(inner, ms, Options{KeyPrefix: "test:", Namespace: "openai", TTL: time.Hour}, nil, zap.NewNop())
	return ce, ms
}
