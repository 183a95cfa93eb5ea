package embedding

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/resumatch/internal/domain"
	"github.com/kailas-cloud/resumatch/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterEmbeddingMetrics()
	os.Exit(m.Run())
}

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	return m.result, m.err
}

type mockBatchEmbedder struct {
	mockEmbedder
	chunks []int
}

func (m *mockBatchEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.chunks = append(m.chunks, len(texts))
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

func TestInstrumentedEmbedder_RecordsUsage(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1}, TotalTokens: 12}}
	bt := NewBudgetTracker("openai", "", BudgetLimits{Daily: 1000}, zap.NewNop())
	p := NewInstrumentedEmbedder(inner, "openai", "m", bt, zap.NewNop())

	ctx, usage := domain.NewContextWithUsage(context.Background())
	if _, err := p.Embed(ctx, "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if total, used := usage.Tokens(); total != 12 || !used {
		t.Errorf("usage = %d/%v, want 12/true", total, used)
	}
	if bt.DailyUsed() != 12 {
		t.Errorf("budget daily = %d, want 12", bt.DailyUsed())
	}
	if got := testutil.ToFloat64(metrics.EmbeddingBudgetTokensRemaining.WithLabelValues("openai", "daily")); got != 988 {
		t.Errorf("remaining gauge = %v, want 988", got)
	}
}

func TestInstrumentedEmbedder_Error(t *testing.T) {
	innerErr := errors.New("api down")
	p := NewInstrumentedEmbedder(&mockEmbedder{err: innerErr}, "openai", "m", nil, zap.NewNop())

	if _, err := p.Embed(context.Background(), "hello"); !errors.Is(err, innerErr) {
		t.Fatalf("expected wrapped inner error, got %v", err)
	}
}

func TestInstrumentedEmbedder_BudgetRejection(t *testing.T) {
	now := time.Now().UTC()
	bt := newTracker(BudgetLimits{Daily: 10, Action: BudgetActionReject}, &now)
	bt.Record(10)
	inner := &mockBatchEmbedder{}
	p := NewInstrumentedEmbedder(inner, "openai", "m", bt, zap.NewNop())

	if _, err := p.Embed(context.Background(), "x"); !errors.Is(err, domain.ErrEmbeddingQuotaExceeded) {
		t.Errorf("Embed: expected quota error, got %v", err)
	}
	if _, err := p.BatchEmbed(context.Background(), []string{"x"}); !errors.Is(err, domain.ErrEmbeddingQuotaExceeded) {
		t.Errorf("BatchEmbed: expected quota error, got %v", err)
	}
	if inner.calls != 0 || len(inner.chunks) != 0 {
		t.Error("inner embedder called despite exhausted budget")
	}
}

func TestInstrumentedEmbedder_BatchChunks(t *testing.T) {
	inner := &mockBatchEmbedder{mockEmbedder: mockEmbedder{result: domain.EmbeddingResult{
		Embedding: []float32{0.5}, TotalTokens: 1,
	}}}
	p := NewInstrumentedEmbedder(inner, "openai", "m", nil, zap.NewNop())

	texts := make([]string, DefaultMaxAPIBatchSize+4)
	ctx, usage := domain.NewContextWithUsage(context.Background())
	res, err := p.BatchEmbed(ctx, texts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inner.chunks) != 2 || inner.chunks[0] != DefaultMaxAPIBatchSize || inner.chunks[1] != 4 {
		t.Errorf("chunks = %v", inner.chunks)
	}
	if len(res.Embeddings) != len(texts) || res.TotalTokens != len(texts) {
		t.Errorf("got %d embeddings, %d tokens", len(res.Embeddings), res.TotalTokens)
	}
	if total, _ := usage.Tokens(); total != len(texts) {
		t.Errorf("usage = %d, want %d", total, len(texts))
	}
}

func TestInstrumentedEmbedder_BatchFallbackAndEmpty(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.5}, TotalTokens: 3}}
	p := NewInstrumentedEmbedder(inner, "gemini", "m", nil, zap.NewNop())

	res, err := p.BatchEmbed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 2 || res.TotalTokens != 6 {
		t.Errorf("calls=%d tokens=%d, want 2 and 6", inner.calls, res.TotalTokens)
	}

	empty, err := p.BatchEmbed(context.Background(), nil)
	if err != nil || empty.Embeddings != nil {
		t.Errorf("empty batch = %+v, %v", empty, err)
	}
}

func TestInstrumentedEmbedder_CacheHitMarksUsage(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.5}}}
	p := NewInstrumentedEmbedder(inner, "openai", "m", nil, zap.NewNop())

	ctx, usage := domain.NewContextWithUsage(context.Background())
	if _, err := p.Embed(ctx, "cached"); err != nil {
		t.Fatal(err)
	}
	if total, used := usage.Tokens(); total != 0 || !used {
		t.Errorf("usage = %d/%v, want 0/true", total, used)
	}
}
