package embcache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumatch/internal/domain"
)

func TestEmbed_MissThenHit(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:    []float32{0.1, 0.2, 0.3},
		PromptTokens: 10,
		TotalTokens:  10,
	}}
	ce, _ := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	first, err := ce.Embed(ctx, "go developer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.TotalTokens != 10 {
		t.Fatalf("expected TotalTokens=10 on miss, got %d", first.TotalTokens)
	}

	second, err := ce.Embed(ctx, "go developer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner called %d times, want 1", inner.calls)
	}
	if second.TotalTokens != 0 {
		t.Errorf("expected 0 tokens on hit, got %d", second.TotalTokens)
	}
	if len(second.Embedding) != 3 || second.Embedding[2] != 0.3 {
		t.Errorf("cached vector = %v", second.Embedding)
	}
}

func TestEmbed_InnerError(t *testing.T) {
	innerErr := errors.New("provider down")
	ce, _ := newTestCachedEmbedder(t, &mockEmbedder{err: innerErr})

	if _, err := ce.Embed(context.Background(), "x"); !errors.Is(err, innerErr) {
		t.Fatalf("expected wrapped inner error, got %v", err)
	}
}

func TestEmbed_CorruptEntryIsMiss(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}
	ce, ms := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	_ = ms.Set(ctx, ce.cacheKey("text"), []byte{1, 2, 3})
	if _, err := ce.Embed(ctx, "text"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected corrupt entry to fall through to inner, calls=%d", inner.calls)
	}
}

func TestCacheKey_Namespaced(t *testing.T) {
	ce, ms := newTestCachedEmbedder(t, &mockEmbedder{})
	other := New(&mockEmbedder{}, ms, Options{KeyPrefix: "test:", Namespace: "gemini"}, nil, zap.NewNop())

	a, b := ce.cacheKey("same text"), other.cacheKey("same text")
	if a == b {
		t.Fatal("providers share a cache key")
	}
	if !strings.HasPrefix(a, "test:emb_cache:openai:") {
		t.Errorf("key = %q", a)
	}
}

func TestBatchEmbed_MixedHitsMisses(t *testing.T) {
	inner := &batchMock{mockEmbedder{result: domain.EmbeddingResult{
		Embedding: []float32{0.9}, PromptTokens: 4, TotalTokens: 4,
	}}}
	ce, ms := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	_ = ms.SetWithTTL(ctx, ce.cacheKey("cached"), vectorToCacheBytes([]float32{0.5}), time.Hour)

	res, err := ce.BatchEmbed(ctx, []string{"new-a", "cached", "new-b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.batchCalls != 1 || len(inner.batchTexts) != 2 {
		t.Fatalf("expected one batch call for 2 misses, got %d calls %v", inner.batchCalls, inner.batchTexts)
	}
	if res.Embeddings[1][0] != 0.5 || res.Embeddings[0][0] != 0.9 || res.Embeddings[2][0] != 0.9 {
		t.Errorf("embeddings = %v", res.Embeddings)
	}
	if res.TotalTokens != 8 {
		t.Errorf("TotalTokens = %d, want 8", res.TotalTokens)
	}

	// Everything is cached now.
	res, err = ce.BatchEmbed(ctx, []string{"new-a", "new-b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.batchCalls != 1 || res.TotalTokens != 0 {
		t.Errorf("expected all hits, batchCalls=%d tokens=%d", inner.batchCalls, res.TotalTokens)
	}
}

func TestBatchEmbed_FallbackAndErrors(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1}, TotalTokens: 2}}
	ce, _ := newTestCachedEmbedder(t, inner)

	res, err := ce.BatchEmbed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 2 || res.TotalTokens != 4 {
		t.Errorf("calls=%d tokens=%d, want 2 and 4", inner.calls, res.TotalTokens)
	}

	empty, err := ce.BatchEmbed(context.Background(), nil)
	if err != nil || empty.Embeddings != nil {
		t.Errorf("empty batch = %+v, %v", empty, err)
	}

	innerErr := errors.New("batch fail")
	failing, _ := newTestCachedEmbedder(t, &batchMock{mockEmbedder{err: innerErr}})
	if _, err := failing.BatchEmbed(context.Background(), []string{"x"}); !errors.Is(err, innerErr) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestVectorBytesRoundTrip(t *testing.T) {
	vec := []float32{-1.5, 0, 3.25}
	got, err := bytesToVector(vectorToCacheBytes(vec))
	if err != nil {
		t.Fatal(err)
	}
	for i := range vec {
		if got[i] != vec[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], vec[i])
		}
	}
	if _, err := bytesToVector([]byte{1, 2}); err == nil {
		t.Error("expected error for truncated data")
	}
}
