// Package semantic scores the semantic closeness of two texts through an
// ordered chain of providers ending in TF-IDF.
package semantic

import (
	"context"
	"fmt"
	"math"

	"github.com/kailas-cloud/resumatch/internal/domain"
	"github.com/kailas-cloud/resumatch/internal/textproc"
)

// Provider scores the similarity of two non-empty texts in [0,1].
type Provider interface {
	Name() string
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// EmbeddingProvider compares texts by the cosine of their embeddings.
type EmbeddingProvider struct {
	name     string
	embedder domain.Embedder
}

// NewEmbeddingProvider wraps an embedder as a semantic provider.
func NewEmbeddingProvider(name string, embedder domain.Embedder) *EmbeddingProvider {
	return &EmbeddingProvider{name: name, embedder: embedder}
}

// Name returns the provider label.
func (p *EmbeddingProvider) Name() string { return p.name }

// Similarity embeds both texts and returns their clamped cosine similarity.
func (p *EmbeddingProvider) Similarity(ctx context.Context, a, b string) (float64, error) {
	vecs, err := p.Embed(ctx, []string{a, b})
	if err != nil {
		return 0, err
	}
	return clamp(cosine32(vecs[0], vecs[1])), nil
}

// Embed vectorizes texts, failing if the provider returns a short or empty answer.
func (p *EmbeddingProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	res, err := domain.EmbedAll(ctx, p.embedder, texts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.name, err)
	}
	if len(res.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%s: got %d embeddings for %d texts: %w",
			p.name, len(res.Embeddings), len(texts), domain.ErrEmbeddingProviderError)
	}
	for i, v := range res.Embeddings {
		if len(v) == 0 {
			return nil, fmt.Errorf("%s: empty embedding [%d]: %w", p.name, i, domain.ErrEmbeddingProviderError)
		}
	}
	return res.Embeddings, nil
}

// TFIDFProvider fits a fresh TF-IDF model on each pair. It never fails.
type TFIDFProvider struct{}

// TFIDFName labels the TF-IDF provider.
const TFIDFName = "tfidf"

// Name returns the provider label.
func (TFIDFProvider) Name() string { return TFIDFName }

// Similarity returns the clamped TF-IDF cosine similarity of a and b.
func (TFIDFProvider) Similarity(_ context.Context, a, b string) (float64, error) {
	return clamp(textproc.Similarity(a, b)), nil
}

func cosine32(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
