package semantic

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumatch/internal/metrics"
	"github.com/kailas-cloud/resumatch/internal/textproc"
)

// Chain tries providers in order; the first success wins. TF-IDF is always
// appended as the terminal provider.
type Chain struct {
	providers []Provider
	logger    *zap.Logger
}

// NewChain builds a chain from the given providers followed by TF-IDF.
// Nil providers are skipped.
func NewChain(logger *zap.Logger, providers ...Provider) *Chain {
	c := &Chain{logger: logger}
	for _, p := range providers {
		if p != nil {
			c.providers = append(c.providers, p)
		}
	}
	c.providers = append(c.providers, TFIDFProvider{})
	return c
}

// Providers returns provider names in evaluation order.
func (c *Chain) Providers() []string {
	out := make([]string, len(c.providers))
	for i, p := range c.providers {
		out[i] = p.Name()
	}
	return out
}

// Similarity returns the first successful provider score and its name.
// Either text being blank yields 0 without consulting any provider.
func (c *Chain) Similarity(ctx context.Context, a, b string) (float64, string) {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return 0, ""
	}
	for _, p := range c.providers {
		score, err := p.Similarity(ctx, a, b)
		if err == nil {
			return score, p.Name()
		}
		metrics.SemanticFallbackTotal.WithLabelValues(p.Name()).Inc()
		c.logger.Warn("Semantic provider failed, falling back",
			zap.String("provider", p.Name()),
			zap.Error(err),
		)
	}
	// Unreachable: TF-IDF never fails.
	return 0, ""
}

// matrixEmbedder is implemented by providers that can vectorize a whole list.
type matrixEmbedder interface {
	Provider
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Matrix returns pairwise similarities for texts from the first embedding
// provider that vectorizes all of them, else from one TF-IDF fit.
func (c *Chain) Matrix(ctx context.Context, texts []string) ([][]float64, string) {
	for _, p := range c.providers {
		me, ok := p.(matrixEmbedder)
		if !ok {
			continue
		}
		vecs, err := me.Embed(ctx, texts)
		if err != nil {
			metrics.SemanticFallbackTotal.WithLabelValues(p.Name()).Inc()
			c.logger.Warn("Embedding matrix failed, falling back",
				zap.String("provider", p.Name()),
				zap.Int("texts", len(texts)),
				zap.Error(err),
			)
			continue
		}
		out := make([][]float64, len(vecs))
		for i := range vecs {
			out[i] = make([]float64, len(vecs))
			for j := range vecs {
				out[i][j] = cosine32(vecs[i], vecs[j])
			}
		}
		return out, p.Name()
	}
	return textproc.SimilarityMatrix(texts), TFIDFName
}
