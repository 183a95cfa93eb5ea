// Package gemini embeds texts with the Google Gemini embeddings API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/kailas-cloud/resumatch/internal/domain"
	"github.com/kailas-cloud/resumatch/internal/metrics"
)

const defaultModel = "text-embedding-004"

// models is the subset of genai.Models the embedder calls.
type models interface {
	EmbedContent(
		ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig,
	) (*genai.EmbedContentResponse, error)
	Get(ctx context.Context, model string, config *genai.GetModelConfig) (*genai.Model, error)
}

// Embedder is an embedding provider backed by the Gemini API.
type Embedder struct {
	models     models
	model      string
	dimensions int
	provider   string
	logger     *zap.Logger
}

// Config holds the Gemini provider settings.
type Config struct {
	APIKey     string
	Model      string
	Dimensions int
	Provider   string
	Logger     *zap.Logger
}

// NewEmbedder creates a Gemini embedding provider.
func NewEmbedder(ctx context.Context, cfg *Config) (*Embedder, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newEmbedder(client.Models, cfg), nil
}

func newEmbedder(m models, cfg *Config) *Embedder {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	provider := cfg.Provider
	if provider == "" {
		provider = "gemini"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Embedder{
		models:     m,
		model:      model,
		dimensions: cfg.Dimensions,
		provider:   provider,
		logger:     logger,
	}
}

// Embed implements domain.Embedder.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	res, err := e.BatchEmbed(ctx, []string{text})
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{
		Embedding:    res.Embeddings[0],
		PromptTokens: res.PromptTokens,
		TotalTokens:  res.TotalTokens,
	}, nil
}

// BatchEmbed implements domain.BatchEmbedder. The Gemini API reports token
// counts only on Vertex; elsewhere usage is estimated at four characters per token.
func (e *Embedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}
	cfg := &genai.EmbedContentConfig{TaskType: "SEMANTIC_SIMILARITY"}
	if e.dimensions > 0 {
		dim := int32(e.dimensions) //nolint:gosec // dimensions are small config values
		cfg.OutputDimensionality = &dim
	}

	start := time.Now()
	resp, err := e.models.EmbedContent(ctx, e.model, contents, cfg)
	if err != nil {
		e.fail("api_error")
		e.logger.Debug("Gemini embedding failed", zap.String("model", e.model), zap.Error(err))
		return domain.BatchEmbeddingResult{}, classify(err)
	}
	if resp == nil || len(resp.Embeddings) != len(texts) {
		e.fail("count_mismatch")
		return domain.BatchEmbeddingResult{}, fmt.Errorf("gemini returned wrong number of embeddings: %w",
			domain.ErrEmbeddingProviderError)
	}

	vectors := make([][]float32, len(texts))
	var tokens int
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			e.fail("empty_response")
			return domain.BatchEmbeddingResult{}, fmt.Errorf("empty embedding at %d: %w", i, domain.ErrEmbeddingProviderError)
		}
		vectors[i] = emb.Values
		if emb.Statistics != nil && emb.Statistics.TokenCount > 0 {
			tokens += int(emb.Statistics.TokenCount)
		} else {
			tokens += estimateTokens(texts[i])
		}
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, e.model, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(e.provider, e.model).Observe(time.Since(start).Seconds())
	metrics.EmbeddingTokensTotal.WithLabelValues(e.provider, e.model, "total").Add(float64(tokens))

	return domain.BatchEmbeddingResult{
		Embeddings:   vectors,
		PromptTokens: tokens,
		TotalTokens:  tokens,
	}, nil
}

// HealthCheck fetches the configured model's metadata.
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if _, err := e.models.Get(ctx, e.model, nil); err != nil {
		return fmt.Errorf("get model %s: %w", e.model, err)
	}
	return nil
}

func (e *Embedder) fail(kind string) {
	metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, e.model, "error").Inc()
	metrics.EmbeddingErrorsTotal.WithLabelValues(e.provider, e.model, kind).Inc()
}

func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests {
			return fmt.Errorf("gemini API error %d: %s: %w", apiErr.Code, apiErr.Message,
				errors.Join(domain.ErrRateLimited, domain.ErrEmbeddingProviderError))
		}
		return fmt.Errorf("gemini API error %d: %s: %w", apiErr.Code, apiErr.Message, domain.ErrEmbeddingProviderError)
	}
	return fmt.Errorf("gemini request failed: %v: %w", err, domain.ErrEmbeddingProviderError)
}

func estimateTokens(text string) int {
	n := (len(text) + 3) / 4
	if n == 0 {
		n = 1
	}
	return n
}
