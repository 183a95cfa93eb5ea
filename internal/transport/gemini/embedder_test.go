package gemini

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"google.golang.org/genai"

	"github.com/kailas-cloud/resumatch/internal/domain"
)

type fakeModels struct {
	resp   *genai.EmbedContentResponse
	err    error
	model  string
	texts  []string
	config *genai.EmbedContentConfig
	getErr error
}

func (f *fakeModels) EmbedContent(
	_ context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig,
) (*genai.EmbedContentResponse, error) {
	f.model = model
	f.config = config
	for _, c := range contents {
		for _, p := range c.Parts {
			f.texts = append(f.texts, p.Text)
		}
	}
	return f.resp, f.err
}

func (f *fakeModels) Get(context.Context, string, *genai.GetModelConfig) (*genai.Model, error) {
	return &genai.Model{}, f.getErr
}

func TestEmbedder_BatchEmbed(t *testing.T) {
	fake := &fakeModels{resp: &genai.EmbedContentResponse{Embeddings: []*genai.ContentEmbedding{
		{Values: []float32{0.1, 0.2}},
		{Values: []float32{0.3, 0.4}, Statistics: &genai.ContentEmbeddingStatistics{TokenCount: 7}},
	}}}
	emb := newEmbedder(fake, &Config{Dimensions: 2})

	res, err := emb.BatchEmbed(context.Background(), []string{"python developer", "go"})
	if err != nil {
		t.Fatalf("BatchEmbed: %v", err)
	}
	if fake.model != defaultModel {
		t.Errorf("model = %q, want %q", fake.model, defaultModel)
	}
	if len(fake.texts) != 2 || fake.texts[0] != "python developer" {
		t.Errorf("texts sent = %v", fake.texts)
	}
	if fake.config.OutputDimensionality == nil || *fake.config.OutputDimensionality != 2 {
		t.Errorf("OutputDimensionality = %v", fake.config.OutputDimensionality)
	}
	if len(res.Embeddings) != 2 || res.Embeddings[1][0] != 0.3 {
		t.Errorf("embeddings = %v", res.Embeddings)
	}
	// "python developer" is 16 chars, estimated as 4 tokens; the second reports 7.
	if res.TotalTokens != 11 {
		t.Errorf("TotalTokens = %d, want 11", res.TotalTokens)
	}
}

func TestEmbedder_Embed_Errors(t *testing.T) {
	tests := []struct {
		name        string
		fake        *fakeModels
		rateLimited bool
	}{
		{"api error", &fakeModels{err: genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}}, false},
		{"rate limit", &fakeModels{err: genai.APIError{Code: http.StatusTooManyRequests, Message: "quota"}}, true},
		{"transport", &fakeModels{err: errors.New("dial tcp: refused")}, false},
		{"no embeddings", &fakeModels{resp: &genai.EmbedContentResponse{}}, false},
		{"empty values", &fakeModels{resp: &genai.EmbedContentResponse{
			Embeddings: []*genai.ContentEmbedding{{}},
		}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newEmbedder(tt.fake, &Config{}).Embed(context.Background(), "text")
			if !errors.Is(err, domain.ErrEmbeddingProviderError) {
				t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
			}
			if errors.Is(err, domain.ErrRateLimited) != tt.rateLimited {
				t.Errorf("ErrRateLimited mismatch: %v", err)
			}
		})
	}
}

func TestEmbedder_HealthCheck(t *testing.T) {
	emb := newEmbedder(&fakeModels{}, &Config{Model: "custom"})
	if err := emb.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}

	emb = newEmbedder(&fakeModels{getErr: errors.New("404")}, &Config{})
	if err := emb.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected health check error")
	}
}

func TestNewEmbedder_RequiresKey(t *testing.T) {
	if _, err := NewEmbedder(context.Background(), &Config{APIKey: "  "}); err == nil {
		t.Fatal("expected error for blank api key")
	}
}

func TestEstimateTokens(t *testing.T) {
	for text, want := range map[string]int{"": 1, "abc": 1, "abcd": 1, "abcde": 2} {
		if got := estimateTokens(text); got != want {
			t.Errorf("estimateTokens(%q) = %d, want %d", text, got, want)
		}
	}
}
