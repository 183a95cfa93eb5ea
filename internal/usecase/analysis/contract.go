package analysis

import (
	"context"
	"time"

	domanalysis "github.com/kailas-cloud/resumatch/internal/domain/analysis"
	"github.com/kailas-cloud/resumatch/internal/domain/document"
	"github.com/kailas-cloud/resumatch/internal/domain/feature"
	domsim "github.com/kailas-cloud/resumatch/internal/domain/similarity"
)

// Extractor turns raw text into a document.
type Extractor interface {
	Extract(ctx context.Context, rawText string) (*document.Document, error)
}

// Scorer compares two feature vectors.
type Scorer interface {
	CalculateSimilarity(ctx context.Context, resume, job feature.Vector) domsim.Result
}

// ResultStore retains analyses and counts them.
type ResultStore interface {
	Save(ctx context.Context, a domanalysis.Analysis, ttl time.Duration) error
	Get(ctx context.Context, id string) (domanalysis.Analysis, error)
	Incr(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}

// ProviderLister reports semantic providers in evaluation order.
type ProviderLister interface {
	Providers() []string
}
