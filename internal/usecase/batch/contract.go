package batch

import (
	"context"

	domanalysis "github.com/kailas-cloud/resumatch/internal/domain/analysis"
	"github.com/kailas-cloud/resumatch/internal/usecase/analysis"
)

// Analyzer scores one resume against a job description.
type Analyzer interface {
	Analyze(ctx context.Context, in analysis.Input) (domanalysis.Analysis, error)
}
