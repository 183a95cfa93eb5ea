package similarity

import "context"

// SemanticScorer picks a semantic provider per call and reports which one answered.
type SemanticScorer interface {
	Similarity(ctx context.Context, a, b string) (float64, string)
	Matrix(ctx context.Context, texts []string) ([][]float64, string)
}
