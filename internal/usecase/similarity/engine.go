// Package similarity scores a resume feature vector against a job feature
// vector and explains the result.
package similarity

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/kailas-cloud/resumatch/internal/domain"
	"github.com/kailas-cloud/resumatch/internal/domain/feature"
	domsim "github.com/kailas-cloud/resumatch/internal/domain/similarity"
	"github.com/kailas-cloud/resumatch/internal/metrics"
	"github.com/kailas-cloud/resumatch/internal/textproc"
)

var tracer = otel.Tracer("github.com/kailas-cloud/resumatch/internal/usecase/similarity")

// Aggregation curve: final = min(100, raw^boostExponent * 100 * boostFactor).
const (
	boostExponent = 0.75
	boostFactor   = 1.15
	maxScore      = 100.0
)

// Engine scores resume/job pairs. Weights are the only mutable state.
type Engine struct {
	mu       sync.RWMutex
	weights  domsim.Weights
	semantic SemanticScorer
	logger   *zap.Logger
}

// NewEngine validates weights and creates an engine.
func NewEngine(weights domsim.Weights, semantic SemanticScorer, logger *zap.Logger) (*Engine, error) {
	if weights == nil {
		weights = domsim.DefaultWeights()
	}
	if err := weights.Validate(domsim.ConfigSumTolerance); err != nil {
		return nil, fmt.Errorf("scoring weights: %w", err)
	}
	return &Engine{
		weights:  weights.Clone(),
		semantic: semantic,
		logger:   logger,
	}, nil
}

// Weights returns a copy of the current weights.
func (e *Engine) Weights() domsim.Weights {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.weights.Clone()
}

// UpdateWeights validates update on its own and merges it into the current
// weights. Components absent from update keep their value, so the merged sum
// can drift from 1; the drift is logged and reported in every result.
func (e *Engine) UpdateWeights(update domsim.Weights) error {
	if err := update.Validate(domsim.UpdateSumTolerance); err != nil {
		return err
	}

	e.mu.Lock()
	for c, w := range update {
		e.weights[c] = w
	}
	merged := e.weights.Clone()
	e.mu.Unlock()

	sum := merged.Sum()
	if math.Abs(sum-1) > domsim.UpdateSumTolerance {
		e.logger.Warn("Merged scoring weights no longer sum to 1",
			zap.Float64("sum", sum),
			zap.Any("weights", merged),
		)
	}
	e.logger.Info("Scoring weights updated", zap.Any("weights", merged))
	return nil
}

// CalculateSimilarity scores resume against job with the current weights.
// It never fails: internal faults produce a zeroed result carrying the error.
func (e *Engine) CalculateSimilarity(ctx context.Context, resume, job feature.Vector) domsim.Result {
	return e.CalculateWithWeights(ctx, resume, job, e.Weights())
}

// CalculateWithWeights scores resume against job with explicit weights.
// Components missing from weights contribute nothing.
func (e *Engine) CalculateWithWeights(
	ctx context.Context, resume, job feature.Vector, weights domsim.Weights,
) (res domsim.Result) {
	ctx, span := tracer.Start(ctx, "similarity.Calculate")
	defer span.End()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err := domain.NewScoringError("calculate", fmt.Errorf("panic: %v", r))
			e.logger.Error("Similarity calculation failed", zap.Error(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "scoring failed")
			res = domsim.Failed(err)
		}
	}()

	res = e.score(ctx, resume, job, weights)

	metrics.ScoringDuration.WithLabelValues(providerLabel(res.SemanticProvider)).Observe(time.Since(start).Seconds())
	metrics.ScoresTotal.WithLabelValues(string(res.DetailedAnalysis.OverallAssessment)).Inc()
	span.SetAttributes(
		attribute.Float64("score.overall", res.OverallScore),
		attribute.String("score.semantic_provider", res.SemanticProvider),
	)
	return res
}

func (e *Engine) score(ctx context.Context, resume, job feature.Vector, weights domsim.Weights) domsim.Result {
	skills := matchSkills(resume, job)

	scores := make(map[domsim.Component]float64, len(domsim.Components))
	var provider string
	if resume.IsEmpty() || job.IsEmpty() {
		for _, c := range domsim.Components {
			scores[c] = 0
		}
	} else {
		scores[domsim.Semantic], provider = e.semanticScore(ctx, resume, job)
		scores[domsim.Skill] = skills.score
		scores[domsim.Experience] = matchExperience(resume, job)
		scores[domsim.Education] = matchEducation(resume, job)
		scores[domsim.Keyword] = matchKeywords(resume, job)
	}

	var raw float64
	for _, c := range domsim.Components {
		raw += scores[c] * weights[c]
	}
	overall := aggregate(raw)

	return domsim.Result{
		OverallScore:     overall,
		ComponentScores:  scores,
		MatchedSkills:    skills.matched,
		MissingSkills:    skills.missing,
		DetailedAnalysis: analyze(scores, overall),
		Recommendations:  recommend(scores, skills.missing),
		SemanticProvider: provider,
		WeightsSum:       weights.Sum(),
	}
}

func (e *Engine) semanticScore(ctx context.Context, resume, job feature.Vector) (float64, string) {
	if e.semantic == nil {
		return 0, ""
	}
	return e.semantic.Similarity(ctx, resume.Text.ProcessedText, job.Text.ProcessedText)
}

// aggregate applies the boost curve to a weighted sum and rounds to 2 decimals.
func aggregate(raw float64) float64 {
	if raw <= 0 || math.IsNaN(raw) {
		return 0
	}
	final := min(maxScore, math.Pow(raw, boostExponent)*100*boostFactor)
	return math.Round(final*100) / 100
}

// SimilarityMatrix returns pairwise similarities of texts and the provider used.
func (e *Engine) SimilarityMatrix(ctx context.Context, texts []string) ([][]float64, string) {
	ctx, span := tracer.Start(ctx, "similarity.Matrix")
	defer span.End()
	span.SetAttributes(attribute.Int("texts", len(texts)))

	if len(texts) == 0 {
		return [][]float64{}, ""
	}
	if e.semantic == nil {
		return textproc.SimilarityMatrix(texts), "tfidf"
	}
	return e.semantic.Matrix(ctx, texts)
}

func providerLabel(name string) string {
	if name == "" {
		return "none"
	}
	return name
}
