package similarity

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/resumatch/internal/domain"
)

// Component names one of the five fixed scoring components.
type Component string

// Scoring components.
const (
	Semantic   Component = "semantic_similarity"
	Skill      Component = "skill_match"
	Experience Component = "experience_match"
	Education  Component = "education_match"
	Keyword    Component = "keyword_match"
)

// Components lists the scoring components in evaluation order.
var Components = []Component{Semantic, Skill, Experience, Education, Keyword}

// Known reports whether c is one of the fixed components.
func (c Component) Known() bool {
	for _, k := range Components {
		if k == c {
			return true
		}
	}
	return false
}

// Tolerances for weight sums.
const (
	ConfigSumTolerance = 1e-3
	UpdateSumTolerance = 1e-6
)

// Weights maps a component to its aggregation weight.
type Weights map[Component]float64

// DefaultWeights returns the stock weighting.
func DefaultWeights() Weights {
	return Weights{
		Semantic:   0.25,
		Skill:      0.40,
		Experience: 0.15,
		Education:  0.05,
		Keyword:    0.15,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	var s float64
	for _, v := range w {
		s += v
	}
	return s
}

// Clone returns an independent copy.
func (w Weights) Clone() Weights {
	out := make(Weights, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// Validate checks that every key is a known component and that the values
// sum to 1 within tolerance.
func (w Weights) Validate(tolerance float64) error {
	for c, v := range w {
		if !c.Known() {
			return &domain.UnknownComponentError{Component: string(c)}
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s weight must be a non-negative number, got %v", domain.ErrInvalidWeights, c, v)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1) > tolerance {
		return &domain.WeightSumError{Sum: sum}
	}
	return nil
}
