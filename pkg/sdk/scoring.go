package resumatch

import (
	"context"
	"fmt"
	"time"

	domanalysis "github.com/kailas-cloud/resumatch/internal/domain/analysis"
	dombatch "github.com/kailas-cloud/resumatch/internal/domain/batch"
	analysisuc "github.com/kailas-cloud/resumatch/internal/usecase/analysis"
	batchuc "github.com/kailas-cloud/resumatch/internal/usecase/batch"
)

// Score compares a resume with a job description. An empty job description
// scores 0; an empty resume is ErrEmptyInput.
func (c *Client) Score(ctx context.Context, resume, job string) (m Match, err error) {
	start := time.Now()
	defer func() { c.obs.observe("score", start, err) }()

	a, err := c.analysisSvc.Analyze(ctx, analysisuc.Input{ResumeText: resume, JobText: job})
	if err != nil {
		return Match{}, fmt.Errorf("score: %w", err)
	}
	return toMatch(a), nil
}

// Get returns a previously scored match by ID.
func (c *Client) Get(ctx context.Context, id string) (m Match, err error) {
	start := time.Now()
	defer func() { c.obs.observe("get", start, err) }()

	a, err := c.analysisSvc.Get(ctx, id)
	if err != nil {
		return Match{}, fmt.Errorf("get %s: %w", id, err)
	}
	return toMatch(a), nil
}

// Rank scores every candidate against job and orders them best first.
// A failing candidate does not fail the call; its Ranked carries the error.
func (c *Client) Rank(ctx context.Context, job string, candidates []Candidate) (ranked []Ranked, err error) {
	start := time.Now()
	defer func() { c.obs.observe("rank", start, err) }()

	items := make([]batchuc.Item, len(candidates))
	for i, cand := range candidates {
		items[i] = batchuc.Item{Name: cand.Name, Text: cand.Text}
	}
	report, err := c.batchSvc.Rank(ctx, job, items)
	if err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}

	ranked = make([]Ranked, len(report.Results))
	for i, r := range report.Results {
		ranked[i] = Ranked{Name: r.Name(), Index: r.Index(), Err: r.Err()}
		if r.Status() == dombatch.StatusOK {
			ranked[i].OK = true
			ranked[i].Match = toMatch(r.Analysis())
		}
	}
	return ranked, nil
}

// Weights returns the current scoring weights by component name.
func (c *Client) Weights() map[string]float64 {
	w := c.weightsSvc.Weights()
	out := make(map[string]float64, len(w))
	for k, v := range w {
		out[string(k)] = v
	}
	return out
}

// SetWeights merges update into the current weights. The update alone must
// sum to 1; components it omits keep their value.
func (c *Client) SetWeights(update map[string]float64) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("weights.update", start, err) }()

	if err = c.weightsSvc.UpdateWeights(toWeights(update)); err != nil {
		return fmt.Errorf("set weights: %w", err)
	}
	return nil
}

func toMatch(a domanalysis.Analysis) Match {
	sim := a.Similarity
	components := make(map[string]float64, len(sim.ComponentScores))
	for k, v := range sim.ComponentScores {
		components[string(k)] = v
	}
	return Match{
		ID:              a.ID,
		Score:           sim.OverallScore,
		Components:      components,
		MatchedSkills:   sim.MatchedSkills,
		MissingSkills:   sim.MissingSkills,
		Assessment:      string(sim.DetailedAnalysis.OverallAssessment),
		Strengths:       sim.DetailedAnalysis.Strengths,
		Weaknesses:      sim.DetailedAnalysis.Weaknesses,
		Recommendations: sim.Recommendations,
		Provider:        sim.SemanticProvider,
		ResumeQuality:   a.Resume.QualityScore,
		CreatedAt:       a.Timestamp,
		Duration:        time.Duration(a.ProcessingTimeMs) * time.Millisecond,
	}
}
