// Package batch ranks several resumes against one job description.
package batch

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/resumatch/internal/domain"
	domanalysis "github.com/kailas-cloud/resumatch/internal/domain/analysis"
	dombatch "github.com/kailas-cloud/resumatch/internal/domain/batch"
	"github.com/kailas-cloud/resumatch/internal/usecase/analysis"
)

// Defaults for batch limits.
const (
	MaxBatchSize       = 10
	DefaultConcurrency = 4
)

// Item is one resume in a batch.
type Item struct {
	Name       string
	Text       string
	Extraction domanalysis.Extraction
	// Err marks an item that failed before analysis, e.g. undecodable upload.
	Err error
}

// Service handles batch ranking with per-item error reporting.
type Service struct {
	analyzer     Analyzer
	maxBatchSize int
	concurrency  int
	logger       *zap.Logger
}

// New creates a batch service.
func New(analyzer Analyzer, logger *zap.Logger) *Service {
	return &Service{
		analyzer:     analyzer,
		maxBatchSize: MaxBatchSize,
		concurrency:  DefaultConcurrency,
		logger:       logger,
	}
}

// WithMaxBatchSize configures the maximum batch size.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// WithConcurrency configures how many resumes are analysed at once.
func (s *Service) WithConcurrency(n int) *Service {
	if n > 0 {
		s.concurrency = n
	}
	return s
}

// MaxBatchSize returns the configured limit.
func (s *Service) MaxBatchSize() int { return s.maxBatchSize }

// Rank analyses every item against jobText. Item failures are reported in
// the result list; only an oversized or empty batch fails as a whole.
func (s *Service) Rank(ctx context.Context, jobText string, items []Item) (dombatch.Report, error) {
	if len(items) == 0 {
		return dombatch.Report{}, fmt.Errorf("no resumes: %w", domain.ErrEmptyInput)
	}
	if len(items) > s.maxBatchSize {
		return dombatch.Report{}, fmt.Errorf("batch of %d exceeds %d: %w",
			len(items), s.maxBatchSize, domain.ErrBatchTooLarge)
	}

	results := make([]dombatch.Result, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, item := range items {
		if item.Err != nil {
			results[i] = dombatch.NewError(item.Name, i, item.Err)
			continue
		}
		g.Go(func() error {
			a, err := s.analyzer.Analyze(gctx, analysis.Input{
				ResumeText: item.Text,
				JobText:    jobText,
				FileName:   item.Name,
				Extraction: item.Extraction,
			})
			if err != nil {
				results[i] = dombatch.NewError(item.Name, i, err)
				return nil
			}
			results[i] = dombatch.NewOK(item.Name, i, a)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	report := rank(results)
	s.logger.Info("Batch ranked",
		zap.Int("total", report.Total),
		zap.Int("successful", report.Successful),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

func rank(results []dombatch.Result) dombatch.Report {
	ok := make([]dombatch.Result, 0, len(results))
	var failed []dombatch.Result
	for _, r := range results {
		if r.Status() == dombatch.StatusOK {
			ok = append(ok, r)
		} else {
			failed = append(failed, r)
		}
	}
	sort.SliceStable(ok, func(i, j int) bool { return ok[i].Score() > ok[j].Score() })

	return dombatch.Report{
		Total:      len(results),
		Successful: len(ok),
		Failed:     len(failed),
		Results:    append(ok, failed...),
	}
}
