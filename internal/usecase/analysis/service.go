// Package analysis orchestrates extraction and scoring of one resume against
// one job description and retains the result.
package analysis

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/resumatch/internal/domain"
	domanalysis "github.com/kailas-cloud/resumatch/internal/domain/analysis"
	"github.com/kailas-cloud/resumatch/internal/domain/document"
	"github.com/kailas-cloud/resumatch/internal/metrics"
	"github.com/kailas-cloud/resumatch/internal/usecase/extraction"
	"github.com/kailas-cloud/resumatch/internal/usecase/insight"
)

// Input is one comparison request.
type Input struct {
	ResumeText string
	JobText    string
	FileName   string
	Extraction domanalysis.Extraction
}

// Service runs analyses.
type Service struct {
	extractor Extractor
	scorer    Scorer
	results   ResultStore
	providers ProviderLister
	timeout   time.Duration
	ttl       time.Duration
	logger    *zap.Logger

	count atomic.Int64 // used when no result store is configured
	now   func() time.Time
	newID func() string
}

// Option configures a Service.
type Option func(*Service)

// WithResultStore retains analyses for ttl and counts them in the store.
func WithResultStore(rs ResultStore, ttl time.Duration) Option {
	return func(s *Service) {
		s.results = rs
		s.ttl = ttl
	}
}

// WithTimeout bounds each Analyze call.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithProviders reports the semantic providers in Stats.
func WithProviders(p ProviderLister) Option {
	return func(s *Service) { s.providers = p }
}

// New creates an analysis service.
func New(extractor Extractor, scorer Scorer, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		extractor: extractor,
		scorer:    scorer,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     func() string { return uuid.New().String() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Analyze extracts both documents, scores them and stores the result.
// An empty job description is scored as 0 rather than rejected.
func (s *Service) Analyze(ctx context.Context, in Input) (domanalysis.Analysis, error) {
	a, err := s.analyze(ctx, in)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.AnalysesTotal.WithLabelValues(status).Inc()
	return a, err
}

func (s *Service) analyze(ctx context.Context, in Input) (domanalysis.Analysis, error) {
	if strings.TrimSpace(in.ResumeText) == "" {
		return domanalysis.Analysis{}, fmt.Errorf("resume text: %w", domain.ErrEmptyInput)
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	start := time.Now()

	var resume, job *document.Document
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		resume, err = s.extractor.Extract(gctx, in.ResumeText)
		if err != nil {
			return fmt.Errorf("extract resume: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		job, err = s.extractor.Extract(gctx, in.JobText)
		if err != nil {
			return fmt.Errorf("extract job description: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domanalysis.Analysis{}, err
	}

	resumeVec := extraction.BuildFeatureVector(*resume)
	jobVec := extraction.BuildFeatureVector(*job)
	result := s.scorer.CalculateSimilarity(ctx, resumeVec, jobVec)
	if err := ctx.Err(); err != nil {
		return domanalysis.Analysis{}, fmt.Errorf("analyze: %w", err)
	}
	if err := result.Err(); err != nil {
		s.logger.Warn("Scoring returned a zeroed result", zap.Error(err))
	}

	ext := in.Extraction
	if ext.FileName == "" {
		ext.FileName = in.FileName
	}
	if ext.FileType == "" {
		ext.FileType = "text"
	}
	if ext.Method == "" {
		ext.Method = "direct"
	}

	a := domanalysis.Analysis{
		ID:               s.newID(),
		Timestamp:        s.now(),
		Extraction:       ext,
		Resume:           report(*resume),
		Job:              report(*job),
		Similarity:       result,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}
	a.Resume.Features = resumeVec
	a.Job.Features = jobVec

	s.retain(ctx, a)

	s.logger.Info("Analysis completed",
		zap.String("analysis_id", a.ID),
		zap.Float64("score", a.Score()),
		zap.String("semantic_provider", result.SemanticProvider),
		zap.Int64("duration_ms", a.ProcessingTimeMs),
	)
	return a, nil
}

// retain stores a and bumps the counter. Storage failures are logged only:
// the caller still gets its result.
func (s *Service) retain(ctx context.Context, a domanalysis.Analysis) {
	if s.results == nil {
		s.count.Add(1)
		return
	}
	if err := s.results.Save(ctx, a, s.ttl); err != nil {
		s.logger.Warn("Failed to store analysis", zap.String("analysis_id", a.ID), zap.Error(err))
	}
	if err := s.results.Incr(ctx); err != nil {
		s.logger.Warn("Failed to count analysis", zap.Error(err))
	}
}

// Get returns a stored analysis.
func (s *Service) Get(ctx context.Context, id string) (domanalysis.Analysis, error) {
	if s.results == nil {
		return domanalysis.Analysis{}, fmt.Errorf("analysis %s: %w", id, domain.ErrNotFound)
	}
	a, err := s.results.Get(ctx, id)
	if err != nil {
		return domanalysis.Analysis{}, fmt.Errorf("get analysis: %w", err)
	}
	return a, nil
}

// Stats reports the analyses count and provider availability.
func (s *Service) Stats(ctx context.Context) (domanalysis.Stats, error) {
	st := domanalysis.Stats{Providers: []string{}, ResultStore: s.results != nil}
	if s.providers != nil {
		st.Providers = s.providers.Providers()
	}
	if s.results == nil {
		st.TotalAnalyses = s.count.Load()
		return st, nil
	}
	n, err := s.results.Count(ctx)
	if err != nil {
		return domanalysis.Stats{}, fmt.Errorf("count analyses: %w", err)
	}
	st.TotalAnalyses = n
	return st, nil
}

func report(doc document.Document) domanalysis.DocumentReport {
	return domanalysis.DocumentReport{
		Statistics:   doc.Statistics,
		Entities:     doc.Entities,
		Skills:       doc.Skills,
		Sections:     nonNilSections(doc.Sections.Names()),
		TextQuality:  insight.TextQuality(doc),
		QualityScore: doc.QualityScore,
	}
}

func nonNilSections(s []document.SectionName) []document.SectionName {
	if s == nil {
		return []document.SectionName{}
	}
	return s
}
