// Package extraction turns raw document text into a structured Document and
// the feature vector the similarity engine scores.
package extraction

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/kailas-cloud/resumatch/internal/domain"
	"github.com/kailas-cloud/resumatch/internal/domain/document"
	"github.com/kailas-cloud/resumatch/internal/metrics"
	"github.com/kailas-cloud/resumatch/internal/textproc"
	"github.com/kailas-cloud/resumatch/internal/usecase/insight"
)

var tracer = otel.Tracer("github.com/kailas-cloud/resumatch/internal/usecase/extraction")

// Extract runs the full pipeline over raw. Empty input yields an empty document.
func Extract(raw string) document.Document {
	normalized := Normalize(raw)
	sections, confidence := Segment(normalized)
	contact := ExtractContact(normalized)
	skills := ExtractSkills(normalized)
	years := ExtractYearsExperience(normalized)

	doc := document.Document{
		RawText:           raw,
		NormalizedText:    normalized,
		Sections:          sections,
		SectionConfidence: confidence,
		ContactInfo:       contact,
		Entities:          ExtractEntities(normalized, contact),
		Skills:            skills,
		YearsExperience:   years,
		StructuredData:    ExtractStructured(normalized, years, skills[document.Certifications]),
		Keywords:          ExtractKeywords(normalized),
		Achievements:      ExtractAchievements(normalized),
	}
	doc.Tokens, doc.ProcessedTokens = textproc.Process(normalized)
	doc.Statistics = statistics(doc)
	doc.QualityScore = insight.QualityScore(doc, insight.Classify(doc))
	return doc
}

// Service wraps Extract with a size limit, tracing and metrics.
type Service struct {
	maxChars int
	logger   *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithMaxChars rejects documents longer than n characters. Zero disables the limit.
func WithMaxChars(n int) Option {
	return func(s *Service) { s.maxChars = n }
}

// New creates an extraction service.
func New(logger *zap.Logger, opts ...Option) *Service {
	s := &Service{logger: logger}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Extract processes rawText into a Document.
func (s *Service) Extract(ctx context.Context, rawText string) (*document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	if s.maxChars > 0 && len([]rune(rawText)) > s.maxChars {
		return nil, fmt.Errorf("extract %d chars (limit %d): %w",
			len([]rune(rawText)), s.maxChars, domain.ErrDocumentTooLarge)
	}

	_, span := tracer.Start(ctx, "extraction.Extract")
	defer span.End()

	start := time.Now()
	doc := Extract(rawText)
	elapsed := time.Since(start)
	metrics.ExtractionDuration.Observe(elapsed.Seconds())

	span.SetAttributes(
		attribute.Int("document.chars", doc.Statistics.CharacterCount),
		attribute.Int("document.sections", doc.Sections.Len()),
		attribute.Int("document.skills", doc.Statistics.SkillsFound),
	)
	s.logger.Debug("Document extracted",
		zap.Int("chars", doc.Statistics.CharacterCount),
		zap.Int("sections", doc.Sections.Len()),
		zap.Int("skills", doc.Statistics.SkillsFound),
		zap.Duration("duration", elapsed),
	)
	return &doc, nil
}
