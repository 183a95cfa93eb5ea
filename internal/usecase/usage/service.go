// Package usage builds embedding token usage reports per provider.
package usage

import (
	"context"
	"time"

	domusage "github.com/kailas-cloud/resumatch/internal/domain/usage"
)

// Service handles usage reporting.
type Service struct {
	sources []Source
	now     func() time.Time
}

// New creates a Service. With no sources reports are empty.
func New(sources ...Source) *Service {
	return &Service{sources: sources, now: func() time.Time { return time.Now().UTC() }}
}

// GetReport returns one report per provider for the period, in configuration order.
func (s *Service) GetReport(_ context.Context, period domusage.Period) []domusage.Report {
	now := s.now()
	var start, end time.Time
	switch period {
	case domusage.PeriodMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0)
	default:
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		end = start.Add(24 * time.Hour)
	}

	reports := make([]domusage.Report, 0, len(s.sources))
	for _, src := range s.sources {
		br := src.Budget
		var limit, used, remaining int64
		if period == domusage.PeriodMonth {
			limit, used, remaining = br.MonthlyLimit(), br.MonthlyUsed(), br.RemainingMonthly()
		} else {
			limit, used, remaining = br.DailyLimit(), br.DailyUsed(), br.RemainingDaily()
		}
		b := domusage.NewBudget(limit, remaining, src.Action, end.UnixMilli())
		reports = append(reports, domusage.NewReport(
			br.Provider(), period, start.UnixMilli(), end.UnixMilli(), used, src.CostPerMillionTokens, b,
		))
	}
	return reports
}
