package resumatch

import (
	"context"
	"time"

	domusage "github.com/kailas-cloud/resumatch/internal/domain/usage"
)

// UsagePeriod is the aggregation granularity for usage reports.
type UsagePeriod string

// UsagePeriod constants.
const (
	PeriodDay   UsagePeriod = "day"
	PeriodMonth UsagePeriod = "month"
)

// UsageReport contains one embedder's token usage for a time period.
type UsageReport struct {
	Provider    string
	Period      UsagePeriod
	PeriodStart time.Time
	PeriodEnd   time.Time
	Tokens      int64
	Budget      BudgetStatus
}

// BudgetStatus tracks token quota state. A zero limit means unlimited.
type BudgetStatus struct {
	TokensLimit     int64
	TokensRemaining int64
	IsExhausted     bool
	ResetsAt        time.Time
}

// Usage returns a report per configured embedder for the given period.
// Observer always records success: counters live in memory and reading
// them cannot fail.
func (c *Client) Usage(ctx context.Context, period UsagePeriod) []UsageReport {
	start := time.Now()
	defer func() { c.obs.observe("usage", start, nil) }()

	reports := c.usageSvc.GetReport(ctx, domusage.Period(period))
	out := make([]UsageReport, 0, len(reports))
	for _, r := range reports {
		b := r.Budget()
		out = append(out, UsageReport{
			Provider:    r.Provider(),
			Period:      UsagePeriod(r.Period()),
			PeriodStart: time.UnixMilli(r.PeriodStart()).UTC(),
			PeriodEnd:   time.UnixMilli(r.PeriodEnd()).UTC(),
			Tokens:      r.Tokens(),
			Budget: BudgetStatus{
				TokensLimit:     b.TokensLimit(),
				TokensRemaining: b.TokensRemaining(),
				IsExhausted:     b.IsExhausted(),
				ResetsAt:        time.UnixMilli(b.ResetsAt()).UTC(),
			},
		})
	}
	return out
}

// usageUseCase is the internal interface for usage reports.
type usageUseCase interface {
	GetReport(ctx context.Context, period domusage.Period) []domusage.Report
}
