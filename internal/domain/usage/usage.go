// Package usage describes embedding token consumption reports.
package usage

import "math"

// Period is the aggregation granularity.
type Period string

// Aggregation period constants.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// ParsePeriod maps a query value to a Period, defaulting to PeriodDay.
func ParsePeriod(s string) (Period, bool) {
	switch Period(s) {
	case "", PeriodDay:
		return PeriodDay, true
	case PeriodMonth:
		return PeriodMonth, true
	default:
		return "", false
	}
}

// Budget is a token budget snapshot.
type Budget struct {
	tokensLimit     int64
	tokensRemaining int64
	action          string
	resetsAt        int64 // unix millis
}

// NewBudget creates a Budget snapshot. limit 0 means unlimited.
func NewBudget(limit, remaining int64, action string, resetsAt int64) Budget {
	return Budget{tokensLimit: limit, tokensRemaining: remaining, action: action, resetsAt: resetsAt}
}

// TokensLimit returns the token cap (0 = unlimited).
func (b Budget) TokensLimit() int64 { return b.tokensLimit }

// TokensRemaining returns tokens left (-1 = unlimited).
func (b Budget) TokensRemaining() int64 { return b.tokensRemaining }

// IsExhausted reports whether a limited budget is spent.
func (b Budget) IsExhausted() bool { return b.tokensLimit > 0 && b.tokensRemaining <= 0 }

// Action returns what happens once exhausted: "warn" or "reject".
func (b Budget) Action() string { return b.action }

// ResetsAt returns the reset timestamp (unix millis).
func (b Budget) ResetsAt() int64 { return b.resetsAt }

// Report is one provider's usage for a period.
type Report struct {
	provider    string
	period      Period
	periodStart int64
	periodEnd   int64
	tokens      int64
	costMicros  int64
	budget      Budget
}

// NewReport creates a usage report. costPerMillion is the provider's USD price
// per million tokens; cost is kept in micro-dollars.
func NewReport(provider string, period Period, start, end, tokens int64, costPerMillion float64, b Budget) Report {
	return Report{
		provider:    provider,
		period:      period,
		periodStart: start,
		periodEnd:   end,
		tokens:      tokens,
		costMicros:  int64(math.Round(float64(tokens) * costPerMillion)),
		budget:      b,
	}
}

// Provider returns the embedding provider name.
func (r *Report) Provider() string { return r.provider }

// Period returns the aggregation granularity.
func (r *Report) Period() Period { return r.period }

// PeriodStart returns the period start timestamp (unix millis).
func (r *Report) PeriodStart() int64 { return r.periodStart }

// PeriodEnd returns the period end timestamp (unix millis).
func (r *Report) PeriodEnd() int64 { return r.periodEnd }

// Tokens returns the tokens consumed in the period.
func (r *Report) Tokens() int64 { return r.tokens }

// CostUSD returns the estimated spend in dollars.
func (r *Report) CostUSD() float64 { return float64(r.costMicros) / 1e6 }

// Budget returns the budget status.
func (r *Report) Budget() Budget { return r.budget }
