package usage

// BudgetReader provides read-only access to token budget state.
type BudgetReader interface {
	Provider() string
	DailyLimit() int64
	MonthlyLimit() int64
	DailyUsed() int64
	MonthlyUsed() int64
	RemainingDaily() int64
	RemainingMonthly() int64
}

// Source pairs a provider's budget with its price for cost estimates.
type Source struct {
	Budget               BudgetReader
	Action               string
	CostPerMillionTokens float64
}
