package embedding

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumatch/internal/domain"
)

// BudgetAction defines behavior when token budget is exceeded.
type BudgetAction string

const (
	// BudgetActionWarn logs a warning but allows the request.
	BudgetActionWarn BudgetAction = "warn"
	// BudgetActionReject blocks the request.
	BudgetActionReject BudgetAction = "reject"
)

// BudgetStore is the persistence interface for budget counters.
type BudgetStore interface {
	IncrBy(ctx context.Context, key string, val int64) error
	Get(ctx context.Context, key string) (int64, error)
}

// BudgetLimits configures one provider's token budget.
type BudgetLimits struct {
	Daily   int64 // 0 = unlimited
	Monthly int64 // 0 = unlimited
	Action  BudgetAction
}

// BudgetTracker keeps a provider's daily and monthly token counters in memory
// and writes increments behind to an optional store. Check never leaves memory.
type BudgetTracker struct {
	mu          sync.Mutex
	dailyUsed   int64
	monthlyUsed int64
	limits      BudgetLimits
	provider    string
	keyPrefix   string
	day         time.Time
	month       time.Time
	now         func() time.Time
	store       BudgetStore
	logger      *zap.Logger
}

// NewBudgetTracker creates a budget tracker. keyPrefix namespaces store keys.
func NewBudgetTracker(provider, keyPrefix string, limits BudgetLimits, logger *zap.Logger) *BudgetTracker {
	if limits.Action == "" {
		limits.Action = BudgetActionWarn
	}
	b := &BudgetTracker{
		limits:    limits,
		provider:  provider,
		keyPrefix: keyPrefix,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger,
	}
	now := b.now()
	b.day, b.month = truncateToDay(now), truncateToMonth(now)
	return b
}

// WithStore attaches a persistence store and loads the current period's counters.
func (b *BudgetTracker) WithStore(ctx context.Context, store BudgetStore) *BudgetTracker {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.store = store
	now := b.now()
	if val, err := store.Get(ctx, b.dailyKey(now)); err == nil {
		b.dailyUsed = val
	} else {
		b.logger.Warn("Failed to load daily budget from store", zap.String("provider", b.provider), zap.Error(err))
	}
	if val, err := store.Get(ctx, b.monthlyKey(now)); err == nil {
		b.monthlyUsed = val
	} else {
		b.logger.Warn("Failed to load monthly budget from store", zap.String("provider", b.provider), zap.Error(err))
	}

	b.logger.Info("Budget loaded from store",
		zap.String("provider", b.provider),
		zap.Int64("daily_used", b.dailyUsed),
		zap.Int64("monthly_used", b.monthlyUsed),
	)
	return b
}

func (b *BudgetTracker) dailyKey(t time.Time) string {
	return fmt.Sprintf("%sbudget:%s:daily:%s", b.keyPrefix, b.provider, t.Format("2006-01-02"))
}

func (b *BudgetTracker) monthlyKey(t time.Time) string {
	return fmt.Sprintf("%sbudget:%s:monthly:%s", b.keyPrefix, b.provider, t.Format("2006-01"))
}

// Check reports whether the budget allows another request.
func (b *BudgetTracker) Check(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rollover()

	dailyExceeded := b.limits.Daily > 0 && b.dailyUsed >= b.limits.Daily
	monthlyExceeded := b.limits.Monthly > 0 && b.monthlyUsed >= b.limits.Monthly
	if !dailyExceeded && !monthlyExceeded {
		return nil
	}

	if b.limits.Action == BudgetActionReject {
		return fmt.Errorf("%s: %w", b.provider, domain.ErrEmbeddingQuotaExceeded)
	}

	b.logger.Warn("Token budget exceeded",
		zap.String("provider", b.provider),
		zap.Int64("daily_used", b.dailyUsed),
		zap.Int64("daily_limit", b.limits.Daily),
		zap.Int64("monthly_used", b.monthlyUsed),
		zap.Int64("monthly_limit", b.limits.Monthly),
	)
	return nil
}

// Record adds consumed tokens in memory, then increments the store counters.
func (b *BudgetTracker) Record(tokens int64) {
	b.mu.Lock()
	b.rollover()
	b.dailyUsed += tokens
	b.monthlyUsed += tokens
	store := b.store
	now := b.now()
	b.mu.Unlock()

	if store == nil {
		return
	}

	// Detached from the request: a cancelled request still consumed the tokens.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for _, key := range []string{b.dailyKey(now), b.monthlyKey(now)} {
		if err := store.IncrBy(ctx, key, tokens); err != nil {
			b.logger.Warn("Failed to persist budget", zap.String("key", key), zap.Error(err))
		}
	}
}

// Provider returns the provider name the budget belongs to.
func (b *BudgetTracker) Provider() string { return b.provider }

// Action returns the configured exhaustion action.
func (b *BudgetTracker) Action() BudgetAction { return b.limits.Action }

// DailyLimit returns the daily token cap.
func (b *BudgetTracker) DailyLimit() int64 { return b.limits.Daily }

// MonthlyLimit returns the monthly token cap.
func (b *BudgetTracker) MonthlyLimit() int64 { return b.limits.Monthly }

// DailyUsed returns tokens consumed today.
func (b *BudgetTracker) DailyUsed() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollover()
	return b.dailyUsed
}

// MonthlyUsed returns tokens consumed this month.
func (b *BudgetTracker) MonthlyUsed() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollover()
	return b.monthlyUsed
}

// RemainingDaily returns tokens left in the daily budget (-1 if unlimited).
func (b *BudgetTracker) RemainingDaily() int64 {
	return remaining(b.limits.Daily, b.DailyUsed())
}

// RemainingMonthly returns tokens left in the monthly budget (-1 if unlimited).
func (b *BudgetTracker) RemainingMonthly() int64 {
	return remaining(b.limits.Monthly, b.MonthlyUsed())
}

func remaining(limit, used int64) int64 {
	if limit == 0 {
		return -1
	}
	return max(0, limit-used)
}

// rollover zeroes counters when the day or month changes. Callers hold mu.
func (b *BudgetTracker) rollover() {
	now := b.now()
	if today := truncateToDay(now); today.After(b.day) {
		b.dailyUsed = 0
		b.day = today
	}
	if thisMonth := truncateToMonth(now); thisMonth.After(b.month) {
		b.monthlyUsed = 0
		b.month = thisMonth
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func truncateToMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
