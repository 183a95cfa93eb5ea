package embedding

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumatch/internal/domain"
)

type mockBudgetStore struct {
	mu     sync.Mutex
	data   map[string]int64
	getErr error
	setErr error
}

func newMockBudgetStore() *mockBudgetStore {
	return &mockBudgetStore{data: make(map[string]int64)}
}

func (m *mockBudgetStore) IncrBy(_ context.Context, key string, val int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] += val
	return nil
}

func (m *mockBudgetStore) Get(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return 0, m.getErr
	}
	return m.data[key], nil
}

func (m *mockBudgetStore) value(key string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key]
}

// newTracker pins the tracker clock to *now.
func newTracker(limits BudgetLimits, now *time.Time) *BudgetTracker {
	bt := NewBudgetTracker("openai", "resumatch:", limits, zap.NewNop())
	bt.now = func() time.Time { return *now }
	bt.day, bt.month = truncateToDay(*now), truncateToMonth(*now)
	return bt
}

func TestBudgetTracker_Check(t *testing.T) {
	tests := []struct {
		name    string
		limits  BudgetLimits
		used    int64
		wantErr bool
	}{
		{"below daily", BudgetLimits{Daily: 1000, Monthly: 10000, Action: BudgetActionReject}, 500, false},
		{"daily reject", BudgetLimits{Daily: 100, Action: BudgetActionReject}, 100, true},
		{"monthly reject", BudgetLimits{Monthly: 500, Action: BudgetActionReject}, 500, true},
		{"warn allows", BudgetLimits{Daily: 100, Action: BudgetActionWarn}, 200, false},
		{"default action warns", BudgetLimits{Daily: 100}, 200, false},
		{"unlimited", BudgetLimits{Action: BudgetActionReject}, 999_999_999, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
			bt := newTracker(tt.limits, &now)
			bt.Record(tt.used)

			err := bt.Check(context.Background())
			if tt.wantErr != errors.Is(err, domain.ErrEmbeddingQuotaExceeded) {
				t.Fatalf("Check() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBudgetTracker_Remaining(t *testing.T) {
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	bt := newTracker(BudgetLimits{Daily: 1000, Monthly: 10000}, &now)
	bt.Record(300)

	if got := bt.RemainingDaily(); got != 700 {
		t.Errorf("RemainingDaily = %d, want 700", got)
	}
	if got := bt.RemainingMonthly(); got != 9700 {
		t.Errorf("RemainingMonthly = %d, want 9700", got)
	}

	bt.Record(5000)
	if got := bt.RemainingDaily(); got != 0 {
		t.Errorf("RemainingDaily after overrun = %d, want 0", got)
	}

	unlimited := newTracker(BudgetLimits{}, &now)
	if unlimited.RemainingDaily() != -1 || unlimited.RemainingMonthly() != -1 {
		t.Error("expected -1 for unlimited budget")
	}
}

func TestBudgetTracker_Rollover(t *testing.T) {
	now := time.Date(2026, 5, 31, 23, 0, 0, 0, time.UTC)
	bt := newTracker(BudgetLimits{Daily: 100, Monthly: 1000, Action: BudgetActionReject}, &now)
	bt.Record(100)

	if err := bt.Check(context.Background()); err == nil {
		t.Fatal("expected daily limit hit")
	}

	now = now.Add(2 * time.Hour) // June 1st
	if err := bt.Check(context.Background()); err != nil {
		t.Fatalf("expected fresh day and month, got %v", err)
	}
	if bt.DailyUsed() != 0 || bt.MonthlyUsed() != 0 {
		t.Errorf("counters not reset: %d/%d", bt.DailyUsed(), bt.MonthlyUsed())
	}
}

func TestBudgetTracker_WithStore(t *testing.T) {
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	store := newMockBudgetStore()
	store.data["resumatch:budget:openai:daily:2026-05-10"] = 300
	store.data["resumatch:budget:openai:monthly:2026-05"] = 5000

	bt := newTracker(BudgetLimits{Daily: 1000}, &now).WithStore(context.Background(), store)
	if bt.DailyUsed() != 300 || bt.MonthlyUsed() != 5000 {
		t.Fatalf("loaded %d/%d, want 300/5000", bt.DailyUsed(), bt.MonthlyUsed())
	}

	bt.Record(42)
	if got := store.value("resumatch:budget:openai:daily:2026-05-10"); got != 342 {
		t.Errorf("stored daily = %d, want 342", got)
	}
	if got := store.value("resumatch:budget:openai:monthly:2026-05"); got != 5042 {
		t.Errorf("stored monthly = %d, want 5042", got)
	}
}

func TestBudgetTracker_StoreErrors(t *testing.T) {
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	store := newMockBudgetStore()
	store.getErr = errors.New("connection refused")

	bt := newTracker(BudgetLimits{Daily: 1000}, &now).WithStore(context.Background(), store)
	if bt.DailyUsed() != 0 {
		t.Errorf("expected 0 after load error, got %d", bt.DailyUsed())
	}

	store.mu.Lock()
	store.setErr = errors.New("write timeout")
	store.mu.Unlock()

	bt.Record(50)
	if bt.DailyUsed() != 50 {
		t.Errorf("expected in-memory 50 despite store error, got %d", bt.DailyUsed())
	}
}
