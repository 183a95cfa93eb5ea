package usage

import (
	"context"
	"testing"
	"time"

	domusage "github.com/kailas-cloud/resumatch/internal/domain/usage"
)

type mockBudgetReader struct {
	provider                   string
	dailyLimit, monthlyLimit   int64
	dailyUsed, monthlyUsed     int64
	dailyRemain, monthlyRemain int64
}

func (m *mockBudgetReader) Provider() string        { return m.provider }
func (m *mockBudgetReader) DailyLimit() int64       { return m.dailyLimit }
func (m *mockBudgetReader) MonthlyLimit() int64     { return m.monthlyLimit }
func (m *mockBudgetReader) DailyUsed() int64        { return m.dailyUsed }
func (m *mockBudgetReader) MonthlyUsed() int64      { return m.monthlyUsed }
func (m *mockBudgetReader) RemainingDaily() int64   { return m.dailyRemain }
func (m *mockBudgetReader) RemainingMonthly() int64 { return m.monthlyRemain }

func newTestService(sources ...Source) *Service {
	s := New(sources...)
	s.now = func() time.Time { return time.Date(2026, 2, 14, 15, 30, 0, 0, time.UTC) }
	return s
}

func TestGetReport_Day(t *testing.T) {
	openai := &mockBudgetReader{provider: "openai", dailyLimit: 1000, dailyUsed: 400, dailyRemain: 600}
	gemini := &mockBudgetReader{provider: "gemini", dailyLimit: 100, dailyUsed: 100, dailyRemain: 0}
	s := newTestService(
		Source{Budget: openai, Action: "reject", CostPerMillionTokens: 0.02},
		Source{Budget: gemini, Action: "warn"},
	)

	reports := s.GetReport(context.Background(), domusage.PeriodDay)
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}

	r := reports[0]
	if r.Provider() != "openai" || r.Tokens() != 400 {
		t.Errorf("report = %s/%d", r.Provider(), r.Tokens())
	}
	wantStart := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC).UnixMilli()
	if r.PeriodStart() != wantStart || r.PeriodEnd() != wantStart+24*3600*1000 {
		t.Errorf("period = [%d, %d)", r.PeriodStart(), r.PeriodEnd())
	}
	if r.Budget().TokensRemaining() != 600 || r.Budget().Action() != "reject" {
		t.Errorf("budget = %+v", r.Budget())
	}
	if !reports[1].Budget().IsExhausted() {
		t.Error("gemini budget should be exhausted")
	}
}

func TestGetReport_Month(t *testing.T) {
	br := &mockBudgetReader{provider: "openai", monthlyLimit: 10000, monthlyUsed: 2500, monthlyRemain: 7500}
	reports := newTestService(Source{Budget: br}).GetReport(context.Background(), domusage.PeriodMonth)

	r := reports[0]
	if r.Tokens() != 2500 || r.Budget().TokensLimit() != 10000 {
		t.Errorf("tokens=%d limit=%d", r.Tokens(), r.Budget().TokensLimit())
	}
	if want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).UnixMilli(); r.PeriodEnd() != want {
		t.Errorf("PeriodEnd = %d, want %d", r.PeriodEnd(), want)
	}
}

func TestGetReport_NoSources(t *testing.T) {
	if got := New().GetReport(context.Background(), domusage.PeriodDay); len(got) != 0 {
		t.Errorf("expected no reports, got %d", len(got))
	}
}
