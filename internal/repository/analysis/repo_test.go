package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/resumatch/internal/db/memory"
	"github.com/kailas-cloud/resumatch/internal/domain"
	domanalysis "github.com/kailas-cloud/resumatch/internal/domain/analysis"
	domsim "github.com/kailas-cloud/resumatch/internal/domain/similarity"
)

// failingStore returns err from every operation.
type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingStore) SetWithTTL(context.Context, string, []byte, time.Duration) error {
	return f.err
}
func (f failingStore) IncrBy(context.Context, string, int64) error { return f.err }

func TestRepo_SaveGet(t *testing.T) {
	ctx := context.Background()
	ms := memory.New()
	r := New(ms, "test:")

	a := domanalysis.Analysis{
		ID:        "abc",
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Similarity: domsim.Result{
			OverallScore:    72.5,
			ComponentScores: map[domsim.Component]float64{domsim.Skill: 0.8},
			MatchedSkills:   []string{"go"},
		},
	}
	if err := r.Save(ctx, a, time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := ms.Get(ctx, "test:analysis:abc"); err != nil {
		t.Fatalf("expected key test:analysis:abc: %v", err)
	}

	got, err := r.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Score() != 72.5 || got.Similarity.ComponentScores[domsim.Skill] != 0.8 {
		t.Errorf("round trip lost similarity: %+v", got.Similarity)
	}
	if !got.Timestamp.Equal(a.Timestamp) {
		t.Errorf("Timestamp = %v", got.Timestamp)
	}
}

func TestRepo_GetMissing(t *testing.T) {
	r := New(memory.New(), "test:")
	_, err := r.Get(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRepo_Counter(t *testing.T) {
	ctx := context.Background()
	r := New(memory.New(), "test:")

	n, err := r.Count(ctx)
	if err != nil || n != 0 {
		t.Fatalf("Count = %d, %v; want 0", n, err)
	}
	for range 3 {
		if err := r.Incr(ctx); err != nil {
			t.Fatalf("Incr: %v", err)
		}
	}
	if n, _ = r.Count(ctx); n != 3 {
		t.Errorf("Count = %d, want 3", n)
	}
}

func TestRepo_StoreErrors(t *testing.T) {
	boom := errors.New("boom")
	r := New(failingStore{err: boom}, "test:")
	ctx := context.Background()

	if err := r.Save(ctx, domanalysis.Analysis{ID: "x"}, 0); !errors.Is(err, boom) {
		t.Errorf("Save err = %v", err)
	}
	if _, err := r.Get(ctx, "x"); !errors.Is(err, boom) || errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get err = %v", err)
	}
	if _, err := r.Count(ctx); !errors.Is(err, boom) {
		t.Errorf("Count err = %v", err)
	}
}
