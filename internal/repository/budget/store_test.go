package budget

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/resumatch/internal/db"
	"github.com/kailas-cloud/resumatch/internal/db/memory"
)

type expireCall struct {
	key string
	ttl time.Duration
	nx  bool
}

// recordingStore wraps the memory store and records Expire calls.
type recordingStore struct {
	*memory.Store
	expires []expireCall
	incrErr error
}

func (r *recordingStore) IncrBy(ctx context.Context, key string, val int64) error {
	if r.incrErr != nil {
		return r.incrErr
	}
	return r.Store.IncrBy(ctx, key, val)
}

func (r *recordingStore) Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error {
	r.expires = append(r.expires, expireCall{key, ttl, nx})
	return r.Store.Expire(ctx, key, ttl, nx)
}

func TestStore_IncrByAndGet(t *testing.T) {
	rs := &recordingStore{Store: memory.New()}
	s := New(rs, 0, 0)
	ctx := context.Background()

	daily := "resumatch:budget:openai:daily:2026-05-10"
	monthly := "resumatch:budget:openai:monthly:2026-05"

	if err := s.IncrBy(ctx, daily, 40); err != nil {
		t.Fatal(err)
	}
	if err := s.IncrBy(ctx, daily, 2); err != nil {
		t.Fatal(err)
	}
	if err := s.IncrBy(ctx, monthly, 42); err != nil {
		t.Fatal(err)
	}

	if got, _ := s.Get(ctx, daily); got != 42 {
		t.Errorf("daily = %d, want 42", got)
	}
	if rs.expires[0].ttl != DefaultDailyTTL || !rs.expires[0].nx {
		t.Errorf("daily expire = %+v", rs.expires[0])
	}
	if rs.expires[2].ttl != DefaultMonthlyTTL {
		t.Errorf("monthly expire = %+v", rs.expires[2])
	}
}

func TestStore_GetMissingIsZero(t *testing.T) {
	s := New(memory.New(), time.Hour, time.Hour)
	got, err := s.Get(context.Background(), "missing")
	if err != nil || got != 0 {
		t.Fatalf("Get(missing) = %d, %v", got, err)
	}
}

func TestStore_Errors(t *testing.T) {
	ctx := context.Background()
	ms := memory.New()
	_ = ms.Set(ctx, "garbage", []byte("abc"))

	s := New(ms, 0, 0)
	if _, err := s.Get(ctx, "garbage"); err == nil {
		t.Error("expected parse error")
	}

	incrErr := &db.Error{Op: db.OpIncrBy, Err: errors.New("READONLY")}
	failing := New(&recordingStore{Store: memory.New(), incrErr: incrErr}, 0, 0)
	if err := failing.IncrBy(ctx, "k:daily:x", 1); !errors.Is(err, incrErr) {
		t.Errorf("expected wrapped INCRBY error, got %v", err)
	}
}
