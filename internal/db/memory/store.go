// Package memory implements db.Store in process memory for single-node
// deployments and tests. Expired keys are dropped lazily on access.
package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/kailas-cloud/resumatch/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

type entry struct {
	value     []byte
	expiresAt time.Time // zero = no expiry
}

// Store is a mutex-guarded map with per-key TTL.
type Store struct {
	mu   sync.Mutex
	data map[string]entry
	now  func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{data: make(map[string]entry), now: time.Now}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close drops all keys.
func (s *Store) Close() {
	s.mu.Lock()
	s.data = make(map[string]entry)
	s.mu.Unlock()
}

// WaitForReady returns immediately.
func (s *Store) WaitForReady(context.Context, time.Duration) error { return nil }

// Get retrieves a value by key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

// Set stores a value without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.SetWithTTL(ctx, key, value, 0)
}

// SetWithTTL stores a value; ttl <= 0 means no expiry.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.data[key] = e
	s.mu.Unlock()
	return nil
}

// IncrBy increments the integer at key, creating it at zero. The TTL is kept.
func (s *Store) IncrBy(_ context.Context, key string, val int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	var cur int64
	if ok {
		n, err := strconv.ParseInt(string(e.value), 10, 64)
		if err != nil {
			return &db.Error{Op: db.OpIncrBy, Err: err}
		}
		cur = n
	}
	e.value = []byte(strconv.FormatInt(cur+val, 10))
	s.data[key] = e
	return nil
}

// Expire sets TTL on an existing key. With nx only keys without expiry are touched.
func (s *Store) Expire(_ context.Context, key string, ttl time.Duration, nx bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	if !ok || (nx && !e.expiresAt.IsZero()) {
		return nil
	}
	e.expiresAt = s.now().Add(ttl)
	s.data[key] = e
	return nil
}

// Del deletes a key.
func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

// live returns the entry at key, evicting it when expired. Callers hold mu.
func (s *Store) live(key string) (entry, bool) {
	e, ok := s.data[key]
	if !ok {
		return entry{}, false
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.data, key)
		return entry{}, false
	}
	return e, true
}
