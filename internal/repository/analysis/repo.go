// Package analysis persists analysis records as JSON in the key-value store.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/resumatch/internal/db"
	"github.com/kailas-cloud/resumatch/internal/domain"
	domanalysis "github.com/kailas-cloud/resumatch/internal/domain/analysis"
)

// store is the consumer interface for analyses (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	IncrBy(ctx context.Context, key string, val int64) error
}

// Repo implements usecase/analysis.ResultStore.
type Repo struct {
	store  store
	prefix string
}

// New creates an analysis repository. keyPrefix namespaces every key.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix}
}

// Save stores a under its ID. A zero ttl keeps it forever.
func (r *Repo) Save(ctx context.Context, a domanalysis.Analysis, ttl time.Duration) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	key := r.analysisKey(a.ID)
	if err := r.store.SetWithTTL(ctx, key, data, ttl); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Get returns the analysis with the given ID.
func (r *Repo) Get(ctx context.Context, id string) (domanalysis.Analysis, error) {
	key := r.analysisKey(id)
	raw, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domanalysis.Analysis{}, fmt.Errorf("analysis %s: %w", id, domain.ErrNotFound)
		}
		return domanalysis.Analysis{}, fmt.Errorf("get %s: %w", key, err)
	}

	var a domanalysis.Analysis
	if err := json.Unmarshal(raw, &a); err != nil {
		return domanalysis.Analysis{}, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return a, nil
}

// Incr bumps the total analyses counter.
func (r *Repo) Incr(ctx context.Context) error {
	if err := r.store.IncrBy(ctx, r.counterKey(), 1); err != nil {
		return fmt.Errorf("incr analyses counter: %w", err)
	}
	return nil
}

// Count returns the total analyses counter, 0 when never incremented.
func (r *Repo) Count(ctx context.Context) (int64, error) {
	raw, err := r.store.Get(ctx, r.counterKey())
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("get analyses counter: %w", err)
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse analyses counter: %w", err)
	}
	return n, nil
}

func (r *Repo) analysisKey(id string) string { return r.prefix + "analysis:" + id }

func (r *Repo) counterKey() string { return r.prefix + "stats:analyses_total" }
