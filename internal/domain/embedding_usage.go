package domain

import (
	"context"
	"sync"
)

type embeddingUsageKey struct{}

// EmbeddingUsage collects token usage for a single request. The handler puts
// it into the context, embedders add to it (possibly from several goroutines
// during a batch), and the handler reads it for response headers.
type EmbeddingUsage struct {
	mu     sync.Mutex
	tokens int
	used   bool
}

// NewContextWithUsage returns a context with an embedded usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *EmbeddingUsage) {
	u := &EmbeddingUsage{}
	return context.WithValue(ctx, embeddingUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *EmbeddingUsage {
	u, _ := ctx.Value(embeddingUsageKey{}).(*EmbeddingUsage)
	return u
}

// AddTokens records consumed tokens. A zero add still marks the collector as
// used, which is how cache hits show up.
func (u *EmbeddingUsage) AddTokens(n int) {
	if u == nil {
		return
	}
	u.mu.Lock()
	u.tokens += n
	u.used = true
	u.mu.Unlock()
}

// Tokens returns the tokens recorded so far and whether any embedding call happened.
func (u *EmbeddingUsage) Tokens() (total int, used bool) {
	if u == nil {
		return 0, false
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.tokens, u.used
}
