package resumatch

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

// namedEmbedder is one semantic provider in fallback order.
type namedEmbedder struct {
	name     string
	embedder Embedder
}

type clientConfig struct {
	driver   string // "memory" (default) or "redis"
	addrs    []string
	password string

	embedders []namedEmbedder
	weights   map[string]float64

	maxBatchSize int
	timeout      time.Duration
	resultTTL    time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis keeps analyses and budget counters in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithEmbedder appends a semantic similarity provider. Providers are tried in
// the order given; TF-IDF always follows the last one.
func WithEmbedder(name string, e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedders = append(c.embedders, namedEmbedder{name: name, embedder: e})
	})
}

// WithWeights replaces the default scoring weights. Keys are component names
// such as "skill_match"; the values must sum to 1.
func WithWeights(w map[string]float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.weights = w
	})
}

// WithMaxBatchSize sets the maximum number of candidates per Rank call.
// Default: 10.
func WithMaxBatchSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxBatchSize = size
	})
}

// WithTimeout bounds a single Score call. Default: 30s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithResultTTL sets how long analyses stay retrievable through Get.
// Default: 24h.
func WithResultTTL(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.resultTTL = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
