package resumatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumatch/internal/db"
	"github.com/kailas-cloud/resumatch/internal/db/memory"
	dbRedis "github.com/kailas-cloud/resumatch/internal/db/redis"
	domanalysis "github.com/kailas-cloud/resumatch/internal/domain/analysis"
	dombatch "github.com/kailas-cloud/resumatch/internal/domain/batch"
	domsim "github.com/kailas-cloud/resumatch/internal/domain/similarity"
	repoanalysis "github.com/kailas-cloud/resumatch/internal/repository/analysis"
	budgetrepo "github.com/kailas-cloud/resumatch/internal/repository/budget"
	analysisuc "github.com/kailas-cloud/resumatch/internal/usecase/analysis"
	batchuc "github.com/kailas-cloud/resumatch/internal/usecase/batch"
	embeddinguc "github.com/kailas-cloud/resumatch/internal/usecase/embedding"
	"github.com/kailas-cloud/resumatch/internal/usecase/extraction"
	healthuc "github.com/kailas-cloud/resumatch/internal/usecase/health"
	"github.com/kailas-cloud/resumatch/internal/usecase/semantic"
	"github.com/kailas-cloud/resumatch/internal/usecase/similarity"
	usageuc "github.com/kailas-cloud/resumatch/internal/usecase/usage"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultTimeout          = 30 * time.Second
	defaultResultTTL        = 24 * time.Hour
	keyPrefix               = "resumatch:"
)

// Internal interfaces for substitution in tests.
type analysisUseCase interface {
	Analyze(ctx context.Context, in analysisuc.Input) (domanalysis.Analysis, error)
	Get(ctx context.Context, id string) (domanalysis.Analysis, error)
}

type batchUseCase interface {
	Rank(ctx context.Context, jobText string, items []batchuc.Item) (dombatch.Report, error)
}

type weightsUseCase interface {
	Weights() domsim.Weights
	UpdateWeights(update domsim.Weights) error
}

// Client is the resumatch SDK entry point.
type Client struct {
	store       db.Store
	analysisSvc analysisUseCase
	batchSvc    batchUseCase
	weightsSvc  weightsUseCase
	healthSvc   healthUseCase
	usageSvc    usageUseCase
	providers   []string
	obs         *observer
}

// New creates a Client. Without WithRedis everything is kept in process
// memory. The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		driver:    "memory",
		timeout:   defaultTimeout,
		resultTTL: defaultResultTTL,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("resumatch: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	c, err := wireClient(ctx, store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "memory":
		return memory.New(), nil
	case "redis":
		if len(cfg.addrs) == 0 || cfg.addrs[0] == "" {
			return nil, errors.New("resumatch: redis address required")
		}
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("resumatch: create redis store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("resumatch: unknown driver %q", cfg.driver)
	}
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	logger := zap.NewNop()

	budgets := budgetrepo.New(store, 48*time.Hour, 62*24*time.Hour)
	providers := make([]semantic.Provider, 0, len(cfg.embedders))
	sources := make([]usageuc.Source, 0, len(cfg.embedders))
	named := make([]healthuc.Named, 0, len(cfg.embedders))
	for _, ne := range cfg.embedders {
		if ne.embedder == nil {
			continue
		}
		// Unlimited budget: the tracker only counts tokens for Usage.
		budget := embeddinguc.NewBudgetTracker(ne.name, keyPrefix, embeddinguc.BudgetLimits{}, logger).
			WithStore(ctx, budgets)
		emb := embeddinguc.NewInstrumentedEmbedder(adaptEmbedder(ne.embedder), ne.name, "", budget, logger)

		providers = append(providers, semantic.NewEmbeddingProvider(ne.name, emb))
		sources = append(sources, usageuc.Source{Budget: budget, Action: string(budget.Action())})
		named = append(named, healthuc.Named{Name: ne.name, Checker: emb})
	}
	chain := semantic.NewChain(logger, providers...)

	var weights domsim.Weights
	if len(cfg.weights) > 0 {
		weights = toWeights(cfg.weights)
	}
	engine, err := similarity.NewEngine(weights, chain, logger)
	if err != nil {
		return nil, fmt.Errorf("resumatch: %w", err)
	}

	analysisSvc := analysisuc.New(extraction.New(logger), engine, logger,
		analysisuc.WithResultStore(repoanalysis.New(store, keyPrefix), cfg.resultTTL),
		analysisuc.WithTimeout(cfg.timeout),
		analysisuc.WithProviders(chain),
	)
	batchSvc := batchuc.New(analysisSvc, logger)
	if cfg.maxBatchSize > 0 {
		batchSvc = batchSvc.WithMaxBatchSize(cfg.maxBatchSize)
	}

	return &Client{
		store:       store,
		analysisSvc: analysisSvc,
		batchSvc:    batchSvc,
		weightsSvc:  engine,
		healthSvc:   healthuc.New(store, named...),
		usageSvc:    usageuc.New(sources...),
		providers:   chain.Providers(),
		obs:         obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Providers returns semantic provider names in fallback order.
func (c *Client) Providers() []string {
	out := make([]string, len(c.providers))
	copy(out, c.providers)
	return out
}

func toWeights(m map[string]float64) domsim.Weights {
	w := make(domsim.Weights, len(m))
	for k, v := range m {
		w[domsim.Component(k)] = v
	}
	return w
}
