package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumatch/internal/config"
	"github.com/kailas-cloud/resumatch/internal/db"
	"github.com/kailas-cloud/resumatch/internal/db/memory"
	dbRedis "github.com/kailas-cloud/resumatch/internal/db/redis"
	"github.com/kailas-cloud/resumatch/internal/decode"
	"github.com/kailas-cloud/resumatch/internal/domain"
	"github.com/kailas-cloud/resumatch/internal/metrics"
	repoanalysis "github.com/kailas-cloud/resumatch/internal/repository/analysis"
	budgetrepo "github.com/kailas-cloud/resumatch/internal/repository/budget"
	"github.com/kailas-cloud/resumatch/internal/repository/embcache"
	chiTransport "github.com/kailas-cloud/resumatch/internal/transport/chi"
	geminiEmb "github.com/kailas-cloud/resumatch/internal/transport/gemini"
	openaiEmb "github.com/kailas-cloud/resumatch/internal/transport/openai"
	analysisuc "github.com/kailas-cloud/resumatch/internal/usecase/analysis"
	batchuc "github.com/kailas-cloud/resumatch/internal/usecase/batch"
	embeddinguc "github.com/kailas-cloud/resumatch/internal/usecase/embedding"
	"github.com/kailas-cloud/resumatch/internal/usecase/extraction"
	healthuc "github.com/kailas-cloud/resumatch/internal/usecase/health"
	"github.com/kailas-cloud/resumatch/internal/usecase/semantic"
	"github.com/kailas-cloud/resumatch/internal/usecase/similarity"
	usageuc "github.com/kailas-cloud/resumatch/internal/usecase/usage"
)

// Budget counters outlive their period so a restart near midnight still
// reads yesterday's total.
const (
	dailyCounterTTL   = 48 * time.Hour
	monthlyCounterTTL = 62 * 24 * time.Hour
)

// app is the composition root shared by every subcommand.
type app struct {
	cfg       config.Config
	logger    *zap.Logger
	store     db.Store
	chain     *semantic.Chain
	engine    *similarity.Engine
	extractor *extraction.Service
	analysis  *analysisuc.Service
	batch     *batchuc.Service
	usage     *usageuc.Service
	health    *healthuc.Service
	decoder   *decode.Decoder
}

// provider is one assembled embedding provider with its budget.
type provider struct {
	name     string
	embedder *embeddinguc.InstrumentedEmbedder
	budget   *embeddinguc.BudgetTracker
	cost     float64
}

// buildApp connects storage, assembles embedding providers and wires services.
func buildApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterScoringMetrics()

	providers := make([]provider, 0, len(cfg.Embedding.Providers))
	for _, pc := range cfg.Embedding.Providers {
		p, err := buildProvider(ctx, cfg, pc, store, logger)
		if err != nil {
			store.Close()
			return nil, err
		}
		providers = append(providers, p)
	}

	semProviders := make([]semantic.Provider, 0, len(providers))
	sources := make([]usageuc.Source, 0, len(providers))
	named := make([]healthuc.Named, 0, len(providers))
	for _, p := range providers {
		semProviders = append(semProviders, semantic.NewEmbeddingProvider(p.name, p.embedder))
		sources = append(sources, usageuc.Source{
			Budget:               p.budget,
			Action:               string(p.budget.Action()),
			CostPerMillionTokens: p.cost,
		})
		named = append(named, healthuc.Named{Name: p.name, Checker: p.embedder})
	}
	chain := semantic.NewChain(logger, semProviders...)

	engine, err := similarity.NewEngine(cfg.Weights(), chain, logger)
	if err != nil {
		store.Close()
		return nil, err
	}

	extractor := extraction.New(logger, extraction.WithMaxChars(cfg.Analysis.MaxDocumentChars))
	analysisSvc := analysisuc.New(extractor, engine, logger,
		analysisuc.WithResultStore(
			repoanalysis.New(store, cfg.Storage.KeyPrefix),
			time.Duration(cfg.Analysis.ResultTTLSec)*time.Second,
		),
		analysisuc.WithTimeout(time.Duration(cfg.Analysis.TimeoutSec)*time.Second),
		analysisuc.WithProviders(chain),
	)
	batchSvc := batchuc.New(analysisSvc, logger).
		WithMaxBatchSize(cfg.Analysis.MaxBatchSize).
		WithConcurrency(cfg.Analysis.BatchConcurrency)

	logger.Info("Scoring engine ready",
		zap.Strings("semantic_providers", chain.Providers()),
		zap.Float64("weights_sum", engine.Weights().Sum()),
	)

	return &app{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		chain:     chain,
		engine:    engine,
		extractor: extractor,
		analysis:  analysisSvc,
		batch:     batchSvc,
		usage:     usageuc.New(sources...),
		health:    healthuc.New(store, named...),
		decoder:   decode.New(cfg.Analysis.MaxUploadBytes),
	}, nil
}

// Close releases the store connection.
func (a *app) Close() {
	a.store.Close()
}

// server builds the HTTP handler for the serve command.
func (a *app) server() *chiTransport.Server {
	return chiTransport.NewServer(chiTransport.Deps{
		Analysis:       a.analysis,
		Batch:          a.batch,
		Extractor:      a.extractor,
		Engine:         a.engine,
		Usage:          a.usage,
		Health:         a.health,
		Decoder:        a.decoder,
		MaxUploadBytes: a.cfg.Analysis.MaxUploadBytes,
	}, a.logger)
}

func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (db.Store, error) {
	var (
		store db.Store
		err   error
	)
	switch cfg.Database.Driver {
	case "redis":
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
	case "memory":
		store = memory.New()
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s store: %w", cfg.Database.Driver, err)
	}

	timeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, timeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to database", zap.String("driver", cfg.Database.Driver))
	return store, nil
}

// buildProvider assembles the decorator chain: transport -> cache -> budget.
func buildProvider(
	ctx context.Context,
	cfg config.Config,
	pc config.ProviderConfig,
	store db.Store,
	logger *zap.Logger,
) (provider, error) {
	var base domain.Embedder
	switch pc.Kind {
	case config.ProviderOpenAI:
		base = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     pc.APIKey,
			BaseURL:    pc.BaseURL,
			Model:      pc.Model,
			Dimensions: pc.Dimensions,
			Provider:   pc.Name,
			Logger:     logger,
		})
	case config.ProviderGemini:
		g, err := geminiEmb.NewEmbedder(ctx, &geminiEmb.Config{
			APIKey:     pc.APIKey,
			Model:      pc.Model,
			Dimensions: pc.Dimensions,
			Provider:   pc.Name,
			Logger:     logger,
		})
		if err != nil {
			return provider{}, fmt.Errorf("create gemini provider %s: %w", pc.Name, err)
		}
		base = g
	default:
		return provider{}, fmt.Errorf("unknown provider kind %q", pc.Kind)
	}

	embedder := base
	if cfg.Cache.Enabled {
		embedder = embcache.New(base, store, embcache.Options{
			KeyPrefix: cfg.Storage.KeyPrefix,
			Namespace: pc.Name + ":" + pc.Model,
			TTL:       time.Duration(cfg.Cache.TTLSec) * time.Second,
		}, metrics.EmbeddingCacheTotal, logger)
	}

	action := embeddinguc.BudgetActionWarn
	if pc.Budget.Action == string(embeddinguc.BudgetActionReject) {
		action = embeddinguc.BudgetActionReject
	}
	budget := embeddinguc.NewBudgetTracker(pc.Name, cfg.Storage.KeyPrefix, embeddinguc.BudgetLimits{
		Daily:   pc.Budget.DailyTokenLimit,
		Monthly: pc.Budget.MonthlyTokenLimit,
		Action:  action,
	}, logger).WithStore(ctx, budgetrepo.New(store, dailyCounterTTL, monthlyCounterTTL))

	logger.Info("Embedding provider created",
		zap.String("provider", pc.Name),
		zap.String("kind", pc.Kind),
		zap.String("model", pc.Model),
		zap.Int64("daily_token_limit", pc.Budget.DailyTokenLimit),
	)

	return provider{
		name:     pc.Name,
		embedder: embeddinguc.NewInstrumentedEmbedder(embedder, pc.Name, pc.Model, budget, logger),
		budget:   budget,
		cost:     pc.Budget.CostPerMillionTokens,
	}, nil
}
