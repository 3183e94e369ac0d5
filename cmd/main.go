package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cryptoadvisor/internal/adapters/ai"
	"cryptoadvisor/internal/adapters/coingecko"
	"cryptoadvisor/internal/adapters/config"
	"cryptoadvisor/internal/adapters/embeddings"
	"cryptoadvisor/internal/adapters/errors/noop"
	"cryptoadvisor/internal/adapters/errors/sentry"
	"cryptoadvisor/internal/adapters/newsapi"
	"cryptoadvisor/internal/adapters/postgres"
	redisadapter "cryptoadvisor/internal/adapters/redis"
	"cryptoadvisor/internal/api"
	"cryptoadvisor/internal/api/health"
	"cryptoadvisor/internal/knowledge"
	"cryptoadvisor/internal/metrics"
	repository "cryptoadvisor/internal/repository/postgres"
	"cryptoadvisor/internal/router"
	"cryptoadvisor/internal/signals"
	"cryptoadvisor/internal/tools"
	"cryptoadvisor/pkg/errors"
	"cryptoadvisor/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	metrics.Init()

	// Databases
	pgClient, err := postgres.NewClient(cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer pgClient.Close()

	var (
		redisClient *redisadapter.Client
		rawRedis    *goredis.Client
	)
	if cfg.Redis.Enabled {
		redisClient, err = redisadapter.NewClient(cfg.Redis)
		if err != nil {
			log.Warnf("Failed to connect to Redis, continuing without cache: %v", err)
		} else {
			rawRedis = redisClient.Client()
			defer redisClient.Close()
		}
	}

	prometheus.MustRegister(metrics.NewCustomCollector(pgClient.DB(), rawRedis))

	// AI providers
	chatProvider, err := ai.NewOpenAIProvider(cfg.OpenAI.APIKey, cfg.OpenAI.RequestTimeout)
	if err != nil {
		log.Fatalf("Failed to initialize OpenAI chat provider: %v", err)
	}
	embedder, err := embeddings.NewOpenAIProvider(cfg.OpenAI.APIKey, cfg.OpenAI.EmbeddingModel, cfg.OpenAI.RequestTimeout)
	if err != nil {
		log.Fatalf("Failed to initialize embeddings provider: %v", err)
	}

	// Knowledge base retrieval
	documents := repository.NewDocumentRepository(pgClient.DB(), embedder)
	retriever := knowledge.NewRetriever(documents, chatProvider, knowledge.Config{
		TopK:         cfg.Retrieval.TopK,
		FusionK:      cfg.Retrieval.FusionK,
		VariantCount: cfg.Retrieval.VariantCount,
		Model:        cfg.OpenAI.ChatModel,
	})

	// External market data and tools
	var chartCache coingecko.Cache
	if redisClient != nil {
		chartCache = redisClient
	}
	geckoClient := coingecko.NewClient(cfg.CoinGecko, chartCache)
	newsClient := newsapi.NewClient(cfg.NewsAPI)
	engine := signals.NewEngine()

	registry := tools.NewRegistry()
	registry.Register(tools.NewPriceTool(geckoClient))
	registry.Register(tools.NewNewsTool(newsClient))
	registry.Register(tools.NewSignalsTool(geckoClient, engine))

	// Query routing
	classifier := router.NewClassifier(chatProvider, cfg.OpenAI.ChatModel)
	queryRouter := router.New(chatProvider, classifier, retriever, registry, router.Config{
		ChatModel:       cfg.OpenAI.ChatModel,
		FunctionModel:   cfg.OpenAI.FunctionModel,
		HistoryMaxTurns: cfg.OpenAI.HistoryMaxTurns,
	})

	// HTTP server
	chatHandler := api.NewChatHandler(queryRouter, log)
	healthHandler := health.New(log, pgClient.DB(), rawRedis, cfg.App.Name, cfg.App.Version)
	server := api.NewServer(api.ServerConfig{
		Port:        cfg.HTTP.Port,
		ServiceName: cfg.App.Name,
		Version:     cfg.App.Version,
	}, chatHandler, healthHandler, log)

	log.Info("System initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	waitForShutdown(ctx, cancel, server, errorTracker, log)
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// waitForShutdown waits for shutdown signal and performs graceful shutdown
func waitForShutdown(ctx context.Context, cancel context.CancelFunc, server *api.Server, errorTracker errors.Tracker, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer flushCancel()
	if err := errorTracker.Flush(flushCtx); err != nil {
		log.Warnf("Error tracker flush failed: %v", err)
	}
	log.Info("Shutdown complete")
}
