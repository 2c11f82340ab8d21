package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/trident/internal/config"
	dbRedis "github.com/kailas-cloud/trident/internal/db/redis"
	logpkg "github.com/kailas-cloud/trident/internal/logger"
	"github.com/kailas-cloud/trident/internal/metrics"
	"github.com/kailas-cloud/trident/internal/repository/candidate"
	"github.com/kailas-cloud/trident/internal/repository/embcache"
	"github.com/kailas-cloud/trident/internal/repository/fulltext"
	"github.com/kailas-cloud/trident/internal/repository/querycache"
	"github.com/kailas-cloud/trident/internal/similarity"
	chiTransport "github.com/kailas-cloud/trident/internal/transport/chi"
	openaiEmb "github.com/kailas-cloud/trident/internal/transport/openai"
	healthuc "github.com/kailas-cloud/trident/internal/usecase/health"
	searchuc "github.com/kailas-cloud/trident/internal/usecase/search"
	suggestuc "github.com/kailas-cloud/trident/internal/usecase/suggest"
	"github.com/kailas-cloud/trident/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting trident API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Build the embedder chain when the semantic strategy needs one.
	// Pass nil interface (not typed nil pointer!) when semantic is off.
	// Go gotcha: a typed nil wrapped in an interface != nil.
	var embedder searchuc.Embedder
	var embHealth healthuc.EmbeddingChecker
	if *cfg.Search.EnableSemantic && !cfg.Search.PreencodedOnly {
		base := openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:  cfg.Embedding.APIKey,
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
			Timeout: time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
			Logger:  logger,
		})
		cached, err := embcache.New(base, cfg.Cache.EmbeddingCapacity, metrics.EmbeddingCacheTotal, logger)
		if err != nil {
			logger.Fatal("Failed to create embedding cache", zap.Error(err))
		}
		embedder = cached
		embHealth = base
		logger.Info("Embedder created",
			zap.String("model", cfg.Embedding.Model),
			zap.Int("cache_capacity", cfg.Cache.EmbeddingCapacity),
		)
	}

	// Repositories
	fulltextRepo := fulltext.New(store, cfg.Storage.IndexName, cfg.Storage.KeyPrefix)
	candidateRepo := candidate.New(store, cfg.Storage.IndexName, cfg.Storage.KeyPrefix)
	resultCache := querycache.New(cfg.SearchTTL(), cfg.Cache.SearchMaxEntries, metrics.QueryCacheTotal)

	// Use case services
	searchSvc, err := searchuc.New(
		fulltextRepo,
		candidateRepo,
		embedder,
		similarity.Ratio,
		resultCache,
		searchuc.Config{
			Weights:             cfg.Weights(),
			ExactScoreNorm:      cfg.Search.ExactScoreNorm,
			FuzzyAccuracyTarget: cfg.Search.FuzzyAccuracyTarget,
			SemanticThreshold:   cfg.Search.SemanticThreshold,
			QueryTimeout:        cfg.QueryTimeout(),
			EnableFuzzy:         *cfg.Search.EnableFuzzy,
			EnableSemantic:      *cfg.Search.EnableSemantic,
			PreencodedOnly:      cfg.Search.PreencodedOnly,
		},
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to create search service", zap.Error(err))
	}
	suggestSvc := suggestuc.New(candidateRepo, logger)
	healthSvc := healthuc.New(store, embHealth)

	server := chiTransport.NewServer(searchSvc, suggestSvc, healthSvc, logger)

	var handler http.Handler = server.Router(cfg.Auth.APIKeys)
	handler = wideEventMiddleware(logger)(handler)
	handler = chiMiddleware.RequestID(handler)
	handler = jsonRecoverer(logger)(handler)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
