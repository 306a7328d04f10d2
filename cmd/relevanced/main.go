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

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/inkwell-cms/relevance/internal/config"
	dbRedis "github.com/inkwell-cms/relevance/internal/db/redis"
	logpkg "github.com/inkwell-cms/relevance/internal/logger"
	"github.com/inkwell-cms/relevance/internal/metrics"
	"github.com/inkwell-cms/relevance/internal/repository/analytics"
	"github.com/inkwell-cms/relevance/internal/repository/doccache"
	documentrepo "github.com/inkwell-cms/relevance/internal/repository/document"
	chiTransport "github.com/inkwell-cms/relevance/internal/transport/chi"
	documentuc "github.com/inkwell-cms/relevance/internal/usecase/document"
	healthuc "github.com/inkwell-cms/relevance/internal/usecase/health"
	relateduc "github.com/inkwell-cms/relevance/internal/usecase/related"
	searchuc "github.com/inkwell-cms/relevance/internal/usecase/search"
	suggestuc "github.com/inkwell-cms/relevance/internal/usecase/suggest"
	"github.com/inkwell-cms/relevance/internal/version"
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

	logger.Info("Starting relevance API server",
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

	// Register engine metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Repositories. The search engine reads from a TTL snapshot cache
	// instead of hitting the store per request; document writes invalidate it.
	docRepo := documentrepo.New(store)
	corpus := doccache.New(
		docRepo,
		time.Duration(cfg.Cache.CorpusTTLSec)*time.Second,
		metrics.CorpusCacheTotal,
		logger,
	)
	analyticsRepo := analytics.New(store)

	// Use case services
	suggestSvc := suggestuc.New(analyticsRepo, logger)
	searchSvc := searchuc.New(corpus, suggestSvc, logger).
		WithSnippetConfig(searchuc.SnippetConfig{
			MaxLength:   cfg.Search.SnippetLength,
			MarkerOpen:  cfg.Search.HighlightOpen,
			MarkerClose: cfg.Search.HighlightClose,
		}).
		WithLabels(labelResolver(cfg.Labels)).
		WithMetrics(metrics.SearchesTotal, metrics.SearchDuration, metrics.SearchZeroResultsTotal)
	relatedSvc := relateduc.New(corpus, logger)
	docSvc := documentuc.New(docRepo, corpus, logger)
	healthSvc := healthuc.New(store, corpus)

	// Create chi server
	server := chiTransport.NewServer(searchSvc, relatedSvc, suggestSvc, docSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
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

// labelResolver builds a facet label lookup from configured display names.
func labelResolver(labels config.LabelsConfig) searchuc.LabelFunc {
	return func(dimension, key string) string {
		switch dimension {
		case "category":
			return labels.Categories[key]
		case "author":
			return labels.Authors[key]
		case "tag":
			return labels.Tags[key]
		}
		return ""
	}
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
