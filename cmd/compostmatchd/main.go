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

	"github.com/compostmatch/compostmatch/internal/config"
	dbRedis "github.com/compostmatch/compostmatch/internal/db/redis"
	logpkg "github.com/compostmatch/compostmatch/internal/logger"
	"github.com/compostmatch/compostmatch/internal/metrics"
	listingrepo "github.com/compostmatch/compostmatch/internal/repository/listing"
	chiTransport "github.com/compostmatch/compostmatch/internal/transport/chi"
	openaiModel "github.com/compostmatch/compostmatch/internal/transport/openai"
	chatuc "github.com/compostmatch/compostmatch/internal/usecase/chat"
	healthuc "github.com/compostmatch/compostmatch/internal/usecase/health"
	listinguc "github.com/compostmatch/compostmatch/internal/usecase/listing"
	searchuc "github.com/compostmatch/compostmatch/internal/usecase/search"
	suggestuc "github.com/compostmatch/compostmatch/internal/usecase/suggest"
	"github.com/compostmatch/compostmatch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting compostmatch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.Bool("model_enabled", cfg.Model.APIKey != ""),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
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

	// Register model metrics explicitly (no init())
	metrics.RegisterModelMetrics()

	// Model client — absent credential means fallback-only operation.
	var model *openaiModel.Client
	if cfg.Model.APIKey != "" {
		model = openaiModel.NewClient(&openaiModel.Config{
			APIKey:            cfg.Model.APIKey,
			BaseURL:           cfg.Model.BaseURL,
			Model:             cfg.Model.Name,
			Temperature:       cfg.Model.Temperature,
			RequestsPerMinute: cfg.Model.RequestsPerMinute,
			Burst:             cfg.Model.Burst,
			Logger:            logger,
		})
		logger.Info("Model client created",
			zap.String("model", cfg.Model.Name),
			zap.String("base_url", cfg.Model.BaseURL),
		)
	} else {
		logger.Info("No model credential; running on deterministic fallbacks")
	}

	// Repository and use case services
	repo := listingrepo.New(store, cfg.Storage.KeyPrefix)

	listingSvc := listinguc.New(repo)
	searchSvc := searchuc.New(asModelClient(model), logger)
	suggestSvc := suggestuc.New(asSuggestClient(model), logger).
		WithCache(store, cfg.Storage.KeyPrefix)
	chatSvc := chatuc.New(asChatClient(model), logger)

	// Health service
	var modelChecker healthuc.ModelChecker
	if model != nil {
		modelChecker = model
	}
	healthSvc := healthuc.New(store, modelChecker)

	// Create chi server
	server := chiTransport.NewServer(listingSvc, searchSvc, suggestSvc, chatSvc, healthSvc, logger)

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

// asModelClient converts a possibly-nil concrete client into the search
// package's interface. Go gotcha: a typed nil pointer wrapped in a non-nil
// interface value would defeat the service's nil check.
func asModelClient(c *openaiModel.Client) searchuc.ModelClient {
	if c == nil {
		return nil
	}
	return c
}

func asSuggestClient(c *openaiModel.Client) suggestuc.ModelClient {
	if c == nil {
		return nil
	}
	return c
}

func asChatClient(c *openaiModel.Client) chatuc.ModelClient {
	if c == nil {
		return nil
	}
	return c
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
