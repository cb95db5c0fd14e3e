package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/AndiJegeni/cuemusic/internal/config"
	dbRedis "github.com/AndiJegeni/cuemusic/internal/db/redis"
	domquota "github.com/AndiJegeni/cuemusic/internal/domain/quota"
	logpkg "github.com/AndiJegeni/cuemusic/internal/logger"
	"github.com/AndiJegeni/cuemusic/internal/metrics"
	libraryrepo "github.com/AndiJegeni/cuemusic/internal/repository/library"
	quotarepo "github.com/AndiJegeni/cuemusic/internal/repository/quota"
	soundrepo "github.com/AndiJegeni/cuemusic/internal/repository/sound"
	"github.com/AndiJegeni/cuemusic/internal/transport/audiotag"
	chiTransport "github.com/AndiJegeni/cuemusic/internal/transport/chi"
	healthuc "github.com/AndiJegeni/cuemusic/internal/usecase/health"
	libraryuc "github.com/AndiJegeni/cuemusic/internal/usecase/library"
	quotauc "github.com/AndiJegeni/cuemusic/internal/usecase/quota"
	searchuc "github.com/AndiJegeni/cuemusic/internal/usecase/search"
	sounduc "github.com/AndiJegeni/cuemusic/internal/usecase/sound"
	usageuc "github.com/AndiJegeni/cuemusic/internal/usecase/usage"
	"github.com/AndiJegeni/cuemusic/internal/version"
)

func main() {
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

	logger.Info("Starting cuemusic API server",
		zap.String("build", version.String()),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.Bool("auth_enabled", len(cfg.Auth.Tokens) > 0),
	)

	// Redis and Valkey speak the same core commands; one rueidis store serves both drivers.
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterSearchMetrics()

	// Repositories
	prefix := cfg.Storage.KeyPrefix
	soundRepo := soundrepo.New(store, prefix)
	libRepo := libraryrepo.New(store, prefix)
	counterStore := quotarepo.New(store, prefix,
		time.Duration(cfg.Quota.DailyTTLHours)*time.Hour,
		time.Duration(cfg.Quota.MonthlyTTLDays)*24*time.Hour,
	)

	// Quota gate: one instance shared by search and usage.
	gate := quotauc.NewGate(
		cfg.Quota.FreeDailySearches,
		cfg.Quota.FreeMonthlySearches,
		domquota.Action(cfg.Quota.Action),
		logger,
	).WithStore(counterStore)

	// Use case services
	libSvc := libraryuc.New(libRepo)
	tagReader := audiotag.New(cfg.Import.SpoolDir, int64(cfg.Import.MaxUploadMB)<<20)
	soundSvc := sounduc.New(soundRepo, libSvc, tagReader).
		WithPagination(cfg.Sounds.DefaultPageSize, cfg.Sounds.MaxPageSize)
	searchSvc := searchuc.New(soundRepo, gate, cfg.Search.BPMTolerance)
	usageSvc := usageuc.New(gate)
	healthSvc := healthuc.New(store, healthuc.DefaultTimeout).
		WithProbe("import_spool", tagReader.Probe)

	server := chiTransport.NewServer(searchSvc, soundSvc, libSvc, usageSvc, healthSvc, logger, chiTransport.Config{
		UpgradeURL:     cfg.Quota.UpgradeURL,
		MaxUploadBytes: int64(cfg.Import.MaxUploadMB) << 20,
		MaxQueryLength: cfg.Search.MaxQueryLength,
	})

	principals := make([]chiTransport.Principal, 0, len(cfg.Auth.Tokens))
	for _, t := range cfg.Auth.Tokens {
		principals = append(principals, chiTransport.Principal{
			Token:   t.Token,
			UserID:  t.UserID,
			Email:   t.Email,
			Premium: t.Premium,
		})
	}

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	handler := chiTransport.Handler(server, r,
		chiTransport.BearerAuthMiddleware(principals, cfg.Auth.AdminEmails))

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorCodeInternalError,
						Message: "internal error",
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
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request.
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
				zap.String("search_candidates", ww.Header().Get("X-Search-Candidates")),
			)
		})
	}
}
