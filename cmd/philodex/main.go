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
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/philodex/internal/config"
	"github.com/kailas-cloud/philodex/internal/db"
	"github.com/kailas-cloud/philodex/internal/db/memory"
	dbRedis "github.com/kailas-cloud/philodex/internal/db/redis"
	"github.com/kailas-cloud/philodex/internal/domain/carousel"
	logpkg "github.com/kailas-cloud/philodex/internal/logger"
	"github.com/kailas-cloud/philodex/internal/metrics"
	catalogrepo "github.com/kailas-cloud/philodex/internal/repository/catalog"
	"github.com/kailas-cloud/philodex/internal/repository/session"
	votesrepo "github.com/kailas-cloud/philodex/internal/repository/votes"
	chiTransport "github.com/kailas-cloud/philodex/internal/transport/chi"
	browseuc "github.com/kailas-cloud/philodex/internal/usecase/browse"
	cataloguc "github.com/kailas-cloud/philodex/internal/usecase/catalog"
	featureduc "github.com/kailas-cloud/philodex/internal/usecase/featured"
	healthuc "github.com/kailas-cloud/philodex/internal/usecase/health"
	votesuc "github.com/kailas-cloud/philodex/internal/usecase/votes"
	"github.com/kailas-cloud/philodex/internal/version"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

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

	logger.Info("Starting philodex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("catalog_source", cfg.Catalog.Source),
	)

	store, err := newStore(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.Register()

	// Catalog: a failed load leaves the index empty and the server still starts.
	source := catalogrepo.New(cfg.Catalog.Source, time.Duration(cfg.Catalog.TimeoutSec)*time.Second, logger)
	catalogSvc := cataloguc.New(source, logger)
	if err := catalogSvc.Load(ctx); err != nil {
		logger.Error("Serving empty catalog", zap.Error(err))
	}

	rotator, err := featureduc.NewRotator(catalogSvc, cfg.Featured.Schedule, logger)
	if err != nil {
		logger.Fatal("Invalid featured schedule", zap.Error(err))
	}

	layout := browseuc.Layout{
		PhilosopherPageSize: cfg.Carousel.PhilosopherPageSize,
		ArgumentPageSize:    cfg.Carousel.ArgumentPageSize,
		Stride:              cfg.Carousel.ItemStride,
		Mode:                carousel.Mode(cfg.Carousel.Mode),
	}
	sessions := session.New[browseuc.State](
		time.Duration(cfg.Sessions.IdleTTLSec)*time.Second,
		time.Duration(cfg.Sessions.CleanupSec)*time.Second,
	)

	browseSvc := browseuc.New(catalogSvc, sessions, layout)
	votesSvc := votesuc.New(votesrepo.New(store, cfg.Votes.Key), catalogSvc)
	featuredSvc := featureduc.New(catalogSvc, rotator)
	healthSvc := healthuc.New(store, catalogSvc)

	opts := chiTransport.Options{APIKeys: cfg.Auth.APIKeys}
	if cfg.Votes.RatePerSecond > 0 {
		opts.VoteLimiter = chiTransport.NewClientLimiter(cfg.Votes.RatePerSecond, cfg.Votes.Burst, 0)
	}
	server := chiTransport.NewServer(catalogSvc, browseSvc, votesSvc, featuredSvc, healthSvc, opts, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	if len(cfg.HTTP.CORSOrigins) > 0 {
		r.Use(corsMiddleware(cfg.HTTP.CORSOrigins))
	}
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	rotator.Start()

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
		defer cancel()

		rotator.Stop(shutdownCtx)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return
	}

	logger.Info("Server stopped gracefully")
}

// newStore creates the vote store for the configured driver.
// valkey and redis share the rueidis client.
func newStore(cfg config.DatabaseConfig) (db.Store, error) {
	switch cfg.Driver {
	case "memory":
		return memory.NewStore(10 * time.Minute), nil
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("%s store: %w", cfg.Driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// corsMiddleware lets a browser client on one of origins call the API.
func corsMiddleware(origins []string) func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Location", "Retry-After"},
		MaxAge:         300,
	})
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

			route := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", route),
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
