package main

import (
	"context"
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
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tastebud/internal/config"
	"github.com/kailas-cloud/tastebud/internal/db"
	"github.com/kailas-cloud/tastebud/internal/db/badgerdb"
	dbRedis "github.com/kailas-cloud/tastebud/internal/db/redis"
	"github.com/kailas-cloud/tastebud/internal/domain/match"
	logpkg "github.com/kailas-cloud/tastebud/internal/logger"
	"github.com/kailas-cloud/tastebud/internal/metrics"
	listingrepo "github.com/kailas-cloud/tastebud/internal/repository/listing"
	sessionrepo "github.com/kailas-cloud/tastebud/internal/repository/session"
	userrepo "github.com/kailas-cloud/tastebud/internal/repository/user"
	"github.com/kailas-cloud/tastebud/internal/seed"
	chiTransport "github.com/kailas-cloud/tastebud/internal/transport/chi"
	accountuc "github.com/kailas-cloud/tastebud/internal/usecase/account"
	authuc "github.com/kailas-cloud/tastebud/internal/usecase/auth"
	cataloguc "github.com/kailas-cloud/tastebud/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/tastebud/internal/usecase/health"
	preferenceuc "github.com/kailas-cloud/tastebud/internal/usecase/preference"
	recommenduc "github.com/kailas-cloud/tastebud/internal/usecase/recommend"
	"github.com/kailas-cloud/tastebud/internal/version"
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

	logger.Info("Starting tastebud API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	store, err := newStore(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register domain metrics explicitly (no init())
	metrics.RegisterDomainMetrics()

	// Repositories
	users := userrepo.New(store)
	sessions := sessionrepo.New(store)
	listings := listingrepo.New(store)

	// Catalog is replaced from the seed file on every start
	catalogSvc := cataloguc.New(listings, logger)
	seedListings, err := seed.LoadFile(cfg.Catalog.SeedPath)
	if err != nil {
		logger.Fatal("Failed to load catalog seed", zap.String("path", cfg.Catalog.SeedPath), zap.Error(err))
	}
	if err := catalogSvc.Seed(ctx, seedListings); err != nil {
		logger.Fatal("Failed to seed catalog", zap.Error(err))
	}

	authSvc, err := authuc.New(users, sessions, authuc.Config{
		Secret:     []byte(cfg.Auth.JWTSecret),
		TokenTTL:   time.Duration(cfg.Auth.TokenTTLHours) * time.Hour,
		BcryptCost: cfg.Auth.BcryptCost,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create auth service", zap.Error(err))
	}
	if cfg.Auth.AdminUsername != "" {
		created, err := authSvc.BootstrapAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword)
		if err != nil {
			logger.Fatal("Failed to bootstrap admin", zap.Error(err))
		}
		if created {
			logger.Info("Admin account created", zap.String("username", cfg.Auth.AdminUsername))
		}
	}

	preferenceSvc := preferenceuc.New(users)
	demoCreated, err := seed.SeedDemoUser(ctx, authSvc, preferenceSvc, seed.DemoUser{
		Username:  cfg.Demo.Username,
		Email:     cfg.Demo.Email,
		Password:  cfg.Demo.Password,
		Dietary:   cfg.Demo.Dietary,
		Cuisines:  cfg.Demo.Cuisines,
		PriceMin:  cfg.Demo.PriceMin,
		PriceMax:  cfg.Demo.PriceMax,
		Allergies: cfg.Demo.Allergies,
	})
	if err != nil {
		logger.Fatal("Failed to seed demo user", zap.Error(err))
	}
	if demoCreated {
		logger.Info("Demo user created", zap.String("username", cfg.Demo.Username))
	}

	policy, err := match.ParseEmptyCuisinePolicy(cfg.Recommend.EmptyCuisinePolicy)
	if err != nil {
		logger.Fatal("Invalid recommend policy", zap.Error(err))
	}

	server := chiTransport.NewServer(chiTransport.Services{
		Auth:          authSvc,
		Authenticator: authuc.NewInstrumentedAuthenticator(authSvc, logger),
		Catalog:       catalogSvc,
		Preferences:   preferenceSvc,
		Recommend:     recommenduc.New(users, catalogSvc, policy),
		Accounts:      accountuc.New(users),
		Health:        healthuc.New(store, catalogSvc),
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         cfg.CORS.MaxAgeSec,
	}))
	r.Use(metrics.Middleware())
	chiTransport.Mount(r, server, chiTransport.RouterOptions{
		LoginRequests: cfg.RateLimit.LoginRequests,
		LoginWindow:   time.Duration(cfg.RateLimit.LoginWindowSec) * time.Second,
	})

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

// newStore opens the configured database. Redis and Valkey share the rueidis driver.
func newStore(cfg config.DatabaseConfig, logger *zap.Logger) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverBadger:
		return badgerdb.NewStore(badgerdb.Config{
			Path:     cfg.Path,
			InMemory: cfg.InMemory,
			Logger:   logger.Named("badger"),
		})
	case config.DriverRedis, config.DriverValkey:
		return dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
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

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// One line per request
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
