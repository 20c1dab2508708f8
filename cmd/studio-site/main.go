// cmd/studio-site/main.go
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

	"go.uber.org/zap"

	"studio-site/internal/api"
	"studio-site/internal/common/config"
	"studio-site/internal/common/database"
	commonhttp "studio-site/internal/common/http"
	"studio-site/internal/common/logger"
	"studio-site/internal/common/observability"
	"studio-site/internal/common/validation"
	"studio-site/internal/intake"
	"studio-site/internal/models"
	"studio-site/internal/notification"
	"studio-site/internal/repository"
	"studio-site/internal/review"
	"studio-site/internal/session"
	"studio-site/internal/store"
	"studio-site/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// openStore connects the configured row store. The returned closer is never nil.
func openStore(ctx context.Context, cfg *config.Config, zapLog *zap.Logger) (store.Store, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		zapLog.Warn("using in-memory submission store; data is lost on restart")
		return store.NewMemoryStore(), func() {}, nil

	case config.DriverSQLite:
		lite, err := database.NewSQLite(cfg.Database.SQLite)
		if err != nil {
			return nil, func() {}, err
		}
		s := store.NewSQLStore(lite.DB, store.SQLite)
		if err := s.Migrate(ctx); err != nil {
			lite.Close()
			return nil, func() {}, err
		}
		zapLog.Info("SQLite store ready", zap.String("path", cfg.Database.SQLite.Path))
		return s, func() { lite.Close() }, nil

	default:
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			return nil, func() {}, err
		}

		s := store.NewSQLStore(pg.DB, store.Postgres)
		if err := s.Migrate(ctx); err != nil {
			pg.Close()
			return nil, func() {}, err
		}
		zapLog.Info("PostgreSQL connected successfully")
		return s, func() { pg.Close() }, nil
	}
}

// openFlagStore connects the admin flag store. The returned closer is never nil.
func openFlagStore(ctx context.Context, cfg *config.Config, zapLog *zap.Logger) (session.FlagStore, func(), error) {
	if cfg.Session.FlagStore == "memory" {
		return session.NewMemoryFlagStore(), func() {}, nil
	}

	var rdb *database.RedisClient
	err := retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		return nil, func() {}, err
	}
	zapLog.Info("Redis connected successfully")
	return session.NewRedisFlagStore(rdb.Client), func() { rdb.Close() }, nil
}

func loadRegistry(cfg *config.Config) (*registry.FormRegistry, error) {
	if cfg.Forms.RegistryPath == "" {
		return registry.Default(), nil
	}
	return registry.LoadRegistry(cfg.Forms.RegistryPath)
}

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting studio site...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("driver", cfg.Database.Driver),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	rows, closeStore, err := openStore(ctx, cfg, zapLog)
	if err != nil {
		zapLog.Fatal("submission store unavailable", zap.Error(err))
	}
	defer closeStore()

	flags, closeFlags, err := openFlagStore(ctx, cfg, zapLog)
	if err != nil {
		zapLog.Fatal("flag store unavailable", zap.Error(err))
	}
	defer closeFlags()

	forms, err := loadRegistry(cfg)
	if err != nil {
		zapLog.Fatal("form registry load failed", zap.Error(err))
	}
	validator, err := validation.NewValidator(forms)
	if err != nil {
		zapLog.Fatal("form schema compile failed", zap.Error(err))
	}

	webhookTimeout := config.GetDuration(cfg.Webhooks.Timeout)
	sender := notification.NewSender(
		commonhttp.NewClient(webhookTimeout),
		map[models.SubmissionType]string{
			models.TypeSupport:          cfg.Webhooks.Support,
			models.TypeStaffApplication: cfg.Webhooks.StaffApplication,
		},
		forms,
		log,
	)

	repo := repository.New(rows, log, obs)
	gate := session.NewGate(cfg.Session.AdminPassword, flags, log)

	var limiter *api.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = api.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		go limiter.Run(ctx, 3*time.Minute)
	}

	router := api.NewRouter(api.Dependencies{
		Intake: intake.NewHandler(
			&intake.Config{NotifyTimeout: webhookTimeout, MaxAge: 100},
			validator, sender, repo, log,
		),
		Repo:    repo,
		Review:  review.NewHandler(review.LoadConfig(), repo, log),
		Gate:    gate,
		Limiter: limiter,
		Logger:  log,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}
	stop()
	zapLog.Info("Studio site stopped")
}
