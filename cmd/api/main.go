package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"detailing_portal_backend/internal/audit"
	apphttp "detailing_portal_backend/internal/http"
	"detailing_portal_backend/internal/http/router"
	"detailing_portal_backend/internal/intake"
	"detailing_portal_backend/internal/registry"
	"detailing_portal_backend/internal/registry/repository"
	"detailing_portal_backend/internal/scheduler"
	"detailing_portal_backend/platform/config"
	"detailing_portal_backend/platform/db"
	"detailing_portal_backend/platform/events"
	"detailing_portal_backend/platform/logger"
	"detailing_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "registry", cfg.GetRegistryBackend())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var (
		store  repository.Store
		health apphttp.HealthChecker
	)
	switch cfg.GetRegistryBackend() {
	case "memory":
		mem := repository.NewInMemory()
		if _, err := repository.SeedSampleFleet(ctx, mem); err != nil {
			log.Error("failed to seed sample fleet", "error", err)
			panic("failed to seed sample fleet: " + err.Error())
		}
		store = mem
		log.Info("using in-memory registry with sample fleet")
	default:
		if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
			return db.RunMigrations(ctx, cfg, "migrations")
		}); err != nil {
			log.Error("failed to run database migrations", "error", err)
			panic("failed to run database migrations: " + err.Error())
		}
		log.Info("database migrations complete")

		pool, err := connectWithRetry(ctx, log, cfg)
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			panic("failed to connect to database: " + err.Error())
		}
		defer pool.Close()
		log.Info("database connection established")

		store = repository.NewPostgres(pool)
		health = db.NewPoolAdapter(pool)
	}

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	registryModule := registry.NewModule(store, cfg.GetPhoneRegion(), val)
	intakeModule := intake.NewModule(store, cfg.GetIntakeSessionTTL(), cfg.GetPhoneRegion(), log, eventBus, val)
	intakeModule.StartJanitor(ctx)

	// Audit trail runs only when a queue is configured; the intake flows
	// work the same without it.
	if cfg.GetRedisURL() != "" {
		queueClient, err := scheduler.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize queue client", "error", err)
			panic("failed to initialize queue client: " + err.Error())
		}
		defer func() { _ = queueClient.Close() }()
		audit.NewModule(queueClient, log).Subscribe(eventBus)
		log.Info("intake audit trail enabled")
	} else {
		log.Warn("REDIS_URL not configured; intake audit trail disabled")
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   health,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			registryModule,
			intakeModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func connectWithRetry(ctx context.Context, log *logger.Logger, cfg *config.Config) (pool *pgxpool.Pool, err error) {
	err = withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	})
	return pool, err
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
