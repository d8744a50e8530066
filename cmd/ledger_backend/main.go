package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/personal_ledger/internal/core/services"
	"github.com/SscSPs/personal_ledger/internal/dto"
	"github.com/SscSPs/personal_ledger/internal/events"
	"github.com/SscSPs/personal_ledger/internal/handlers"
	"github.com/SscSPs/personal_ledger/internal/jobs"
	"github.com/SscSPs/personal_ledger/internal/middleware"
	"github.com/SscSPs/personal_ledger/internal/platform/config"
	"github.com/SscSPs/personal_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/personal_ledger/internal/repositories/database/sqlite"
	"github.com/SscSPs/personal_ledger/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	portsrepo "github.com/SscSPs/personal_ledger/internal/core/ports/repositories"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	os.Exit(run(logger))
}

// run returns the process exit code. Deferred cleanup in serve has finished
// by the time it returns, so main can exit without skipping it.
func run(logger *slog.Logger) int {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, logger); err != nil {
		logger.Error("Server stopped with error", slog.String("error", err.Error()))
		return 1
	}
	logger.Info("Server stopped gracefully")
	return 0
}

// serve runs the API and the scheduler until ctx is cancelled or the server
// fails. The store and the publisher are released before it returns.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	repos, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize %s storage: %w", cfg.DBDriver, err)
	}
	defer closeStore()

	publisher := events.NewPublisher(cfg.AMQPURL, cfg.EventsExchange, logger)
	defer publisher.Close()

	serviceContainer := services.NewServiceContainer(cfg, repos, publisher)

	dto.RegisterValidators()
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := newRouter(cfg, logger)
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}
	handlers.RegisterRoutes(r, cfg, serviceContainer)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	scheduler := jobs.NewScheduler(jobs.NewJobs(serviceContainer.Reconciliation, logger), logger, cfg.ReconcileSchedule)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("driver", cfg.DBDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		scheduler.Start()
		<-gctx.Done()
		<-scheduler.Stop().Done()
		logger.Info("Scheduler stopped")
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openStore connects to the configured backend, applies its migrations and
// returns the repositories together with a function that releases them.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		logger.Info("Running database migrations...")
		if err := database.RunPostgresMigrations(cfg.DatabaseURL, "file://migrations/postgres"); err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		return pgsql.NewRepositoryProvider(pool), func() { database.ClosePgxPool(pool) }, nil
	default:
		logger.Info("Running database migrations...", slog.String("path", cfg.SQLitePath))
		db, err := database.NewSQLiteDB(ctx, cfg.SQLitePath)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		if err := sqlite.RunMigrations(database.SQLiteDSN(cfg.SQLitePath)); err != nil {
			database.CloseSQLiteDB(db)
			return portsrepo.RepositoryProvider{}, nil, err
		}
		return sqlite.NewRepositoryProvider(db), func() { database.CloseSQLiteDB(db) }, nil
	}
}

func newRouter(cfg *config.Config, logger *slog.Logger) (*gin.Engine, error) {
	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, err
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	}
	r.Use(cors.New(corsConfig))

	limiterInstance, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		return nil, err
	}
	r.Use(middleware.RateLimit(limiterInstance))

	return r, nil
}
