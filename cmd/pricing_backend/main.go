package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/pricing_engine/internal/apperrors"
	portsrepo "github.com/SscSPs/pricing_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pricing_engine/internal/core/ports/services"
	"github.com/SscSPs/pricing_engine/internal/core/services"
	"github.com/SscSPs/pricing_engine/internal/dto"
	"github.com/SscSPs/pricing_engine/internal/handlers"
	"github.com/SscSPs/pricing_engine/internal/metrics"
	"github.com/SscSPs/pricing_engine/internal/middleware"
	"github.com/SscSPs/pricing_engine/internal/platform/config"
	"github.com/SscSPs/pricing_engine/internal/repositories/cache"
	"github.com/SscSPs/pricing_engine/internal/repositories/database/pgsql"
	"github.com/SscSPs/pricing_engine/internal/repositories/memory"
	"github.com/SscSPs/pricing_engine/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const systemUserID = "system"

// @title Pricing Engine API
// @version 1.0
// @description Exchange rates, rounding policy, price recalculation and the historical price ledger.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := handlers.RegisterValidators(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	repos, closeRepos, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepos()

	if cfg.RedisURL != "" {
		rdb, err := newRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := rdb.Close(); cerr != nil {
				logger.Error("Error closing redis client", slog.String("error", cerr.Error()))
			}
		}()
		repos.ExchangeRateRepo = cache.NewExchangeRateCache(repos.ExchangeRateRepo, rdb, cfg.RateCacheTTL)
		logger.Info("Exchange rate lookups cached in redis.", slog.Duration("ttl", cfg.RateCacheTTL))
	}

	container := services.NewServiceContainer(cfg, repos)

	if err := container.Rounding.Load(ctx); err != nil {
		return fmt.Errorf("failed to load rounding configuration: %w", err)
	}
	if err := seedLocalCurrency(ctx, container.Currency, cfg.LocalCurrencyCode, logger); err != nil {
		return err
	}

	scheduler, err := scheduleRoundingRefresh(container.Rounding, cfg.RoundingRefreshSpec, logger)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		<-scheduler.Stop().Done()
	}()

	limiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("invalid RATE_LIMIT: %w", err)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		metrics.Middleware(),
		middleware.RateLimit(limiter),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	handlers.RegisterRoutes(r, cfg, container)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed to run: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildRepositories selects the storage backend. The returned func releases it.
func buildRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		logger.Warn("Using in-memory storage; data is lost on restart.")
		return memory.NewStore().Provider(), func() {}, nil

	case config.StorageDriverPostgres:
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, database.PoolOptions{
			MaxConns:        cfg.DBMaxConns,
			MaxConnLifetime: time.Hour,
			Ping:            cfg.EnableDBCheck,
		})
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		if err := runMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			database.ClosePgxPool(pool)
			return portsrepo.RepositoryProvider{}, nil, err
		}
		return pgsql.NewRepositoryProvider(pool), func() { database.ClosePgxPool(pool) }, nil

	default:
		return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// runMigrations applies every pending "up" migration through a short-lived
// database/sql connection on the pgx stdlib driver.
func runMigrations(databaseURL, migrationsPath string, logger *slog.Logger) error {
	logger.Info("Running database migrations...", slog.String("source", migrationsPath))

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database connection for migrations: %w", err)
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create postgres driver instance for migrations: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(migrationsPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", upErr)
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return fmt.Errorf("migration source error: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("migration database error: %w", dbErr)
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

func newRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	return rdb, nil
}

// seedLocalCurrency registers code as the local currency when none is stored yet.
func seedLocalCurrency(ctx context.Context, currencies portssvc.CurrencySvcFacade, code string, logger *slog.Logger) error {
	if code == "" {
		return nil
	}

	local, err := currencies.GetLocalCurrency(ctx)
	switch {
	case err == nil:
		if local.CurrencyCode != code {
			logger.Warn("LOCAL_CURRENCY_CODE differs from the stored local currency; keeping the stored one",
				slog.String("configured", code), slog.String("stored", local.CurrencyCode))
		}
		return nil
	case !errors.Is(err, apperrors.ErrNotFound):
		return fmt.Errorf("failed to look up local currency: %w", err)
	}

	_, err = currencies.CreateCurrency(ctx, dto.CreateCurrencyRequest{
		CurrencyCode: code,
		Symbol:       code,
		Name:         code,
		Precision:    2,
		IsLocal:      true,
	}, systemUserID)
	if err != nil {
		return fmt.Errorf("failed to seed local currency %s: %w", code, err)
	}
	logger.Info("Seeded local currency", slog.String("currencyCode", code))
	return nil
}

// scheduleRoundingRefresh keeps every instance on the latest stored rounding configuration.
func scheduleRoundingRefresh(rounding portssvc.RoundingSvcFacade, spec string, logger *slog.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := rounding.Refresh(ctx); err != nil {
			logger.Error("Failed to refresh rounding configuration", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid ROUNDING_REFRESH_SPEC %q: %w", spec, err)
	}
	return c, nil
}
