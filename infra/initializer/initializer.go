package initializer

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/amirasaad/ratesync/infra"
	infra_cache "github.com/amirasaad/ratesync/infra/cache"
	infra_eventbus "github.com/amirasaad/ratesync/infra/eventbus"
	"github.com/amirasaad/ratesync/infra/provider/openexchangerates"
	infra_repository "github.com/amirasaad/ratesync/infra/repository"
	"github.com/amirasaad/ratesync/pkg/cache"
	"github.com/amirasaad/ratesync/pkg/config"
	"github.com/amirasaad/ratesync/pkg/domain/events"
)

// InitializeDependencies initializes all the application dependencies
func InitializeDependencies(cfg *config.App) (
	deps *config.Deps,
	err error,
) {
	deps = &config.Deps{Config: cfg}
	logger := setupLogger(cfg.Log, os.Stderr)
	deps.Logger = logger

	// Initialize database
	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, err
	}

	// Initialize unit of work
	deps.Uow = infra_repository.NewUoW(db)

	// Initialize rate provider
	deps.RateProvider = openexchangerates.New(*cfg.Providers.OpenExchangeRates, logger)

	// Initialize currency cache
	deps.CurrencyCache, err = newCurrencyCache(cfg.CurrencyCache, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create currency cache: %w", err)
	}

	// Initialize event bus
	bus := infra_eventbus.NewWithMemory(logger)
	bus.Register(events.EventTypeRatesSynced.String(), logRatesSynced(logger))
	deps.EventBus = bus

	return
}

// newCurrencyCache uses Redis when a URL is configured and falls back to
// memory otherwise.
func newCurrencyCache(cfg *config.CurrencyCache, logger *slog.Logger) (cache.CurrencyCache, error) {
	if cfg == nil || cfg.Url == "" {
		logger.Info("Using in-memory currency cache")
		return infra_cache.NewMemoryCache(), nil
	}
	redisCache, err := infra_cache.NewRedisCurrencyCache(cfg.Url, cfg.Prefix, logger)
	if err != nil {
		return nil, err
	}
	if err := redisCache.Ping(context.Background()); err != nil {
		logger.Warn("Redis currency cache unreachable, using memory", "error", err)
		_ = redisCache.Close()
		return infra_cache.NewMemoryCache(), nil
	}
	logger.Info("Using Redis currency cache", "prefix", cfg.Prefix)
	return redisCache, nil
}

func logRatesSynced(logger *slog.Logger) func(ctx context.Context, e events.Event) error {
	return func(ctx context.Context, e events.Event) error {
		synced, ok := e.(events.RatesSynced)
		if !ok {
			return fmt.Errorf("unexpected event type %T", e)
		}
		logger.InfoContext(ctx, "Exchange rates synced",
			"scope", synced.Scope,
			"succeeded", synced.Succeeded,
			"failed", synced.Failed,
			"synced_at", synced.SyncedAt,
		)
		return nil
	}
}
