package app

import (
	"context"
	"fmt"

	"github.com/amirasaad/ratesync/pkg/config"
	"github.com/amirasaad/ratesync/pkg/controller"
	"github.com/amirasaad/ratesync/pkg/service/ratesync"
)

// App wires the rate sync backend and the controller from the
// infrastructure dependencies.
type App struct {
	Deps       *config.Deps
	Config     *config.App
	RateSync   *ratesync.Service
	Controller *controller.Controller
}

func New(deps *config.Deps, cfg *config.App) *App {
	opts := []ratesync.Option{ratesync.WithEventBus(deps.EventBus)}
	if cfg != nil && cfg.CurrencyCache != nil && cfg.CurrencyCache.TTL > 0 {
		opts = append(opts, ratesync.WithCacheTTL(cfg.CurrencyCache.TTL))
	}
	if cfg != nil && cfg.Sync != nil && cfg.Sync.RetentionDays > 0 {
		opts = append(opts, ratesync.WithRetentionDays(cfg.Sync.RetentionDays))
	}

	app := &App{
		Deps:   deps,
		Config: cfg,
	}
	app.RateSync = ratesync.New(deps.Uow, deps.RateProvider, deps.CurrencyCache, deps.Logger, opts...)
	app.Controller = controller.New(
		deps.Uow.ConfigRepository(),
		app.RateSync,
		deps.EventBus,
		deps.Logger,
	)
	return app
}

// Start loads the stored configuration into the controller.
func (a *App) Start(ctx context.Context) error {
	if err := a.Controller.Load(ctx); err != nil {
		return fmt.Errorf("failed to load exchange rate config: %w", err)
	}
	return nil
}
