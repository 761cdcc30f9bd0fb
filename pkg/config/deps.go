package config

import (
	"log/slog"

	"github.com/amirasaad/ratesync/pkg/cache"
	"github.com/amirasaad/ratesync/pkg/eventbus"
	"github.com/amirasaad/ratesync/pkg/provider"
	"github.com/amirasaad/ratesync/pkg/repository"
)

// Deps holds all infrastructure dependencies for building the hosts.
type Deps struct {
	Uow           repository.UnitOfWork
	RateProvider  provider.ExchangeRates
	CurrencyCache cache.CurrencyCache
	EventBus      eventbus.Bus
	Logger        *slog.Logger
	Config        *App
}
