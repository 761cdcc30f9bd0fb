// Package ratesync is the backend side of the exchange rate source: it talks
// to the rate provider and keeps the stored rates and base currencies
// current.
package ratesync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/amirasaad/ratesync/pkg/cache"
	"github.com/amirasaad/ratesync/pkg/controller"
	"github.com/amirasaad/ratesync/pkg/currency"
	"github.com/amirasaad/ratesync/pkg/domain"
	"github.com/amirasaad/ratesync/pkg/eventbus"
	"github.com/amirasaad/ratesync/pkg/provider"
	"github.com/amirasaad/ratesync/pkg/repository"
)

// ---- Errors ----

var (
	// ErrSyncDisabled is returned by operations that only run while the
	// source is enabled.
	ErrSyncDisabled = errors.New("exchange rate sync is disabled")
)

// ---- Constants ----

const (
	// DefaultCacheTTL is how long the provider's currency list is cached.
	DefaultCacheTTL = 24 * time.Hour
	// CurrenciesCacheKey is the cache key of the provider's currency list.
	CurrenciesCacheKey = "currencies"
	// DefaultRetentionDays keeps today's and yesterday's rates when pruning.
	DefaultRetentionDays = 1

	msgSyncSucceeded = "Exchange rate sync completed successfully."
	msgConnectionOK  = "Connection successful. Fields have been updated."
)

// ---- Service ----

// Service implements controller.Backend on top of a rate provider and the
// repositories.
type Service struct {
	uow           repository.UnitOfWork
	provider      provider.ExchangeRates
	cache         cache.CurrencyCache
	bus           eventbus.Bus
	logger        *slog.Logger
	cacheTTL      time.Duration
	retentionDays int
	now           func() time.Time
	group         singleflight.Group
}

// Option configures a Service.
type Option func(*Service)

// WithCacheTTL overrides DefaultCacheTTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithRetentionDays sets how many days before today survive PruneRates.
func WithRetentionDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.retentionDays = days
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithEventBus publishes a RatesSynced event after every sync run.
func WithEventBus(bus eventbus.Bus) Option {
	return func(s *Service) {
		s.bus = bus
	}
}

// New creates the rate sync backend.
func New(
	uow repository.UnitOfWork,
	rates provider.ExchangeRates,
	currencies cache.CurrencyCache,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		uow:           uow,
		provider:      rates,
		cache:         currencies,
		logger:        logger.With("service", "RateSync", "provider", rates.Name()),
		cacheTTL:      DefaultCacheTTL,
		retentionDays: DefaultRetentionDays,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ controller.Backend = (*Service)(nil)

func (s *Service) config(ctx context.Context) (*domain.ExchangeRateConfig, error) {
	cfg, err := s.uow.ConfigRepository().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load exchange rate config: %w", err)
	}
	return cfg, nil
}

// TestConnection checks the stored API key against the provider's usage
// endpoint. Provider-reported errors are returned as a failure payload.
func (s *Service) TestConnection(ctx context.Context) (*controller.ConnectionResult, error) {
	cfg, err := s.config(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return connectionFailure("missing_app_id"), nil
	}

	account, err := s.provider.Usage(ctx, cfg.APIKey)
	if err != nil {
		if apiErr, ok := provider.AsAPIError(err); ok {
			s.logger.Warn("Connection test rejected by provider",
				"status", apiErr.StatusCode, "code", apiErr.Code)
			return connectionFailure(apiErr.Code), nil
		}
		return nil, fmt.Errorf("failed to test connection: %w", err)
	}

	status := account.Status
	if status == "" {
		status = "active"
	}
	s.logger.Info("Connection test succeeded", "plan", account.Plan.Name, "base", account.Plan.Features.Base)
	return &controller.ConnectionResult{
		Status:      controller.StatusSuccess,
		Message:     msgConnectionOK,
		Plan:        orNotAvailable(account.Plan.Name),
		Quota:       orNotAvailable(account.Plan.Quota),
		APIStatus:   status,
		BaseEnabled: account.Plan.Features.Base,
	}, nil
}

func connectionFailure(code string) *controller.ConnectionResult {
	if code == "" {
		code = "Unknown Error"
	}
	explanation := provider.Explain(code)
	return &controller.ConnectionResult{
		Status:    controller.StatusFailure,
		ErrorCode: code,
		Message:   fmt.Sprintf("Connection failed: %s — %s", code, explanation),
		APIStatus: explanation,
	}
}

// GetAPIUsage returns the request counters of apiKey.
func (s *Service) GetAPIUsage(ctx context.Context, apiKey string) (*provider.Usage, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, provider.ErrMissingAPIKey
	}
	account, err := s.provider.Usage(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch usage info: %w", err)
	}
	usage := account.Usage
	return &usage, nil
}

// ListBaseCurrencies returns the stored base currencies.
func (s *Service) ListBaseCurrencies(ctx context.Context) ([]string, error) {
	cfg, err := s.config(ctx)
	if err != nil {
		return nil, err
	}
	return currency.NormalizeList(cfg.BaseCurrencies), nil
}

// ListAllCurrencies returns every currency the provider supports. The list
// is cached and concurrent misses share one provider call.
func (s *Service) ListAllCurrencies(ctx context.Context) ([]string, error) {
	if codes, ok, err := s.cache.Get(ctx, CurrenciesCacheKey); err != nil {
		s.logger.Warn("Currency cache read failed", "error", err)
	} else if ok {
		return codes, nil
	}

	v, err, shared := s.group.Do(CurrenciesCacheKey, func() (any, error) {
		codes, err := s.provider.Currencies(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list provider currencies: %w", err)
		}
		codes = currency.NormalizeList(codes)
		if err := s.cache.Set(ctx, CurrenciesCacheKey, codes, s.cacheTTL); err != nil {
			s.logger.Warn("Currency cache write failed", "error", err)
		}
		return codes, nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Currencies fetched from provider", "shared", shared)
	codes := v.([]string)
	return append([]string(nil), codes...), nil
}

// AddBaseCurrency stores code as a base currency and syncs its rates. It
// reports false when the follow-up sync did not fully succeed.
func (s *Service) AddBaseCurrency(ctx context.Context, code string) (bool, error) {
	code = currency.Normalize(code)
	if !currency.Valid(code) {
		return false, fmt.Errorf("%w: %q", domain.ErrInvalidCurrencyCode, code)
	}
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		cfg, err := uow.ConfigRepository().Get(ctx)
		if err != nil {
			return err
		}
		if cfg.HasBaseCurrency(code) {
			return fmt.Errorf("%w: base currency %s", domain.ErrAlreadyExists, code)
		}
		cfg.BaseCurrencies = append(currency.NormalizeList(cfg.BaseCurrencies), code)
		return uow.ConfigRepository().Save(ctx, cfg)
	})
	if err != nil {
		return false, fmt.Errorf("failed to add base currency: %w", err)
	}
	s.logger.Info("Base currency added", "currency", code)

	report, err := s.sync(ctx, code)
	if err != nil {
		return false, err
	}
	return report.complete(), nil
}

// RemoveBaseCurrency drops code from the base currencies.
func (s *Service) RemoveBaseCurrency(ctx context.Context, code string) error {
	code = currency.Normalize(code)
	if currency.IsAll(code) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidCurrencyCode, code)
	}
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		cfg, err := uow.ConfigRepository().Get(ctx)
		if err != nil {
			return err
		}
		if !cfg.HasBaseCurrency(code) {
			return fmt.Errorf("%w: base currency %s", domain.ErrNotFound, code)
		}
		kept := make([]string, 0, len(cfg.BaseCurrencies))
		for _, c := range cfg.BaseCurrencies {
			if c != code {
				kept = append(kept, c)
			}
		}
		cfg.BaseCurrencies = kept
		return uow.ConfigRepository().Save(ctx, cfg)
	})
	if err != nil {
		return fmt.Errorf("failed to remove base currency: %w", err)
	}
	s.logger.Info("Base currency removed", "currency", code)
	return nil
}

// PruneRates deletes stored rates older than the retention window and
// returns how many rows went.
func (s *Service) PruneRates(ctx context.Context) (int64, error) {
	cfg, err := s.config(ctx)
	if err != nil {
		return 0, err
	}
	if !cfg.Enabled {
		s.logger.Warn("Prune skipped, sync not enabled")
		return 0, ErrSyncDisabled
	}
	cutoff := domain.Day(s.now()).AddDate(0, 0, -s.retentionDays)
	deleted, err := s.uow.RateRepository().DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune exchange rates: %w", err)
	}
	s.logger.Info("Pruned exchange rates", "before", cutoff.Format(time.DateOnly), "deleted", deleted)
	return deleted, nil
}

func orNotAvailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return domain.NotAvailable
	}
	return s
}
