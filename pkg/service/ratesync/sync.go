package ratesync

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amirasaad/ratesync/pkg/controller"
	"github.com/amirasaad/ratesync/pkg/currency"
	"github.com/amirasaad/ratesync/pkg/domain"
	"github.com/amirasaad/ratesync/pkg/domain/events"
	"github.com/amirasaad/ratesync/pkg/provider"
	"github.com/amirasaad/ratesync/pkg/repository"
)

// report collects the per-base outcome of one sync run.
type report struct {
	ok         bool
	reason     string
	succeeded  []string
	failed     []string
	lines      []string
	permission int
}

func (r *report) complete() bool {
	return r.ok && len(r.failed) == 0 && len(r.succeeded) > 0
}

func (r *report) result() *controller.SyncResult {
	switch {
	case !r.ok:
		return &controller.SyncResult{OK: false, Message: r.reason}
	case len(r.failed) == 0:
		return &controller.SyncResult{OK: true, Message: msgSyncSucceeded}
	case len(r.succeeded) == 0 && r.permission == len(r.failed):
		return &controller.SyncResult{
			OK:      false,
			Message: "Exchange rate sync failed for all bases:\n" + strings.Join(r.lines, "\n"),
		}
	case len(r.succeeded) == 0:
		return &controller.SyncResult{
			OK:      true,
			Message: "Exchange rate sync failed for all bases:\n" + strings.Join(r.lines, "\n"),
		}
	default:
		return &controller.SyncResult{
			OK: true,
			Message: fmt.Sprintf("Exchange rate sync completed with issues (%d succeeded, %d failed):\n%s",
				len(r.succeeded), len(r.failed), strings.Join(r.lines, "\n")),
		}
	}
}

// SyncRates fetches today's rates for scope, a base currency or "All", and
// stores both directions of every pair.
func (s *Service) SyncRates(ctx context.Context, scope string) (*controller.SyncResult, error) {
	r, err := s.sync(ctx, scope)
	if err != nil {
		return nil, err
	}
	return r.result(), nil
}

func (s *Service) sync(ctx context.Context, scope string) (*report, error) {
	cfg, err := s.config(ctx)
	if err != nil {
		return nil, err
	}
	log := s.logger.With("scope", scope)

	r := &report{}
	bases := currency.NormalizeList(cfg.BaseCurrencies)
	targets := currency.NormalizeList(cfg.TargetCurrencies)
	switch {
	case !cfg.Enabled:
		r.reason = "Exchange rate sync is disabled in Exchange Rate Config"
	case strings.TrimSpace(cfg.APIKey) == "":
		r.reason = "Missing API key in Exchange Rate Config"
	case len(bases) == 0:
		r.reason = "No base currencies configured in From Currency Table"
	case len(targets) == 0:
		r.reason = "No target currencies configured in To Currency Table"
	}
	if r.reason != "" {
		log.Warn("Exchange rate sync not run", "reason", r.reason)
		return r, nil
	}

	if !currency.IsAll(scope) {
		code := currency.Normalize(scope)
		if !slices.Contains(bases, code) {
			r.reason = fmt.Sprintf("%s is not a base currency", code)
			log.Warn("Exchange rate sync not run", "reason", r.reason)
			return r, nil
		}
		bases = []string{code}
	}

	r.ok = true
	today := domain.Day(s.now())
	for _, base := range bases {
		s.syncBase(ctx, cfg.APIKey, base, targets, today, r)
	}
	log.Info("Exchange rate sync finished",
		"succeeded", len(r.succeeded), "failed", len(r.failed))
	s.publish(ctx, scope, r)
	return r, nil
}

func (s *Service) syncBase(
	ctx context.Context,
	apiKey, base string,
	targets []string,
	today time.Time,
	r *report,
) {
	log := s.logger.With("base", base)
	symbols := currency.Complement(targets, []string{base})
	if len(symbols) == 0 {
		r.lines = append(r.lines, fmt.Sprintf("Skipped %s: no target currencies after excluding base.", base))
		return
	}

	latest, err := s.provider.Latest(ctx, apiKey, base, symbols)
	if err != nil {
		log.Error("Failed to fetch rates", "error", err)
		r.failed = append(r.failed, base)
		if errors.Is(err, provider.ErrNoRates) {
			r.lines = append(r.lines, fmt.Sprintf("No rates returned for base %s", base))
			return
		}
		if apiErr, ok := provider.AsAPIError(err); ok {
			if apiErr.IsPermission() {
				r.permission++
			}
			r.lines = append(r.lines,
				fmt.Sprintf("API request failed for base %s with status code %d", base, apiErr.StatusCode))
			return
		}
		r.lines = append(r.lines, fmt.Sprintf("Network error while fetching rates for base %s", base))
		return
	}
	rows := make([]domain.CurrencyExchange, 0, 2*len(latest.Rates))
	for _, to := range symbols {
		rate, ok := latest.Rates[to]
		if !ok || rate.IsZero() {
			continue
		}
		direct := domain.NewCurrencyExchange(today, base, to, rate)
		inverse, _ := direct.Inverse()
		rows = append(rows, direct, inverse)
	}

	var written int
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		n, err := uow.RateRepository().Upsert(ctx, rows)
		written = n
		return err
	})
	if err != nil {
		log.Error("Failed to store rates", "error", err)
		r.failed = append(r.failed, base)
		r.lines = append(r.lines, fmt.Sprintf("Failed to store rates for base %s", base))
		return
	}
	log.Debug("Stored rates", "rows", written)
	r.succeeded = append(r.succeeded, base)
	r.lines = append(r.lines, fmt.Sprintf("Updated %d pairs for base %s.", len(rows)/2, base))
}

func (s *Service) publish(ctx context.Context, scope string, r *report) {
	if s.bus == nil {
		return
	}
	e := events.RatesSynced{
		ID:        uuid.New(),
		Scope:     scope,
		Succeeded: r.succeeded,
		Failed:    r.failed,
		SyncedAt:  s.now().UTC(),
	}
	if err := s.bus.Emit(ctx, e); err != nil {
		s.logger.Warn("RatesSynced handlers reported errors", "error", err)
	}
}
