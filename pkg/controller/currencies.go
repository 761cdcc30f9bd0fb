package controller

import (
	"context"
	"fmt"

	"github.com/amirasaad/ratesync/pkg/currency"
	"github.com/amirasaad/ratesync/pkg/notice"
)

const (
	msgSelectCurrency    = "Please select a currency."
	msgAddPartial        = "Currency added, but some rates could not be updated."
	msgAddTransport      = "Server error while adding currency."
	msgRemoveTransport   = "Server error while removing currency."
	msgCurrenciesFailure = "Server error while loading currencies."
)

// Candidates computes the selector lists from the provider universe and the
// stored base currencies.
func (c *Controller) Candidates(ctx context.Context) (currency.Candidates, error) {
	universe, err := c.backend.ListAllCurrencies(ctx)
	if err != nil {
		return currency.Candidates{}, fmt.Errorf("failed to list currencies: %w", err)
	}
	base, err := c.backend.ListBaseCurrencies(ctx)
	if err != nil {
		return currency.Candidates{}, fmt.Errorf("failed to list base currencies: %w", err)
	}
	return currency.NewCandidates(universe, base), nil
}

// AddCurrency adds code to the base currencies and fetches its rates.
func (c *Controller) AddCurrency(ctx context.Context, code string) error {
	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}
	s := c.snapshot()
	if !Verified(s.Record, s.Dirty) {
		c.notify(ctx, notice.Info(msgTestConnectionNext))
		return nil
	}
	code = currency.Normalize(code)
	if code == "" || currency.IsAll(code) {
		c.notify(ctx, notice.Info(msgSelectCurrency))
		return nil
	}
	if s.Record.HasBaseCurrency(code) {
		c.notify(ctx, notice.Info(fmt.Sprintf("%s is already a base currency.", code)))
		return nil
	}

	universe, err := c.backend.ListAllCurrencies(ctx)
	if err != nil {
		c.logger.Error("Failed to list currencies", "error", err)
		c.notify(ctx, notice.Error("Error", msgCurrenciesFailure))
		return nil
	}
	if !currency.Contains(universe, code) {
		c.notify(ctx, notice.Info(fmt.Sprintf("%s is not supported by the provider.", code)))
		return nil
	}

	ok, err := c.backend.AddBaseCurrency(ctx, code)
	if err != nil {
		c.logger.Error("Failed to add base currency", "currency", code, "error", err)
		c.notify(ctx, notice.Error("Error", msgAddTransport))
		return c.reload(ctx, s.version)
	}
	if !ok {
		c.notify(ctx, notice.Error("Update Failed", msgAddPartial))
		return c.reload(ctx, s.version)
	}
	if err := c.reload(ctx, s.version); err != nil {
		return err
	}
	c.notify(ctx, notice.Success("Currency Added", fmt.Sprintf("Base currency %s added.", code)))
	return nil
}

// RemoveCurrency drops code from the base currencies. The "All" selector
// entry is never a valid argument.
func (c *Controller) RemoveCurrency(ctx context.Context, code string) error {
	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}
	s := c.snapshot()
	if !Verified(s.Record, s.Dirty) {
		c.notify(ctx, notice.Info(msgTestConnectionNext))
		return nil
	}
	code = currency.Normalize(code)
	if code == "" || currency.IsAll(code) || !s.Record.HasBaseCurrency(code) {
		c.notify(ctx, notice.Info(msgSelectCurrency))
		return nil
	}

	if err := c.backend.RemoveBaseCurrency(ctx, code); err != nil {
		c.logger.Error("Failed to remove base currency", "currency", code, "error", err)
		c.notify(ctx, notice.Error("Error", msgRemoveTransport))
		return c.reload(ctx, s.version)
	}
	if err := c.reload(ctx, s.version); err != nil {
		return err
	}
	c.notify(ctx, notice.Success("Currency Removed", fmt.Sprintf("Base currency %s removed.", code)))
	return nil
}

// UpdateRatesFor resyncs one base currency, or all of them for "All". The
// base currency set does not change, so the record is not reloaded.
func (c *Controller) UpdateRatesFor(ctx context.Context, code string) error {
	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}
	s := c.snapshot()
	if !Verified(s.Record, s.Dirty) {
		c.notify(ctx, notice.Info(msgTestConnectionNext))
		return nil
	}
	scope := currency.All
	if !currency.IsAll(code) {
		scope = currency.Normalize(code)
		if scope == "" || !s.Record.HasBaseCurrency(scope) {
			c.notify(ctx, notice.Info(msgSelectCurrency))
			return nil
		}
	}
	c.logger.Info("Updating exchange rates", "scope", scope)
	return c.runSync(ctx, scope, s.version, false)
}
