package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/amirasaad/ratesync/pkg/domain"
	"github.com/amirasaad/ratesync/pkg/notice"
)

const (
	msgEnableFirst        = "Please enable first."
	msgEnterAPIKey        = "Please enter an API Key first."
	msgConnectionServer   = "Server error while testing connection."
	msgTestConnectionNext = "Please test the connection first."
)

// TestConnection verifies the stored credentials against the provider. A
// dirty record is saved instead and the caller has to test again.
func (c *Controller) TestConnection(ctx context.Context) error {
	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}
	s := c.snapshot()
	if !s.Record.Enabled {
		c.notify(ctx, notice.Info(msgEnableFirst))
		return nil
	}
	if s.Dirty {
		return c.saveSilently(ctx)
	}
	if strings.TrimSpace(s.Record.APIKey) == "" {
		c.notify(ctx, notice.Info(msgEnterAPIKey))
		return nil
	}

	res, err := c.backend.TestConnection(ctx)
	if err != nil {
		c.logger.Error("Connection test failed", "error", err)
		if err := c.storeConnectionResult(ctx, func(rec *domain.ExchangeRateConfig) {
			rec.MarkConnectionFailed(msgConnectionServer)
		}); err != nil {
			return err
		}
		c.notify(ctx, notice.Error("Error", msgConnectionServer))
		return c.reload(ctx, s.version)
	}

	if !res.Succeeded() {
		status := res.APIStatus
		if status == "" {
			status = res.Message
		}
		if err := c.storeConnectionResult(ctx, func(rec *domain.ExchangeRateConfig) {
			rec.MarkConnectionFailed(status)
		}); err != nil {
			return err
		}
		c.notify(ctx, notice.Error("Connection Failed", formatConnectionFailure(res)))
		return c.reload(ctx, s.version)
	}

	if err := c.storeConnectionResult(ctx, func(rec *domain.ExchangeRateConfig) {
		rec.ConnectionSuccess = domain.ConnectionSucceeded
		rec.Plan = orNotAvailable(res.Plan)
		rec.Quota = orNotAvailable(res.Quota)
		rec.APIStatus = res.APIStatus
		rec.FromCurrencyMode = domain.FromCurrencyUSDOnly
		if res.BaseEnabled {
			rec.FromCurrencyMode = domain.FromCurrencyAll
		}
	}); err != nil {
		return err
	}
	c.notify(ctx, notice.Success("Connection Successful", formatConnectionSuccess(res)))
	return c.reload(ctx, s.version)
}

// saveSilently persists the record inside a cycle of its own so the
// after-save hook sees a busy orchestrator and issues no sync.
func (c *Controller) saveSilently(ctx context.Context) error {
	c.mu.Lock()
	cycle := uuid.Nil
	if c.state.Sync == SyncIdle {
		cycle = uuid.New()
		c.state.Sync, _ = c.state.Sync.Next(SyncSavingViaButton)
		c.state.CycleID = cycle
	}
	c.mu.Unlock()
	if cycle != uuid.Nil {
		defer c.endCycle(cycle)
	}
	c.logger.Debug("Saving before connection test", "cycle_id", cycle)
	return c.persist(ctx, cycle)
}

// storeConnectionResult applies a connection outcome to the stored record.
// It writes through the repository so no after-save event is published.
func (c *Controller) storeConnectionResult(ctx context.Context, apply func(*domain.ExchangeRateConfig)) error {
	rec, err := c.repo.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load exchange rate config: %w", err)
	}
	apply(rec)
	gate := EnforcePlanGate(rec)
	if err := c.repo.Save(ctx, rec); err != nil {
		return fmt.Errorf("failed to save connection result: %w", err)
	}
	if gate != nil {
		c.notify(ctx, *gate)
	}
	return nil
}

func formatConnectionSuccess(res *ConnectionResult) string {
	base := "USD only"
	if res.BaseEnabled {
		base = "all currencies"
	}
	return fmt.Sprintf("Status: %s\n%s\nBase currencies: %s", res.Status, res.Message, base)
}

func formatConnectionFailure(res *ConnectionResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Status: %s", res.Status)
	if res.ErrorCode != "" {
		fmt.Fprintf(&b, "\nError code: %s", res.ErrorCode)
	}
	if res.Message != "" {
		fmt.Fprintf(&b, "\n%s", res.Message)
	}
	return b.String()
}

func orNotAvailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return domain.NotAvailable
	}
	return s
}
