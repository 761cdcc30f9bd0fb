package controller

import (
	"context"

	"github.com/google/uuid"

	"github.com/amirasaad/ratesync/pkg/currency"
	"github.com/amirasaad/ratesync/pkg/notice"
)

// Trigger says what asked for a rate sync.
type Trigger int

const (
	TriggerButton Trigger = iota
	TriggerAfterSave
)

func (t Trigger) String() string {
	if t == TriggerAfterSave {
		return "after_save"
	}
	return "button"
}

const (
	msgSyncAlreadyRunning = "An exchange rate update is already running."
	msgSyncFalsy          = "Exchange rates could not be updated. " +
		"Check the API configuration and plan permissions."
	msgSyncTransport = "Server error while updating exchange rates."
)

// UpdateExchangeRates syncs every base currency. At most one remote sync is
// issued per logical user action: a button press that has to save first
// owns the resulting after-save event.
func (c *Controller) UpdateExchangeRates(ctx context.Context, trigger Trigger) error {
	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}
	if trigger == TriggerAfterSave {
		return c.syncAfterSave(ctx, uuid.Nil)
	}
	return c.syncFromButton(ctx)
}

func (c *Controller) syncFromButton(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Sync != SyncIdle {
		c.mu.Unlock()
		c.notify(ctx, notice.Info(msgSyncAlreadyRunning))
		return nil
	}
	if !c.state.Record.Enabled {
		c.mu.Unlock()
		c.notify(ctx, notice.Info(msgEnableFirst))
		return nil
	}
	dirty := c.state.Dirty
	next := SyncSyncing
	if dirty {
		next = SyncSavingViaButton
	}
	cycle := uuid.New()
	c.state.Sync, _ = c.state.Sync.Next(next)
	c.state.CycleID = cycle
	c.mu.Unlock()
	defer c.endCycle(cycle)

	log := c.logger.With("cycle_id", cycle, "trigger", TriggerButton.String())
	if dirty {
		log.Debug("Saving before exchange rate sync")
		if err := c.persist(ctx, cycle); err != nil {
			return err
		}
		if err := c.advanceCycle(cycle, SyncSyncing); err != nil {
			return err
		}
	}

	// The save above may have raced with edits or the record being disabled.
	s := c.snapshot()
	if !s.Record.Enabled {
		c.notify(ctx, notice.Info(msgEnableFirst))
		return nil
	}
	log.Info("Updating exchange rates")
	return c.runSync(ctx, currency.All, s.version, true)
}

func (c *Controller) syncAfterSave(ctx context.Context, cycleID uuid.UUID) error {
	s := c.snapshot()
	log := c.logger.With("cycle_id", cycleID, "trigger", TriggerAfterSave.String())
	if s.Sync != SyncIdle {
		log.Debug("After-save sync suppressed, a button cycle owns this save",
			"owner_cycle_id", s.CycleID, "state", s.Sync.String())
		return nil
	}
	if !Verified(s.Record, s.Dirty) {
		log.Debug("After-save sync skipped, record is not verified")
		return nil
	}

	cycle := uuid.New()
	c.mu.Lock()
	if c.state.Sync != SyncIdle {
		c.mu.Unlock()
		return nil
	}
	c.state.Sync, _ = c.state.Sync.Next(SyncSyncing)
	c.state.CycleID = cycle
	c.mu.Unlock()
	defer c.endCycle(cycle)

	log.Info("Updating exchange rates")
	return c.runSync(ctx, currency.All, s.version, true)
}

// runSync issues one remote sync and reports its outcome. reload controls
// whether the canonical record is re-read afterwards; transport failures
// always reload.
func (c *Controller) runSync(ctx context.Context, scope string, since uint64, reload bool) error {
	res, err := c.backend.SyncRates(ctx, scope)
	if err != nil {
		c.logger.Error("Exchange rate sync failed", "scope", scope, "error", err)
		c.notify(ctx, notice.Error("Error", msgSyncTransport))
		return c.reload(ctx, since)
	}
	if !res.Truthy() {
		c.notify(ctx, notice.Error("Update Failed", msgSyncFalsy))
	} else {
		c.notify(ctx, notice.Success("Exchange Rates Updated", res.Message))
	}
	if !reload {
		return nil
	}
	return c.reload(ctx, since)
}

// advanceCycle moves the cycle it owns to the next state.
func (c *Controller) advanceCycle(cycle uuid.UUID, to SyncState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.CycleID != cycle {
		return nil
	}
	next, err := c.state.Sync.Next(to)
	if err != nil {
		return err
	}
	c.state.Sync = next
	return nil
}

// endCycle returns the orchestrator to idle if cycle still owns it.
func (c *Controller) endCycle(cycle uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.CycleID != cycle {
		return
	}
	c.state.Sync = SyncIdle
	c.state.CycleID = uuid.Nil
}
