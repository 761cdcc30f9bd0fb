// Package controller keeps the exchange rate source record consistent and
// sequences the remote operations hosts trigger on it.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/amirasaad/ratesync/pkg/currency"
	"github.com/amirasaad/ratesync/pkg/domain"
	"github.com/amirasaad/ratesync/pkg/domain/events"
	"github.com/amirasaad/ratesync/pkg/eventbus"
	"github.com/amirasaad/ratesync/pkg/notice"
	"github.com/amirasaad/ratesync/pkg/repository"
)

// State is everything the controller tracks between handler runs.
type State struct {
	Record  *domain.ExchangeRateConfig
	Dirty   bool
	Sync    SyncState
	CycleID uuid.UUID

	// version increments on every local edit so handlers resuming after a
	// remote call can tell whether the record moved underneath them.
	version uint64
}

// View is the derived state hosts render.
type View struct {
	Record      *domain.ExchangeRateConfig `json:"record"`
	Constraints FieldConstraints           `json:"constraints"`
	Dirty       bool                       `json:"dirty"`
	Verified    bool                       `json:"verified"`
	SyncState   SyncState                  `json:"sync_state"`
}

// Controller owns the exchange rate source record on behalf of a host.
type Controller struct {
	mu    sync.Mutex
	state State

	repo     repository.ConfigRepository
	backend  Backend
	bus      eventbus.Bus
	validate *validator.Validate
	logger   *slog.Logger
}

// New builds a controller and subscribes it to the after-save event on bus.
func New(
	repo repository.ConfigRepository,
	backend Backend,
	bus eventbus.Bus,
	logger *slog.Logger,
) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		repo:     repo,
		backend:  backend,
		bus:      bus,
		validate: validator.New(),
		logger:   logger.With("component", "exchange_rate_controller"),
	}
	bus.Register(events.EventTypeConfigSaved.String(), c.handleConfigSaved)
	return c
}

// Load reads the canonical record, fills the provider default and applies
// the plan gate.
func (c *Controller) Load(ctx context.Context) error {
	rec, err := c.repo.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load exchange rate config: %w", err)
	}

	changed := false
	if strings.TrimSpace(rec.APIProvider) == "" {
		rec.APIProvider = domain.DefaultAPIProvider
		changed = true
	}
	gate := EnforcePlanGate(rec)
	if changed || gate != nil {
		if err := c.repo.Save(ctx, rec); err != nil {
			return fmt.Errorf("failed to save exchange rate config: %w", err)
		}
	}
	if gate != nil {
		c.notify(ctx, *gate)
	}

	c.mu.Lock()
	c.state.Record = rec
	c.state.Dirty = false
	c.state.version++
	c.mu.Unlock()
	c.logger.Debug("Exchange rate config loaded", "enabled", rec.Enabled, "plan", rec.Plan)
	return nil
}

// View returns the current derived state.
func (c *Controller) View(ctx context.Context) (View, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return View{}, err
	}
	s := c.snapshot()
	return View{
		Record:      s.Record,
		Constraints: Resolve(s.Record, s.Dirty),
		Dirty:       s.Dirty,
		Verified:    Verified(s.Record, s.Dirty),
		SyncState:   s.Sync,
	}, nil
}

// Save persists the in-memory record as an explicit user save.
func (c *Controller) Save(ctx context.Context) error {
	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}
	return c.persist(ctx, uuid.Nil)
}

func (c *Controller) ensureLoaded(ctx context.Context) error {
	c.mu.Lock()
	loaded := c.state.Record != nil
	c.mu.Unlock()
	if loaded {
		return nil
	}
	return c.Load(ctx)
}

// snapshot copies the state so it can be read without holding the lock.
func (c *Controller) snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Record = c.state.Record.Clone()
	return s
}

// persist normalises, validates and stores the in-memory record, then
// publishes the after-save event tagged with cycleID.
func (c *Controller) persist(ctx context.Context, cycleID uuid.UUID) error {
	c.mu.Lock()
	rec := c.state.Record.Clone()
	version := c.state.version
	c.mu.Unlock()

	rec.BaseCurrencies = currency.NormalizeList(rec.BaseCurrencies)
	rec.TargetCurrencies = currency.NormalizeList(rec.TargetCurrencies)
	if err := c.validate.Struct(rec); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	gate := EnforcePlanGate(rec)

	if err := c.repo.Save(ctx, rec); err != nil {
		return fmt.Errorf("failed to save exchange rate config: %w", err)
	}
	if gate != nil {
		c.notify(ctx, *gate)
	}

	c.mu.Lock()
	if c.state.version == version {
		c.state.Record = rec.Clone()
		c.state.Dirty = false
	}
	c.mu.Unlock()
	c.logger.Info("Exchange rate config saved", "cycle_id", cycleID)

	if err := c.bus.Emit(ctx, events.NewConfigSaved(rec, cycleID)); err != nil {
		c.logger.Warn("After-save handlers reported errors", "error", err)
	}
	return nil
}

// reload replaces the in-memory record with the stored one. When the record
// was edited after since was captured, the edits are kept and only the
// fields the backend owns are refreshed.
func (c *Controller) reload(ctx context.Context, since uint64) error {
	rec, err := c.repo.Get(ctx)
	if err != nil {
		c.logger.Error("Failed to reload exchange rate config", "error", err)
		return fmt.Errorf("failed to reload exchange rate config: %w", err)
	}
	if gate := EnforcePlanGate(rec); gate != nil {
		if err := c.repo.Save(ctx, rec); err != nil {
			return fmt.Errorf("failed to save exchange rate config: %w", err)
		}
		c.notify(ctx, *gate)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Record != nil && c.state.version != since {
		mergeBackendFields(c.state.Record, rec)
		EnforcePlanGate(c.state.Record)
		return nil
	}
	c.state.Record = rec
	c.state.Dirty = false
	return nil
}

// mergeBackendFields copies the fields only the backend writes from stored
// into local. The connection result is only carried over while local still
// holds the credentials it was obtained with.
func mergeBackendFields(local, stored *domain.ExchangeRateConfig) {
	if local.APIKey == stored.APIKey && local.Enabled == stored.Enabled {
		local.ConnectionSuccess = stored.ConnectionSuccess
	}
	local.APIStatus = stored.APIStatus
	local.Plan = stored.Plan
	local.Quota = stored.Quota
	local.FromCurrencyMode = stored.FromCurrencyMode
	local.BaseCurrencies = append([]string(nil), stored.BaseCurrencies...)
}

func (c *Controller) notify(ctx context.Context, n notice.Notice) {
	if col := notice.FromContext(ctx); col != nil {
		col.Add(n)
	}
	attrs := []any{"severity", string(n.Severity), "message", n.Message}
	if n.Title != "" {
		attrs = append(attrs, "title", n.Title)
	}
	if n.Severity == notice.SeverityError {
		c.logger.Warn("Notice", attrs...)
		return
	}
	c.logger.Info("Notice", attrs...)
}

// handleConfigSaved is the after-save hook delivered by the event bus.
func (c *Controller) handleConfigSaved(ctx context.Context, e events.Event) error {
	saved, ok := e.(events.ConfigSaved)
	if !ok {
		return errors.New("unexpected event payload for config saved")
	}
	return c.syncAfterSave(ctx, saved.CycleID)
}
