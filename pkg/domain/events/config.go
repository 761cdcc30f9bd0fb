package events

import (
	"time"

	"github.com/amirasaad/ratesync/pkg/domain"
	"github.com/google/uuid"
)

// Event is implemented by everything published on the event bus.
type Event interface {
	Type() string
}

// ConfigSaved is published after the configuration record has been persisted
// through the controller. CycleID is set when the save belongs to a
// button-driven sync cycle and is uuid.Nil otherwise.
type ConfigSaved struct {
	ID      uuid.UUID
	CycleID uuid.UUID
	Record  *domain.ExchangeRateConfig
	SavedAt time.Time
}

func (e ConfigSaved) Type() string { return EventTypeConfigSaved.String() }

// NewConfigSaved snapshots record into a ConfigSaved event.
func NewConfigSaved(record *domain.ExchangeRateConfig, cycleID uuid.UUID) ConfigSaved {
	return ConfigSaved{
		ID:      uuid.New(),
		CycleID: cycleID,
		Record:  record.Clone(),
		SavedAt: time.Now().UTC(),
	}
}

// RatesSynced is published by the sync backend after a sync run.
type RatesSynced struct {
	ID        uuid.UUID
	Scope     string
	Succeeded []string
	Failed    []string
	SyncedAt  time.Time
}

func (e RatesSynced) Type() string { return EventTypeRatesSynced.String() }
