package events

// EventType represents the type of an event in the system.
type EventType string

// Event type constants
const (
	// Record events
	EventTypeConfigSaved EventType = "ExchangeRateConfig.Saved"

	// Sync events
	EventTypeRatesSynced EventType = "ExchangeRates.Synced"
)

func (t EventType) String() string {
	return string(t)
}
