package controller

import (
	"errors"
	"fmt"
)

// ErrInvalidSyncTransition is returned when the orchestrator is asked to
// move between states that are not connected.
var ErrInvalidSyncTransition = errors.New("invalid sync state transition")

// SyncState is the rate-sync orchestrator state. Anything other than
// SyncIdle means a cycle started by the update button or by a connection
// test owns the current save.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncSavingViaButton
	SyncSyncing
)

func (s SyncState) String() string {
	switch s {
	case SyncSavingViaButton:
		return "saving"
	case SyncSyncing:
		return "syncing"
	default:
		return "idle"
	}
}

func (s SyncState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var syncTransitions = map[SyncState][]SyncState{
	SyncIdle:            {SyncSavingViaButton, SyncSyncing},
	SyncSavingViaButton: {SyncSyncing, SyncIdle},
	SyncSyncing:         {SyncIdle},
}

// Next validates the move from s to to.
func (s SyncState) Next(to SyncState) (SyncState, error) {
	for _, allowed := range syncTransitions[s] {
		if allowed == to {
			return to, nil
		}
	}
	return s, fmt.Errorf("%w: %s -> %s", ErrInvalidSyncTransition, s, to)
}
