package scheduler

import "errors"

var (
	// ErrCheckpointNotFound is returned when no state exists for a session.
	ErrCheckpointNotFound = errors.New("checkpoint not found")

	// ErrSessionTerminal is returned when a turn arrives for a session whose
	// workflow already reached the complete state.
	ErrSessionTerminal = errors.New("session already complete")

	// ErrStaleInterrupt is returned when a resume references an interrupt
	// that is neither pending nor the most recently handled one.
	ErrStaleInterrupt = errors.New("stale interrupt id")
)
