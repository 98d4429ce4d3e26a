package models

import "errors"

// Common errors used across the application
var (
	// ErrDataUnavailable is returned when the schedule source cannot be
	// reached at all. An empty window is a valid result, an unverifiable
	// one is not, so this error is fatal to a backtest run.
	ErrDataUnavailable = errors.New("schedule data unavailable")

	// ErrUnknownTeam is returned when a raw team identifier has no entry
	// in the configured team name mapping.
	ErrUnknownTeam = errors.New("unknown team identifier")

	// ErrIncompleteStats is returned when a fetched stat record is missing
	// at least one stat required by the active scoring weights.
	ErrIncompleteStats = errors.New("incomplete stat record")

	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
