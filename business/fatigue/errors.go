package fatigue

import "errors"

var (
	// ErrInvalidFormat is returned for a creative format missing from the threshold table.
	ErrInvalidFormat = errors.New("invalid creative format")
	// ErrMissingBaseScore is returned when a blend lacks a creative, audience or algorithm score.
	ErrMissingBaseScore = errors.New("missing base score")
	ErrInvalidConfig    = errors.New("invalid scoring config")
	ErrInvalidQuery     = errors.New("invalid report query")
	// ErrInsufficientData is returned when no snapshot is available to score.
	ErrInsufficientData = errors.New("insufficient data")
)
