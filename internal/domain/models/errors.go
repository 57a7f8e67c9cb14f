package models

import "errors"

// Core error taxonomy. A remote outage with a cold cache is terminal
// (ErrDataUnavailable); thin history degrades to empty panels and neutral
// HOLD decisions rather than surfacing; bad input is rejected before any
// computation; a failed disk write is logged and the in-memory result is
// still returned.
var (
	ErrDataUnavailable     = errors.New("no price data available")
	ErrInsufficientHistory = errors.New("insufficient price history")
	ErrValidation          = errors.New("validation failed")
	ErrPersistence         = errors.New("persistence failed")
)

// IsInsufficientHistory reports whether err is the thin-history case.
func IsInsufficientHistory(err error) bool {
	return errors.Is(err, ErrInsufficientHistory)
}
