package automaton

import "errors"

var (
	// ErrValidation is returned when a pattern is rejected before insertion (empty text).
	ErrValidation = errors.New("invalid pattern")
	// ErrCapacityExceeded is returned when the pattern count or a node's child count would exceed its limit.
	ErrCapacityExceeded = errors.New("capacity exceeded")
	// ErrNotBuilt is returned when a scan is attempted before the automaton is built.
	ErrNotBuilt = errors.New("automaton not built")
	// ErrAlreadyBuilt is returned when a pattern is added after Build.
	ErrAlreadyBuilt = errors.New("automaton already built")
)
