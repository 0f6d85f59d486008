package sentinel

import "errors"

// Sentinel dependency errors. Stores, bundle sources, and data providers
// should return these (optionally wrapped) so services can translate them
// into domain errors exactly once.
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)
