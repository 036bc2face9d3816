package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrUpstream indicates a transport-level failure against the directory API
	ErrUpstream = errors.New("directory request failed")

	// ErrMirrorsUnreachable indicates no API mirror answered the health probe
	ErrMirrorsUnreachable = errors.New("no reachable API mirror")

	// ErrStationNotFound indicates the requested station does not exist
	ErrStationNotFound = errors.New("station not found")

	// ErrCategoryNotFound indicates the requested category does not exist
	ErrCategoryNotFound = errors.New("category not found")
)
