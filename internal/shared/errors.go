package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Connection errors. ErrNotConnected is a gating state, not a failure.
	ErrNotConnected    = fmt.Errorf("not connected to game client")
	ErrLockfileMissing = fmt.Errorf("lockfile not found")
	ErrInvalidLockfile = fmt.Errorf("invalid lockfile")

	// Fetch errors reach CDN-like sources: network or decoding failures.
	ErrFetch          = fmt.Errorf("fetch failed")
	ErrSourceNotFound = fmt.Errorf("source not found")
	ErrNoBuilds       = fmt.Errorf("no builds available")

	// Client API errors come from the local game client REST API.
	ErrClientAPI          = fmt.Errorf("client API request failed")
	ErrChampionNotFound   = fmt.Errorf("champion not found")
	ErrPageNotDeletable   = fmt.Errorf("current rune page is not deletable")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
