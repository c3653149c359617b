package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSourceDisabled indicates an indexing run was requested for a
	// source whose enabled flag is off.
	ErrSourceDisabled = errors.New("source disabled")

	// ErrMissingConfig indicates a source is missing a required
	// configuration key (e.g. a local path or a repo slug).
	ErrMissingConfig = errors.New("missing required config")

	// ErrFetchFailed indicates the fetch layer could not produce a local
	// directory for a source and no cached copy was available.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrUnsupportedType indicates an unknown source or fetcher type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrIndexInProgress indicates an indexing run is already running
	// for the requested source.
	ErrIndexInProgress = errors.New("indexing in progress")
)
