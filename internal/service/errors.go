// Package service implements the stall allocation engine: the component
// that decides, under concurrent requests, which stall-to-user
// assignments are valid and evolves reservations through their
// lifecycle.  It talks to persistence only through the Store interface.
package service

import "errors"

// Failure taxonomy raised by the engine.  Handlers map these onto HTTP
// statuses with errors.Is; anything not matching one of them is treated
// as an internal failure and never exposes detail to the caller.
var (
	// ErrInvalidRequest marks malformed or policy-violating input:
	// empty/oversized stall sets, inactive or ended events, unknown
	// stall or genre ids.  Recoverable by the caller with different input.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNotFound marks a missing event, reservation or user.
	ErrNotFound = errors.New("not found")

	// ErrForbidden marks an authenticated caller who is not the resource
	// owner and lacks administrative override.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict marks the commit-time re-check finding a stall already
	// claimed by a concurrent writer.  Not retryable with the same input;
	// the caller must refresh availability and pick different stalls.
	ErrConflict = errors.New("conflict")
)
