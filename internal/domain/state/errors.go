package state

import "errors"

// Sentinel errors returned by reducer operations. Handlers map these onto
// HTTP statuses; callers can test them with errors.Is.
var (
	// ErrNotFound is returned when a mutation references an id absent from
	// the snapshot. The original UI silently ignored such mutations; here the
	// contract violation is surfaced to the caller.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock is returned when a non-emergency fulfillment would
	// drive an inventory line negative. The snapshot is left unchanged; the
	// caller should re-submit the completion as an emergency stockout.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrConflict is returned for a status transition that is not allowed
	// from the entity's current state.
	ErrConflict = errors.New("conflicting state transition")

	// ErrInvalid is returned for structurally invalid payloads.
	ErrInvalid = errors.New("invalid payload")
)
