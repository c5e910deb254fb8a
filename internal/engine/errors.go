// Package engine implements the booking reconciliation core: the state
// machine for booking status and the occupancy accounting that keeps every
// room's occupied counter equal to its number of Approved bookings.  All
// invariant-coupled writes go through a Store that applies them as one
// atomic conditional operation, so the engine never performs an unguarded
// read-then-write against shared state.
package engine

import "errors"

// Expected failure kinds.  Handlers compare with errors.Is and translate
// them to HTTP responses; none of these indicate a fault in the service.
var (
	// ErrRoomNotFound means the referenced room does not exist.
	ErrRoomNotFound = errors.New("room not found")

	// ErrBookingNotFound means the referenced booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrRoomUnavailable means the room's capacity is exhausted at commit
	// time.  Callers should pick another room, not retry.
	ErrRoomUnavailable = errors.New("room unavailable")

	// ErrInvalidTransition means the requested status change is not legal
	// from the booking's current state.  The booking is left untouched.
	ErrInvalidTransition = errors.New("invalid booking transition")

	// ErrUnauthorized means the caller's role does not permit the
	// operation, or the caller does not own the target booking.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTransient wraps storage or network failures.  The whole operation
	// may be retried by the caller; approve/reject/cancel/pay are
	// idempotent per booking and create is deduplicated by its
	// idempotency key.
	ErrTransient = errors.New("transient storage error")
)
