package engine

import (
	"context"
	"errors"

	"github.com/hostelpad/hostel-booking/internal/model"
)

// Store sentinels.  Implementations return these from the conditional
// operations below; the engine maps them onto its public error kinds.
var (
	// ErrStaleState signals that a conditional write matched nothing
	// because the booking's status (or paid flag) changed since it was
	// read.  First committer wins; the loser sees this.
	ErrStaleState = errors.New("state changed since read")

	// ErrDuplicateKey signals that a booking with the same idempotency
	// key already exists.
	ErrDuplicateKey = errors.New("duplicate idempotency key")
)

// Transition describes one atomic step of the booking state machine
// together with its occupancy side effect.  A Store must apply all parts
// as a single unit or none at all:
//
//   - the booking's status moves From -> To only if it currently equals
//     From (and Paid equals *FromPaid when set), otherwise ErrStaleState;
//   - the room's occupied counter changes by OccupancyDelta only while
//     0 <= occupied+delta <= capacity, otherwise ErrRoomUnavailable.
type Transition struct {
	BookingID uint64
	RoomID    uint64

	From model.BookingStatus
	To   model.BookingStatus

	// FromPaid, when non-nil, guards the write on the current paid flag.
	FromPaid *bool
	// SetPaid, when non-nil, is the new paid flag.
	SetPaid *bool
	// SetPaymentRef, when non-nil, records the payment reference.
	SetPaymentRef *string

	// OccupancyDelta is applied to the room's occupied counter: +1 when a
	// booking starts holding a place, -1 when it releases one, 0 for
	// transitions that never held occupancy.
	OccupancyDelta int
}

// Store is the persistence collaborator the engine drives.  The SQL
// implementation lives in internal/repository, the in-memory one in
// internal/storage/memory.
type Store interface {
	// GetRoom returns the room or ErrRoomNotFound.
	GetRoom(ctx context.Context, roomID uint64) (model.Room, error)

	// GetBooking returns the booking or ErrBookingNotFound.
	GetBooking(ctx context.Context, bookingID uint64) (model.Booking, error)

	// GetBookingByKey returns the booking created under the given
	// idempotency key, or ErrBookingNotFound.
	GetBookingByKey(ctx context.Context, key string) (model.Booking, error)

	// CreateBooking inserts a new Pending booking, verifying atomically
	// that the room exists and still has occupied < capacity.  It
	// populates the generated ID and timestamps on b.  Returns
	// ErrRoomNotFound, ErrRoomUnavailable or ErrDuplicateKey.
	CreateBooking(ctx context.Context, b *model.Booking) error

	// ApplyTransition executes the transition atomically as described on
	// the Transition type.
	ApplyTransition(ctx context.Context, t Transition) error

	// AvailableRooms returns the hostel's rooms with occupied < capacity,
	// freshly computed from authoritative state on every call.
	AvailableRooms(ctx context.Context, hostelID uint64) ([]model.Room, error)
}
