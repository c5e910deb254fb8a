package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hostelpad/hostel-booking/internal/model"
)

// Actor identifies the caller of an operation for authorization checks.
type Actor struct {
	UserID uint64
	Role   model.Role
}

// allowedTransitions is the booking state machine.  Absent entries are
// illegal: Rejected and Cancelled are terminal.
var allowedTransitions = map[model.BookingStatus][]model.BookingStatus{
	model.BookingPending:  {model.BookingApproved, model.BookingRejected, model.BookingCancelled},
	model.BookingApproved: {model.BookingCancelled},
}

func canTransition(from, to model.BookingStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Engine owns every booking status transition and the room occupancy
// counters they touch.  All methods are safe for concurrent use from any
// number of sessions: conflicting writes are serialized by the Store's
// atomic conditional operations, never by in-process locking, because the
// authoritative state lives in shared storage.
type Engine struct {
	store Store
}

// New returns an Engine over the given store.
func New(store Store) *Engine {
	if store == nil {
		panic("nil store passed to engine.New")
	}
	return &Engine{store: store}
}

// transient wraps unexpected storage failures so callers can distinguish
// "try again" from business errors with errors.Is(err, ErrTransient).
func transient(err error) error {
	return fmt.Errorf("%w: %v", ErrTransient, err)
}

// CreateBooking inserts a new Pending booking for the actor on the given
// room.  The room must exist and have free capacity at commit time; a
// Pending booking does not hold occupancy yet.  When idemKey is non-empty,
// retries with the same key return the originally created booking instead
// of inserting a duplicate.
func (e *Engine) CreateBooking(ctx context.Context, actor Actor, roomID uint64, idemKey string) (model.Booking, error) {
	if idemKey != "" {
		b, err := e.store.GetBookingByKey(ctx, idemKey)
		switch {
		case err == nil:
			return b, nil
		case !errors.Is(err, ErrBookingNotFound):
			return model.Booking{}, transient(err)
		}
	}

	room, err := e.store.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			return model.Booking{}, ErrRoomNotFound
		}
		return model.Booking{}, transient(err)
	}

	b := model.Booking{
		UserID:         actor.UserID,
		RoomID:         room.ID,
		HostelID:       room.HostelID,
		Status:         model.BookingPending,
		Paid:           false,
		IdempotencyKey: idemKey,
	}
	// The store re-checks capacity atomically with the insert; the read
	// above only provides an early answer for the common case.
	if err := e.store.CreateBooking(ctx, &b); err != nil {
		switch {
		case errors.Is(err, ErrRoomNotFound):
			return model.Booking{}, ErrRoomNotFound
		case errors.Is(err, ErrRoomUnavailable):
			return model.Booking{}, ErrRoomUnavailable
		case errors.Is(err, ErrDuplicateKey):
			// Lost a race against our own retry; surface the winner.
			existing, gerr := e.store.GetBookingByKey(ctx, idemKey)
			if gerr != nil {
				return model.Booking{}, transient(gerr)
			}
			return existing, nil
		}
		return model.Booking{}, transient(err)
	}
	return b, nil
}

// ApproveBooking moves a Pending booking to Approved and takes one place
// in its room, both in a single conditional write.  Admin only.  When two
// admins race for the last place the first committer wins and the loser
// gets ErrRoomUnavailable; the booking stays Pending for manual
// resolution, it is never retried silently.
func (e *Engine) ApproveBooking(ctx context.Context, actor Actor, bookingID uint64) (model.Booking, error) {
	if actor.Role != model.RoleAdmin {
		return model.Booking{}, ErrUnauthorized
	}
	b, err := e.loadBooking(ctx, bookingID)
	if err != nil {
		return model.Booking{}, err
	}
	if !canTransition(b.Status, model.BookingApproved) {
		return model.Booking{}, ErrInvalidTransition
	}
	return e.apply(ctx, bookingID, Transition{
		BookingID:      b.ID,
		RoomID:         b.RoomID,
		From:           model.BookingPending,
		To:             model.BookingApproved,
		OccupancyDelta: +1,
	})
}

// RejectBooking moves a Pending booking to Rejected.  Admin only.  The
// booking row is kept as history; no occupancy changes because Pending
// never held a place.
func (e *Engine) RejectBooking(ctx context.Context, actor Actor, bookingID uint64) (model.Booking, error) {
	if actor.Role != model.RoleAdmin {
		return model.Booking{}, ErrUnauthorized
	}
	b, err := e.loadBooking(ctx, bookingID)
	if err != nil {
		return model.Booking{}, err
	}
	if !canTransition(b.Status, model.BookingRejected) {
		return model.Booking{}, ErrInvalidTransition
	}
	return e.apply(ctx, bookingID, Transition{
		BookingID: b.ID,
		RoomID:    b.RoomID,
		From:      model.BookingPending,
		To:        model.BookingRejected,
	})
}

// CancelBooking moves a Pending or Approved booking to Cancelled.  Allowed
// for the owning user or an admin.  Cancelling an Approved booking
// releases its place and forces paid back to false in the same write;
// refunding any actual payment is a separate Refund call.
func (e *Engine) CancelBooking(ctx context.Context, actor Actor, bookingID uint64) (model.Booking, error) {
	b, err := e.loadBooking(ctx, bookingID)
	if err != nil {
		return model.Booking{}, err
	}
	if actor.Role != model.RoleAdmin && actor.UserID != b.UserID {
		return model.Booking{}, ErrUnauthorized
	}
	if !canTransition(b.Status, model.BookingCancelled) {
		return model.Booking{}, ErrInvalidTransition
	}
	t := Transition{
		BookingID: b.ID,
		RoomID:    b.RoomID,
		From:      b.Status,
		To:        model.BookingCancelled,
		SetPaid:   boolPtr(false),
	}
	if b.Status == model.BookingApproved {
		t.OccupancyDelta = -1
	}
	return e.apply(ctx, bookingID, t)
}

// MarkPaid records payment on an Approved booking and attaches a freshly
// generated payment reference.  Allowed for the owning user or an admin.
// Paying an already-paid booking is a no-op returning the current state;
// paying before approval is ErrInvalidTransition by design.
func (e *Engine) MarkPaid(ctx context.Context, actor Actor, bookingID uint64) (model.Booking, error) {
	b, err := e.loadBooking(ctx, bookingID)
	if err != nil {
		return model.Booking{}, err
	}
	if actor.Role != model.RoleAdmin && actor.UserID != b.UserID {
		return model.Booking{}, ErrUnauthorized
	}
	if b.Status != model.BookingApproved {
		return model.Booking{}, ErrInvalidTransition
	}
	if b.Paid {
		return b, nil
	}
	ref := uuid.NewString()
	return e.apply(ctx, bookingID, Transition{
		BookingID:     b.ID,
		RoomID:        b.RoomID,
		From:          model.BookingApproved,
		To:            model.BookingApproved,
		FromPaid:      boolPtr(false),
		SetPaid:       boolPtr(true),
		SetPaymentRef: &ref,
	})
}

// Refund reverses a payment: paid goes back to false while status and
// occupancy stay untouched.  Callers wanting the room released must cancel
// separately.  Admin only.  Refunding an unpaid booking is
// ErrInvalidTransition.
func (e *Engine) Refund(ctx context.Context, actor Actor, bookingID uint64) (model.Booking, error) {
	if actor.Role != model.RoleAdmin {
		return model.Booking{}, ErrUnauthorized
	}
	b, err := e.loadBooking(ctx, bookingID)
	if err != nil {
		return model.Booking{}, err
	}
	if !b.Paid {
		return model.Booking{}, ErrInvalidTransition
	}
	return e.apply(ctx, bookingID, Transition{
		BookingID: b.ID,
		RoomID:    b.RoomID,
		From:      b.Status,
		To:        b.Status,
		FromPaid:  boolPtr(true),
		SetPaid:   boolPtr(false),
	})
}

// RoomsAvailable lists the hostel's rooms that still have free places.
// The result is computed from current authoritative state on every call
// and is never cached.
func (e *Engine) RoomsAvailable(ctx context.Context, hostelID uint64) ([]model.Room, error) {
	rooms, err := e.store.AvailableRooms(ctx, hostelID)
	if err != nil {
		return nil, transient(err)
	}
	return rooms, nil
}

func (e *Engine) loadBooking(ctx context.Context, bookingID uint64) (model.Booking, error) {
	b, err := e.store.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return model.Booking{}, ErrBookingNotFound
		}
		return model.Booking{}, transient(err)
	}
	return b, nil
}

// apply runs the transition and reloads the booking on success.  A stale
// conditional write means the status changed under us, which from the
// caller's point of view is the same illegal transition they would have
// seen a moment later.
func (e *Engine) apply(ctx context.Context, bookingID uint64, t Transition) (model.Booking, error) {
	if err := e.store.ApplyTransition(ctx, t); err != nil {
		switch {
		case errors.Is(err, ErrStaleState):
			return model.Booking{}, ErrInvalidTransition
		case errors.Is(err, ErrRoomUnavailable):
			return model.Booking{}, ErrRoomUnavailable
		case errors.Is(err, ErrBookingNotFound):
			return model.Booking{}, ErrBookingNotFound
		}
		return model.Booking{}, transient(err)
	}
	return e.loadBooking(ctx, bookingID)
}

func boolPtr(v bool) *bool { return &v }
