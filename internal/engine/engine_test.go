package engine_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hostelpad/hostel-booking/internal/engine"
	"github.com/hostelpad/hostel-booking/internal/model"
	"github.com/hostelpad/hostel-booking/internal/storage/memory"
)

var (
	admin = engine.Actor{UserID: 1, Role: model.RoleAdmin}
	alice = engine.Actor{UserID: 2, Role: model.RoleUser}
	bob   = engine.Actor{UserID: 3, Role: model.RoleUser}
)

func newEngine(t *testing.T, capacity uint32) (*engine.Engine, *memory.Store, model.Room) {
	t.Helper()
	store := memory.New()
	h := store.AddHostel(model.Hostel{Name: "Jubilee Hostel", Gender: model.GenderMixed})
	room := store.AddRoom(model.Room{
		HostelID: h.ID,
		Name:     "Room A1",
		Floor:    1,
		RoomType: "Double",
		Capacity: capacity,
	})
	return engine.New(store), store, room
}

func mustCreate(t *testing.T, e *engine.Engine, actor engine.Actor, roomID uint64) model.Booking {
	t.Helper()
	b, err := e.CreateBooking(context.Background(), actor, roomID, "")
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return b
}

func occupied(t *testing.T, store *memory.Store, roomID uint64) uint32 {
	t.Helper()
	r, err := store.GetRoom(context.Background(), roomID)
	if err != nil {
		t.Fatalf("get room: %v", err)
	}
	return r.Occupied
}

func TestCreateBookingStartsPending(t *testing.T) {
	e, store, room := newEngine(t, 2)
	b := mustCreate(t, e, alice, room.ID)
	if b.Status != model.BookingPending {
		t.Fatalf("status = %s, want PENDING", b.Status)
	}
	if b.Paid {
		t.Fatalf("new booking must be unpaid")
	}
	if got := occupied(t, store, room.ID); got != 0 {
		t.Fatalf("occupied = %d, want 0 (pending holds nothing)", got)
	}
}

func TestCreateBookingRoomNotFound(t *testing.T) {
	e, _, _ := newEngine(t, 1)
	if _, err := e.CreateBooking(context.Background(), alice, 999, ""); !errors.Is(err, engine.ErrRoomNotFound) {
		t.Fatalf("err = %v, want ErrRoomNotFound", err)
	}
}

func TestCreateBookingFullRoom(t *testing.T) {
	e, _, room := newEngine(t, 1)
	b := mustCreate(t, e, alice, room.ID)
	if _, err := e.ApproveBooking(context.Background(), admin, b.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := e.CreateBooking(context.Background(), bob, room.ID, ""); !errors.Is(err, engine.ErrRoomUnavailable) {
		t.Fatalf("err = %v, want ErrRoomUnavailable", err)
	}
}

func TestCreateBookingIdempotencyKey(t *testing.T) {
	e, _, room := newEngine(t, 2)
	first, err := e.CreateBooking(context.Background(), alice, room.ID, "retry-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := e.CreateBooking(context.Background(), alice, room.ID, "retry-1")
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("replay created a new booking: %d != %d", second.ID, first.ID)
	}
}

func TestApproveTakesOnePlace(t *testing.T) {
	e, store, room := newEngine(t, 2)
	b := mustCreate(t, e, alice, room.ID)

	got, err := e.ApproveBooking(context.Background(), admin, b.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got.Status != model.BookingApproved {
		t.Fatalf("status = %s, want APPROVED", got.Status)
	}
	if occ := occupied(t, store, room.ID); occ != 1 {
		t.Fatalf("occupied = %d, want 1", occ)
	}
}

func TestApproveRequiresAdmin(t *testing.T) {
	e, _, room := newEngine(t, 1)
	b := mustCreate(t, e, alice, room.ID)
	if _, err := e.ApproveBooking(context.Background(), alice, b.ID); !errors.Is(err, engine.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if _, err := e.RejectBooking(context.Background(), bob, b.ID); !errors.Is(err, engine.ErrUnauthorized) {
		t.Fatalf("reject err = %v, want ErrUnauthorized", err)
	}
}

func TestApproveIsNotDoubleCounted(t *testing.T) {
	e, store, room := newEngine(t, 2)
	b := mustCreate(t, e, alice, room.ID)
	if _, err := e.ApproveBooking(context.Background(), admin, b.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := e.ApproveBooking(context.Background(), admin, b.ID); !errors.Is(err, engine.ErrInvalidTransition) {
			t.Fatalf("repeat approve err = %v, want ErrInvalidTransition", err)
		}
	}
	if occ := occupied(t, store, room.ID); occ != 1 {
		t.Fatalf("occupied = %d, want 1 after repeated approvals", occ)
	}
}

func TestRejectKeepsBooking(t *testing.T) {
	e, store, room := newEngine(t, 1)
	b := mustCreate(t, e, alice, room.ID)

	got, err := e.RejectBooking(context.Background(), admin, b.ID)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if got.Status != model.BookingRejected {
		t.Fatalf("status = %s, want REJECTED", got.Status)
	}
	if occ := occupied(t, store, room.ID); occ != 0 {
		t.Fatalf("occupied = %d, want 0", occ)
	}
	// Rejected is terminal.
	if _, err := e.CancelBooking(context.Background(), alice, b.ID); !errors.Is(err, engine.ErrInvalidTransition) {
		t.Fatalf("cancel rejected err = %v, want ErrInvalidTransition", err)
	}
	if _, err := e.ApproveBooking(context.Background(), admin, b.ID); !errors.Is(err, engine.ErrInvalidTransition) {
		t.Fatalf("approve rejected err = %v, want ErrInvalidTransition", err)
	}
}

func TestCancelPendingHoldsNothing(t *testing.T) {
	e, store, room := newEngine(t, 1)
	b := mustCreate(t, e, alice, room.ID)

	got, err := e.CancelBooking(context.Background(), alice, b.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got.Status != model.BookingCancelled {
		t.Fatalf("status = %s, want CANCELLED", got.Status)
	}
	if occ := occupied(t, store, room.ID); occ != 0 {
		t.Fatalf("occupied = %d, want 0", occ)
	}
}

func TestCancelApprovedReleasesPlace(t *testing.T) {
	e, store, room := newEngine(t, 1)
	b := mustCreate(t, e, alice, room.ID)
	if _, err := e.ApproveBooking(context.Background(), admin, b.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := e.MarkPaid(context.Background(), alice, b.ID); err != nil {
		t.Fatalf("pay: %v", err)
	}

	got, err := e.CancelBooking(context.Background(), alice, b.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got.Paid {
		t.Fatalf("cancelled booking must not stay paid")
	}
	if occ := occupied(t, store, room.ID); occ != 0 {
		t.Fatalf("occupied = %d, want 0 after release", occ)
	}
}

func TestCancelOnlyOwnerOrAdmin(t *testing.T) {
	e, _, room := newEngine(t, 2)
	b := mustCreate(t, e, alice, room.ID)
	if _, err := e.CancelBooking(context.Background(), bob, b.ID); !errors.Is(err, engine.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if _, err := e.CancelBooking(context.Background(), admin, b.ID); err != nil {
		t.Fatalf("admin cancel: %v", err)
	}
}

func TestPaymentRequiresApproval(t *testing.T) {
	e, _, room := newEngine(t, 1)
	b := mustCreate(t, e, alice, room.ID)

	if _, err := e.MarkPaid(context.Background(), alice, b.ID); !errors.Is(err, engine.ErrInvalidTransition) {
		t.Fatalf("pay pending err = %v, want ErrInvalidTransition", err)
	}
	if _, err := e.ApproveBooking(context.Background(), admin, b.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	paid, err := e.MarkPaid(context.Background(), alice, b.ID)
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if !paid.Paid || paid.PaymentRef == nil || *paid.PaymentRef == "" {
		t.Fatalf("paid booking missing paid flag or payment ref: %+v", paid)
	}

	// Refund flips paid only; status stays Approved.
	refunded, err := e.Refund(context.Background(), admin, b.ID)
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if refunded.Paid {
		t.Fatalf("refunded booking still paid")
	}
	if refunded.Status != model.BookingApproved {
		t.Fatalf("refund changed status to %s", refunded.Status)
	}
	if _, err := e.Refund(context.Background(), admin, b.ID); !errors.Is(err, engine.ErrInvalidTransition) {
		t.Fatalf("double refund err = %v, want ErrInvalidTransition", err)
	}
}

func TestMarkPaidTwiceIsNoOp(t *testing.T) {
	e, _, room := newEngine(t, 1)
	b := mustCreate(t, e, alice, room.ID)
	if _, err := e.ApproveBooking(context.Background(), admin, b.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	first, err := e.MarkPaid(context.Background(), alice, b.ID)
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	second, err := e.MarkPaid(context.Background(), alice, b.ID)
	if err != nil {
		t.Fatalf("repeat pay: %v", err)
	}
	if second.PaymentRef == nil || *second.PaymentRef != *first.PaymentRef {
		t.Fatalf("repeat pay changed payment ref")
	}
}

// Full lifecycle over a capacity-2 room: approvals stop at the ceiling and
// cancelling frees a place for the next pending booking.
func TestCapacityLifecycle(t *testing.T) {
	e, store, room := newEngine(t, 2)
	ctx := context.Background()

	b1 := mustCreate(t, e, alice, room.ID)
	b2 := mustCreate(t, e, bob, room.ID)
	b3, err := e.CreateBooking(ctx, engine.Actor{UserID: 4, Role: model.RoleUser}, room.ID, "")
	if err != nil {
		t.Fatalf("create b3: %v", err)
	}

	if _, err := e.ApproveBooking(ctx, admin, b1.ID); err != nil {
		t.Fatalf("approve b1: %v", err)
	}
	if _, err := e.ApproveBooking(ctx, admin, b2.ID); err != nil {
		t.Fatalf("approve b2: %v", err)
	}
	if occ := occupied(t, store, room.ID); occ != 2 {
		t.Fatalf("occupied = %d, want 2", occ)
	}

	if _, err := e.ApproveBooking(ctx, admin, b3.ID); !errors.Is(err, engine.ErrRoomUnavailable) {
		t.Fatalf("approve b3 err = %v, want ErrRoomUnavailable", err)
	}
	if occ := occupied(t, store, room.ID); occ != 2 {
		t.Fatalf("occupied = %d, want 2 after failed approval", occ)
	}

	if _, err := e.CancelBooking(ctx, alice, b1.ID); err != nil {
		t.Fatalf("cancel b1: %v", err)
	}
	if occ := occupied(t, store, room.ID); occ != 1 {
		t.Fatalf("occupied = %d, want 1 after cancel", occ)
	}

	if _, err := e.ApproveBooking(ctx, admin, b3.ID); err != nil {
		t.Fatalf("approve b3 after release: %v", err)
	}
	if occ := occupied(t, store, room.ID); occ != 2 {
		t.Fatalf("occupied = %d, want 2", occ)
	}
}

// Two concurrent approvals racing for the last place: exactly one wins and
// the final occupancy is the capacity, never above it.
func TestConcurrentApprovalsRespectCapacity(t *testing.T) {
	e, store, room := newEngine(t, 1)
	ctx := context.Background()

	b1 := mustCreate(t, e, alice, room.ID)
	b2 := mustCreate(t, e, bob, room.ID)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []uint64{b1.ID, b2.ID} {
		i, id := i, id
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = e.ApproveBooking(ctx, admin, id)
		}()
	}
	wg.Wait()

	var ok, unavailable int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, engine.ErrRoomUnavailable):
			unavailable++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || unavailable != 1 {
		t.Fatalf("got %d successes and %d unavailable, want 1 and 1", ok, unavailable)
	}
	if occ := occupied(t, store, room.ID); occ != 1 {
		t.Fatalf("occupied = %d, want 1", occ)
	}
}

// Cancellation of an Approved booking concurrent with approvals of other
// Pending bookings must not lose occupancy updates.
func TestConcurrentCancelAndApprove(t *testing.T) {
	e, store, room := newEngine(t, 2)
	ctx := context.Background()

	held := mustCreate(t, e, alice, room.ID)
	if _, err := e.ApproveBooking(ctx, admin, held.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	pending := make([]model.Booking, 3)
	for i := range pending {
		pending[i] = mustCreate(t, e, engine.Actor{UserID: uint64(10 + i), Role: model.RoleUser}, room.ID)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := e.CancelBooking(ctx, alice, held.ID); err != nil {
			t.Errorf("cancel: %v", err)
		}
	}()
	results := make([]error, len(pending))
	for i := range pending {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = e.ApproveBooking(ctx, admin, pending[i].ID)
		}()
	}
	wg.Wait()

	approved := 0
	for _, err := range results {
		if err == nil {
			approved++
		} else if !errors.Is(err, engine.ErrRoomUnavailable) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	occ := occupied(t, store, room.ID)
	if occ > room.Capacity {
		t.Fatalf("occupied = %d exceeds capacity %d", occ, room.Capacity)
	}
	if uint32(approved) != occ {
		t.Fatalf("approved = %d but occupied = %d", approved, occ)
	}
}

func TestRoomsAvailableReflectsCurrentState(t *testing.T) {
	e, store, room := newEngine(t, 1)
	ctx := context.Background()
	full := store.AddRoom(model.Room{HostelID: room.HostelID, Name: "Room B2", Floor: 2, Capacity: 2, Occupied: 2})

	rooms, err := e.RoomsAvailable(ctx, room.HostelID)
	if err != nil {
		t.Fatalf("rooms available: %v", err)
	}
	if len(rooms) != 1 || rooms[0].ID != room.ID {
		t.Fatalf("available = %+v, want only room %d", rooms, room.ID)
	}

	b := mustCreate(t, e, alice, room.ID)
	if _, err := e.ApproveBooking(ctx, admin, b.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	rooms, err = e.RoomsAvailable(ctx, room.HostelID)
	if err != nil {
		t.Fatalf("rooms available: %v", err)
	}
	if len(rooms) != 0 {
		t.Fatalf("available = %+v, want none (room filled, %d ignored)", rooms, full.ID)
	}
}
