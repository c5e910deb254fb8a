package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/hostelpad/hostel-booking/internal/engine"
	"github.com/hostelpad/hostel-booking/internal/model"
)

// EngineStore implements engine.Store on MySQL.  Every invariant-coupled
// write runs inside one transaction built from conditional UPDATEs: the
// booking row moves only from its expected status and the occupied counter
// moves only while it stays within [0, capacity].  RowsAffected decides
// who won a race; there is no read-then-write window.
type EngineStore struct {
	db       *sql.DB
	rooms    *RoomRepo
	bookings *BookingRepo
}

// NewEngineStore wires the store over the shared DB handle and repos.
func NewEngineStore(db *sql.DB, rooms *RoomRepo, bookings *BookingRepo) *EngineStore {
	if db == nil || rooms == nil || bookings == nil {
		panic("nil dependency passed to NewEngineStore")
	}
	return &EngineStore{db: db, rooms: rooms, bookings: bookings}
}

func (s *EngineStore) GetRoom(ctx context.Context, roomID uint64) (model.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if errors.Is(err, ErrRoomNotFound) {
		return model.Room{}, engine.ErrRoomNotFound
	}
	return room, err
}

func (s *EngineStore) GetBooking(ctx context.Context, bookingID uint64) (model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if errors.Is(err, ErrBookingNotFound) {
		return model.Booking{}, engine.ErrBookingNotFound
	}
	return b, err
}

func (s *EngineStore) GetBookingByKey(ctx context.Context, key string) (model.Booking, error) {
	b, err := s.bookings.GetByKey(ctx, key)
	if errors.Is(err, ErrBookingNotFound) {
		return model.Booking{}, engine.ErrBookingNotFound
	}
	return b, err
}

// CreateBooking inserts a Pending booking while holding a row lock on the
// room, so the capacity precondition stays true until commit.
func (s *EngineStore) CreateBooking(ctx context.Context, b *model.Booking) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	room, err := s.rooms.GetForUpdateTx(ctx, tx, b.RoomID)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			return engine.ErrRoomNotFound
		}
		return err
	}
	if !room.Available() {
		return engine.ErrRoomUnavailable
	}

	if err := s.bookings.InsertTx(ctx, tx, b); err != nil {
		if isDuplicateEntry(err) {
			return engine.ErrDuplicateKey
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ApplyTransition performs the booking status move and the occupancy
// adjustment as one transaction of conditional UPDATEs.
func (s *EngineStore) ApplyTransition(ctx context.Context, t engine.Transition) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	sets := []string{"status=?", "updated_at=NOW()"}
	args := []any{string(t.To)}
	if t.SetPaid != nil {
		sets = append(sets, "paid=?")
		args = append(args, *t.SetPaid)
	}
	if t.SetPaymentRef != nil {
		sets = append(sets, "payment_ref=?")
		args = append(args, *t.SetPaymentRef)
	}
	where := "id=? AND status=?"
	args = append(args, t.BookingID, string(t.From))
	if t.FromPaid != nil {
		where += " AND paid=?"
		args = append(args, *t.FromPaid)
	}

	res, err := tx.ExecContext(ctx, "UPDATE bookings SET "+strings.Join(sets, ", ")+" WHERE "+where, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the booking is gone or someone committed first.
		var exists int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM bookings WHERE id=?", t.BookingID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return engine.ErrBookingNotFound
		}
		if err != nil {
			return err
		}
		return engine.ErrStaleState
	}

	if t.OccupancyDelta != 0 {
		res, err := tx.ExecContext(ctx,
			`UPDATE rooms SET occupied = occupied + ?, updated_at=NOW()
			 WHERE id=? AND occupied + ? >= 0 AND occupied + ? <= capacity`,
			t.OccupancyDelta, t.RoomID, t.OccupancyDelta, t.OccupancyDelta)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			// Capacity ceiling hit (or floor, which would be a bug caught
			// by the same guard).  Rolling back also reverts the status.
			return engine.ErrRoomUnavailable
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *EngineStore) AvailableRooms(ctx context.Context, hostelID uint64) ([]model.Room, error) {
	return s.rooms.ListAvailableByHostel(ctx, hostelID)
}
