package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hostelpad/hostel-booking/internal/model"
)

// RoomRepo persists rooms.  The occupied column is only ever written
// through conditional updates issued by the engine store; admin edits
// touch the descriptive fields and capacity.
type RoomRepo struct{ DB *sql.DB }

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{DB: db} }

const roomColumns = "id,hostel_id,name,floor,room_type,price_cents,capacity,occupied,created_at,updated_at"

func scanRoom(row interface{ Scan(...any) error }) (model.Room, error) {
	var r model.Room
	err := row.Scan(&r.ID, &r.HostelID, &r.Name, &r.Floor, &r.RoomType, &r.PriceCents,
		&r.Capacity, &r.Occupied, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

// Create inserts a room with occupied = 0 and populates generated fields.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO rooms (hostel_id, name, floor, room_type, price_cents, capacity) VALUES (?,?,?,?,?,?)",
		room.HostelID, room.Name, room.Floor, room.RoomType, room.PriceCents, room.Capacity)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = uint64(id)
	got, err := r.GetByID(ctx, room.ID)
	if err != nil {
		return err
	}
	*room = got
	return nil
}

// GetByID fetches one room.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (model.Room, error) {
	room, err := scanRoom(r.DB.QueryRowContext(ctx,
		"SELECT "+roomColumns+" FROM rooms WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Room{}, ErrRoomNotFound
	}
	return room, err
}

// GetForUpdateTx reads a room under a row lock inside the given
// transaction so capacity checks stay valid until commit.
func (r *RoomRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Room, error) {
	room, err := scanRoom(tx.QueryRowContext(ctx,
		"SELECT "+roomColumns+" FROM rooms WHERE id=? FOR UPDATE", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Room{}, ErrRoomNotFound
	}
	return room, err
}

// ListByHostel returns the hostel's rooms ordered by floor then name, the
// order the room list screen renders them in.
func (r *RoomRepo) ListByHostel(ctx context.Context, hostelID uint64) ([]model.Room, error) {
	return r.queryRooms(ctx,
		"SELECT "+roomColumns+" FROM rooms WHERE hostel_id=? ORDER BY floor, name", hostelID)
}

// ListAvailableByHostel returns rooms with occupied < capacity, same
// ordering as ListByHostel.
func (r *RoomRepo) ListAvailableByHostel(ctx context.Context, hostelID uint64) ([]model.Room, error) {
	return r.queryRooms(ctx,
		"SELECT "+roomColumns+" FROM rooms WHERE hostel_id=? AND occupied < capacity ORDER BY floor, name",
		hostelID)
}

func (r *RoomRepo) queryRooms(ctx context.Context, q string, args ...any) ([]model.Room, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	return out, rows.Err()
}

// Update rewrites the editable fields.  The WHERE clause refuses capacity
// values below the current occupancy in the same statement, so the room
// invariant cannot be broken by a concurrent approval.
func (r *RoomRepo) Update(ctx context.Context, room model.Room) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE rooms SET name=?, floor=?, room_type=?, price_cents=?, capacity=?, updated_at=NOW()
		 WHERE id=? AND occupied <= ?`,
		room.Name, room.Floor, room.RoomType, room.PriceCents, room.Capacity, room.ID, room.Capacity)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		current, err := r.GetByID(ctx, room.ID)
		if err != nil {
			return err
		}
		if current.Occupied > room.Capacity {
			return ErrConflict
		}
	}
	return nil
}

// Delete removes a room unless Approved bookings still reference it.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var approved int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookings WHERE room_id=? AND status='APPROVED'", id).Scan(&approved)
	if err != nil {
		return err
	}
	if approved > 0 {
		return ErrConflict
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM rooms WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRoomNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
