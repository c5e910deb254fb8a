package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hostelpad/hostel-booking/internal/model"
)

// BookingRepo persists bookings.  Status and paid writes happen only in
// the engine store's conditional updates; this repository covers creation,
// lookups, listings and agent assignment.
type BookingRepo struct{ DB *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

const bookingColumns = "id,user_id,room_id,hostel_id,agent_id,status,paid,payment_ref,idempotency_key,created_at,updated_at"

func scanBooking(row interface{ Scan(...any) error }) (model.Booking, error) {
	var (
		b       model.Booking
		agentID sql.NullInt64
		status  string
		payRef  sql.NullString
		idemKey sql.NullString
	)
	err := row.Scan(&b.ID, &b.UserID, &b.RoomID, &b.HostelID, &agentID, &status, &b.Paid,
		&payRef, &idemKey, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return model.Booking{}, err
	}
	if agentID.Valid {
		v := uint64(agentID.Int64)
		b.AgentID = &v
	}
	if payRef.Valid {
		v := payRef.String
		b.PaymentRef = &v
	}
	if idemKey.Valid {
		b.IdempotencyKey = idemKey.String
	}
	b.Status, err = model.ParseBookingStatus(status)
	return b, err
}

// InsertTx inserts a Pending booking inside the given transaction and
// populates generated fields on b.  A duplicate idempotency key surfaces
// as isDuplicateEntry through the unique index.
func (r *BookingRepo) InsertTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	var idemKey any
	if b.IdempotencyKey != "" {
		idemKey = b.IdempotencyKey
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO bookings (user_id, room_id, hostel_id, status, paid, idempotency_key) VALUES (?,?,?,?,?,?)",
		b.UserID, b.RoomID, b.HostelID, string(b.Status), b.Paid, idemKey)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	got, err := scanBooking(tx.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id=?", b.ID))
	if err != nil {
		return err
	}
	*b = got
	return nil
}

// GetByID fetches one booking.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	b, err := scanBooking(r.DB.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, ErrBookingNotFound
	}
	return b, err
}

// GetByKey fetches the booking created under an idempotency key.
func (r *BookingRepo) GetByKey(ctx context.Context, key string) (model.Booking, error) {
	b, err := scanBooking(r.DB.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE idempotency_key=? LIMIT 1", key))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, ErrBookingNotFound
	}
	return b, err
}

// BookingDetail is a booking joined with its room and hostel names for
// list screens.
type BookingDetail struct {
	model.Booking
	RoomName   string `json:"room_name"`
	RoomType   string `json:"room_type"`
	HostelName string `json:"hostel_name"`
}

const detailSelect = `SELECT b.id,b.user_id,b.room_id,b.hostel_id,b.agent_id,b.status,b.paid,
	b.payment_ref,b.idempotency_key,b.created_at,b.updated_at,
	r.name, r.room_type, h.name
	FROM bookings b
	JOIN rooms r ON r.id = b.room_id
	JOIN hostels h ON h.id = b.hostel_id`

func (r *BookingRepo) queryDetails(ctx context.Context, q string, args ...any) ([]BookingDetail, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BookingDetail
	for rows.Next() {
		var (
			d       BookingDetail
			agentID sql.NullInt64
			status  string
			payRef  sql.NullString
			idemKey sql.NullString
		)
		err := rows.Scan(&d.ID, &d.UserID, &d.RoomID, &d.HostelID, &agentID, &status, &d.Paid,
			&payRef, &idemKey, &d.CreatedAt, &d.UpdatedAt, &d.RoomName, &d.RoomType, &d.HostelName)
		if err != nil {
			return nil, err
		}
		if agentID.Valid {
			v := uint64(agentID.Int64)
			d.AgentID = &v
		}
		if payRef.Valid {
			v := payRef.String
			d.PaymentRef = &v
		}
		if idemKey.Valid {
			d.IdempotencyKey = idemKey.String
		}
		if d.Status, err = model.ParseBookingStatus(status); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListByUser returns the user's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	return r.queryDetails(ctx, detailSelect+" WHERE b.user_id=? ORDER BY b.created_at DESC", userID)
}

// ListByStatus returns bookings with the given status, oldest first so
// admins work through the queue in arrival order.
func (r *BookingRepo) ListByStatus(ctx context.Context, status model.BookingStatus) ([]BookingDetail, error) {
	return r.queryDetails(ctx, detailSelect+" WHERE b.status=? ORDER BY b.created_at", string(status))
}

// ListByAgent returns bookings assigned to the given agent, newest first.
func (r *BookingRepo) ListByAgent(ctx context.Context, agentID uint64) ([]BookingDetail, error) {
	return r.queryDetails(ctx, detailSelect+" WHERE b.agent_id=? ORDER BY b.created_at DESC", agentID)
}

// AssignAgent links a booking to an agent for follow-up.  Assignment is
// independent of status; reassignment overwrites the previous agent.
func (r *BookingRepo) AssignAgent(ctx context.Context, bookingID, agentID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE bookings SET agent_id=?, updated_at=NOW() WHERE id=?", agentID, bookingID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, bookingID); err != nil {
			return err
		}
	}
	return nil
}
