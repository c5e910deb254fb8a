package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/hostelpad/hostel-booking/internal/model"
)

// HostelRepo persists hostels.  Deleting a hostel removes its rooms in the
// same transaction; booking rows survive as history and keep their
// denormalized hostel reference.
type HostelRepo struct{ DB *sql.DB }

func NewHostelRepo(db *sql.DB) *HostelRepo { return &HostelRepo{DB: db} }

const hostelColumns = "id,name,gender,description,image_url,room_count,created_at,updated_at"

func scanHostel(row interface{ Scan(...any) error }) (model.Hostel, error) {
	var (
		h      model.Hostel
		gender string
	)
	err := row.Scan(&h.ID, &h.Name, &gender, &h.Description, &h.ImageURL, &h.RoomCount, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return model.Hostel{}, err
	}
	h.Gender, err = model.ParseGenderPolicy(gender)
	return h, err
}

// Create inserts a hostel and populates its generated ID and timestamps.
func (r *HostelRepo) Create(ctx context.Context, h *model.Hostel) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO hostels (name, gender, description, image_url, room_count) VALUES (?,?,?,?,?)",
		h.Name, string(h.Gender), h.Description, h.ImageURL, h.RoomCount)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	got, err := r.GetByID(ctx, h.ID)
	if err != nil {
		return err
	}
	*h = got
	return nil
}

// GetByID fetches one hostel.
func (r *HostelRepo) GetByID(ctx context.Context, id uint64) (model.Hostel, error) {
	h, err := scanHostel(r.DB.QueryRowContext(ctx,
		"SELECT "+hostelColumns+" FROM hostels WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Hostel{}, ErrHostelNotFound
	}
	return h, err
}

// List returns hostels ordered by name.  A non-empty query filters by a
// case-insensitive name substring, matching the home screen search box.
func (r *HostelRepo) List(ctx context.Context, query string) ([]model.Hostel, error) {
	q := "SELECT " + hostelColumns + " FROM hostels"
	var args []any
	if s := strings.TrimSpace(query); s != "" {
		q += " WHERE name LIKE ?"
		args = append(args, "%"+s+"%")
	}
	q += " ORDER BY name"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Hostel
	for rows.Next() {
		h, err := scanHostel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// Update rewrites the editable fields of a hostel.
func (r *HostelRepo) Update(ctx context.Context, h model.Hostel) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE hostels SET name=?, gender=?, description=?, image_url=?, room_count=?, updated_at=NOW() WHERE id=?",
		h.Name, string(h.Gender), h.Description, h.ImageURL, h.RoomCount, h.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, h.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the hostel and its rooms in one transaction.  Rooms with
// Approved bookings block the delete with ErrConflict so occupancy history
// stays consistent.
func (r *HostelRepo) Delete(ctx context.Context, id uint64) error {
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
		`SELECT COUNT(*) FROM bookings b JOIN rooms r ON r.id = b.room_id
		 WHERE r.hostel_id=? AND b.status='APPROVED'`, id).Scan(&approved)
	if err != nil {
		return err
	}
	if approved > 0 {
		return ErrConflict
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM rooms WHERE hostel_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM hostels WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrHostelNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
