// Package repository is the MySQL data access layer.  Each repository
// wraps a *sql.DB and exposes plain methods plus *Tx variants that
// participate in a caller-supplied transaction.  Sentinel errors defined
// here are shared across repositories so handlers can map failures to
// HTTP responses with errors.Is.
package repository

import "errors"

// ErrHostelNotFound indicates the hostel does not exist.
var ErrHostelNotFound = errors.New("hostel not found")

// ErrRoomNotFound indicates the room does not exist.
var ErrRoomNotFound = errors.New("room not found")

// ErrBookingNotFound indicates the booking does not exist.
var ErrBookingNotFound = errors.New("booking not found")

// ErrUserNotFound indicates the user does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists indicates a register attempt with an email that is
// already taken.
var ErrEmailExists = errors.New("email already exists")

// ErrConflict is returned when an update or delete cannot proceed because
// of dependent state, such as deleting a room that still has Approved
// bookings or shrinking capacity below current occupancy.  Handlers
// translate this into HTTP 409.
var ErrConflict = errors.New("conflict")
