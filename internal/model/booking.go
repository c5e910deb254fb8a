package model

import (
	"errors"
	"strings"
	"time"
)

// BookingStatus is the closed set of states a booking can be in.  Values
// are stored canonically in upper case; ParseBookingStatus normalizes
// whatever casing arrives at the boundary (the mobile clients historically
// sent "Pending" and "pending" interchangeably).
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingApproved  BookingStatus = "APPROVED"
	BookingRejected  BookingStatus = "REJECTED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// ErrUnknownStatus is returned by ParseBookingStatus for values outside the
// closed status set.
var ErrUnknownStatus = errors.New("unknown booking status")

// ParseBookingStatus maps a raw status string to its canonical
// BookingStatus, case-insensitively.
func ParseBookingStatus(raw string) (BookingStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(BookingPending):
		return BookingPending, nil
	case string(BookingApproved):
		return BookingApproved, nil
	case string(BookingRejected):
		return BookingRejected, nil
	case string(BookingCancelled):
		return BookingCancelled, nil
	}
	return "", ErrUnknownStatus
}

// Terminal reports whether no further status transition is allowed.
func (s BookingStatus) Terminal() bool {
	return s == BookingRejected || s == BookingCancelled
}

// HoldsOccupancy reports whether a booking in this status counts against
// its room's capacity.  Only Approved bookings hold a place; Pending
// bookings are requests and do not reserve anything yet.
func (s BookingStatus) HoldsOccupancy() bool {
	return s == BookingApproved
}

// Booking ties one user to one room (and transitively one hostel).  Status
// and Paid are independent axes: Paid may only become true while the
// booking is Approved, and cancelling forces it back to false.  Bookings
// are never deleted once created; Rejected and Cancelled rows are kept as
// history.
//
// Fields:
//  ID             – primary key identifier.
//  UserID         – user who requested the booking.
//  RoomID         – room being booked (immutable after creation).
//  HostelID       – hostel owning the room, denormalized for listing.
//  AgentID        – agent assigned by an admin (nil when unassigned).
//  Status         – current BookingStatus.
//  Paid           – whether the booking has been paid for.
//  PaymentRef     – external payment reference, set when payment succeeds.
//  IdempotencyKey – caller-supplied token deduplicating client retries.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last transition timestamp.
type Booking struct {
	ID             uint64
	UserID         uint64
	RoomID         uint64
	HostelID       uint64
	AgentID        *uint64
	Status         BookingStatus
	Paid           bool
	PaymentRef     *string
	IdempotencyKey string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
