// Package queue defines the booking lifecycle events exchanged over the
// message broker and the consumer that turns them into notification log
// entries.  Actual push delivery to devices is out of scope; downstream
// systems subscribe to the same queue.
package queue

// Event types published on the booking.events queue.
const (
	EventBookingApproved  = "booking.approved"
	EventBookingRejected  = "booking.rejected"
	EventBookingCancelled = "booking.cancelled"
	EventBookingPaid      = "booking.paid"
	EventBookingRefunded  = "booking.refunded"
)

// BookingEvent is published after a booking transition commits.  It
// carries enough context for notification and audit consumers to act
// without querying the primary database.
type BookingEvent struct {
	Type       string `json:"type"`
	BookingID  uint64 `json:"booking_id"`
	UserID     uint64 `json:"user_id"`
	RoomID     uint64 `json:"room_id"`
	RoomName   string `json:"room_name"`
	HostelID   uint64 `json:"hostel_id"`
	HostelName string `json:"hostel_name"`
	Status     string `json:"status"`
	Paid       bool   `json:"paid"`
	OccurredAt string `json:"occurred_at"`
}
