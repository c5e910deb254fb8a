package model

import "time"

// Room is a bookable room inside a hostel.  Occupied is a derived counter
// owned by the booking engine: it must always equal the number of Approved
// bookings referencing the room, and 0 <= Occupied <= Capacity holds at
// all times.  Admins edit name, floor, type, price and capacity but never
// write Occupied directly.
//
// Fields:
//  ID        – primary key identifier.
//  HostelID  – owning hostel; immutable after creation.
//  Name      – display name, e.g. "Room A1".
//  Floor     – floor number used to group the room list.
//  RoomType  – informational type label, e.g. "Double".
//  PriceCents– price per term in the smallest currency unit.
//  Capacity  – number of places, always > 0.
//  Occupied  – places currently held by Approved bookings.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Room struct {
	ID         uint64
	HostelID   uint64
	Name       string
	Floor      uint32
	RoomType   string
	PriceCents uint32
	Capacity   uint32
	Occupied   uint32
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Available reports whether the room still has free places.
func (r Room) Available() bool {
	return r.Occupied < r.Capacity
}
