// Package memory provides an in-memory implementation of engine.Store.
// It backs the engine tests and local development without MySQL.  All
// conditional semantics match the SQL store: a transition either applies
// completely under the lock or leaves every record untouched.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hostelpad/hostel-booking/internal/engine"
	"github.com/hostelpad/hostel-booking/internal/model"
)

// Store keeps hostels, rooms and bookings in maps guarded by one mutex.
type Store struct {
	mu sync.Mutex

	hostels  map[uint64]model.Hostel
	rooms    map[uint64]model.Room
	bookings map[uint64]model.Booking
	keys     map[string]uint64 // idempotency key -> booking id

	nextRoomID    uint64
	nextHostelID  uint64
	nextBookingID uint64
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		hostels:  make(map[uint64]model.Hostel),
		rooms:    make(map[uint64]model.Room),
		bookings: make(map[uint64]model.Booking),
		keys:     make(map[string]uint64),
	}
}

// AddHostel inserts a hostel, assigning an ID when missing.
func (s *Store) AddHostel(h model.Hostel) model.Hostel {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h.ID == 0 {
		s.nextHostelID++
		h.ID = s.nextHostelID
	}
	s.hostels[h.ID] = h
	return h
}

// AddRoom inserts a room, assigning an ID when missing.
func (s *Store) AddRoom(r model.Room) model.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == 0 {
		s.nextRoomID++
		r.ID = s.nextRoomID
	}
	s.rooms[r.ID] = r
	return r
}

func (s *Store) GetRoom(_ context.Context, roomID uint64) (model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return model.Room{}, engine.ErrRoomNotFound
	}
	return r, nil
}

func (s *Store) GetBooking(_ context.Context, bookingID uint64) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return model.Booking{}, engine.ErrBookingNotFound
	}
	return b, nil
}

func (s *Store) GetBookingByKey(_ context.Context, key string) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.keys[key]
	if !ok {
		return model.Booking{}, engine.ErrBookingNotFound
	}
	return s.bookings[id], nil
}

func (s *Store) CreateBooking(_ context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.IdempotencyKey != "" {
		if _, ok := s.keys[b.IdempotencyKey]; ok {
			return engine.ErrDuplicateKey
		}
	}
	room, ok := s.rooms[b.RoomID]
	if !ok {
		return engine.ErrRoomNotFound
	}
	if room.Occupied >= room.Capacity {
		return engine.ErrRoomUnavailable
	}

	s.nextBookingID++
	b.ID = s.nextBookingID
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	s.bookings[b.ID] = *b
	if b.IdempotencyKey != "" {
		s.keys[b.IdempotencyKey] = b.ID
	}
	return nil
}

func (s *Store) ApplyTransition(_ context.Context, t engine.Transition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[t.BookingID]
	if !ok {
		return engine.ErrBookingNotFound
	}
	if b.Status != t.From {
		return engine.ErrStaleState
	}
	if t.FromPaid != nil && b.Paid != *t.FromPaid {
		return engine.ErrStaleState
	}

	room, ok := s.rooms[t.RoomID]
	if !ok {
		return engine.ErrRoomNotFound
	}
	if t.OccupancyDelta != 0 {
		next := int64(room.Occupied) + int64(t.OccupancyDelta)
		if next < 0 || next > int64(room.Capacity) {
			return engine.ErrRoomUnavailable
		}
		room.Occupied = uint32(next)
	}

	b.Status = t.To
	if t.SetPaid != nil {
		b.Paid = *t.SetPaid
	}
	if t.SetPaymentRef != nil {
		ref := *t.SetPaymentRef
		b.PaymentRef = &ref
	}
	b.UpdatedAt = time.Now().UTC()

	room.UpdatedAt = b.UpdatedAt
	s.rooms[t.RoomID] = room
	s.bookings[t.BookingID] = b
	return nil
}

func (s *Store) AvailableRooms(_ context.Context, hostelID uint64) ([]model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Room, 0)
	for _, r := range s.rooms {
		if r.HostelID == hostelID && r.Available() {
			out = append(out, r)
		}
	}
	return out, nil
}
