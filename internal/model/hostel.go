package model

import (
	"errors"
	"strings"
	"time"
)

// GenderPolicy restricts which residents a hostel accepts.
type GenderPolicy string

const (
	GenderMale   GenderPolicy = "MALE"
	GenderFemale GenderPolicy = "FEMALE"
	GenderMixed  GenderPolicy = "MIXED"
)

// ErrUnknownGenderPolicy is returned for values outside the policy set.
var ErrUnknownGenderPolicy = errors.New("unknown gender policy")

// ParseGenderPolicy normalizes a raw policy string case-insensitively.
func ParseGenderPolicy(raw string) (GenderPolicy, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(GenderMale):
		return GenderMale, nil
	case string(GenderFemale):
		return GenderFemale, nil
	case string(GenderMixed):
		return GenderMixed, nil
	}
	return "", ErrUnknownGenderPolicy
}

// Hostel is a building containing rooms.  RoomCount is the declared number
// of rooms and is informational only; the source of truth for inventory is
// the rooms table.  Deleting a hostel cascades to its rooms at the
// persistence layer.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – hostel display name.
//  Gender      – gender policy for residents.
//  Description – short free-text description.
//  ImageURL    – cover image shown in listings (storage is external).
//  RoomCount   – declared room count, informational.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Hostel struct {
	ID          uint64
	Name        string
	Gender      GenderPolicy
	Description string
	ImageURL    string
	RoomCount   uint32
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
