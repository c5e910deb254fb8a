package model

import (
	"errors"
	"strings"
	"time"
)

// Role controls which operations a caller may invoke.  Regular users
// create and cancel their own bookings, agents see bookings assigned to
// them, admins manage inventory, approve/reject bookings and change roles.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAgent Role = "AGENT"
	RoleAdmin Role = "ADMIN"
)

// ErrUnknownRole is returned for values outside the role set.
var ErrUnknownRole = errors.New("unknown role")

// ParseRole normalizes a raw role string case-insensitively.
func ParseRole(raw string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(RoleUser):
		return RoleUser, nil
	case string(RoleAgent):
		return RoleAgent, nil
	case string(RoleAdmin):
		return RoleAdmin, nil
	}
	return "", ErrUnknownRole
}

// User is an application account.  PasswordHash is a bcrypt hash; the
// plain password never leaves the auth handler.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique login email, stored lower-case.
//  PasswordHash – bcrypt hash of the password.
//  Role         – authorization role.
//  FullName     – display name.
//  Phone        – contact phone, optional.
//  IsActive     – whether the account may log in.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type User struct {
	ID           uint64
	Email        string
	PasswordHash string
	Role         Role
	FullName     string
	Phone        string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
