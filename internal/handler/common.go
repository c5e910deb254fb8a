// Package handler implements the HTTP layer.  Handlers bind and validate
// input, delegate booking transitions to the engine and listings to the
// repositories, and map expected errors onto HTTP status codes.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hostelpad/hostel-booking/internal/engine"
	"github.com/hostelpad/hostel-booking/internal/model"
	"github.com/hostelpad/hostel-booking/internal/repository"
)

// getUserID extracts the authenticated user's ID stored by the JWT
// middleware.  The claim arrives as float64 from JSON decoding.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getActor builds the engine actor from the authenticated context.
func getActor(c echo.Context) (engine.Actor, error) {
	id, err := getUserID(c)
	if err != nil {
		return engine.Actor{}, err
	}
	raw, _ := c.Get("role").(string)
	role, err := model.ParseRole(raw)
	if err != nil {
		return engine.Actor{}, err
	}
	return engine.Actor{UserID: id, Role: role}, nil
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// engineError maps the engine's error kinds onto HTTP responses.  Room
// exhaustion and transient faults get distinct codes: the former means
// "choose another room", the latter "try again".
func engineError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, engine.ErrRoomNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room_not_found"})
	case errors.Is(err, engine.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking_not_found"})
	case errors.Is(err, engine.ErrRoomUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "room_unavailable"})
	case errors.Is(err, engine.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": "invalid_transition"})
	case errors.Is(err, engine.ErrUnauthorized):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, engine.ErrTransient):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "transient_error"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error"})
}

// repoError maps repository sentinels for the CRUD endpoints.
func repoError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrHostelNotFound),
		errors.Is(err, repository.ErrRoomNotFound),
		errors.Is(err, repository.ErrBookingNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database_error"})
}

// bookingResp is the JSON shape for a single booking.
type bookingResp struct {
	ID         uint64    `json:"id"`
	UserID     uint64    `json:"user_id"`
	RoomID     uint64    `json:"room_id"`
	HostelID   uint64    `json:"hostel_id"`
	AgentID    *uint64   `json:"agent_id,omitempty"`
	Status     string    `json:"status"`
	Paid       bool      `json:"paid"`
	PaymentRef *string   `json:"payment_ref,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toBookingResp(b model.Booking) bookingResp {
	return bookingResp{
		ID:         b.ID,
		UserID:     b.UserID,
		RoomID:     b.RoomID,
		HostelID:   b.HostelID,
		AgentID:    b.AgentID,
		Status:     string(b.Status),
		Paid:       b.Paid,
		PaymentRef: b.PaymentRef,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}
