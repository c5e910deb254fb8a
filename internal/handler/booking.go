package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hostelpad/hostel-booking/internal/engine"
	"github.com/hostelpad/hostel-booking/internal/model"
	"github.com/hostelpad/hostel-booking/internal/queue"
	"github.com/hostelpad/hostel-booking/internal/repository"
	"github.com/hostelpad/hostel-booking/internal/service"
)

// BookingHandler serves the authenticated user-facing booking routes:
// create, list own, inspect, cancel, pay and refund.
type BookingHandler struct {
	Engine    *engine.Engine
	Bookings  *repository.BookingRepo
	Rooms     *repository.RoomRepo
	Hostels   *repository.HostelRepo
	Publisher *service.Publisher
}

func NewBookingHandler(eng *engine.Engine, bookings *repository.BookingRepo, rooms *repository.RoomRepo, hostels *repository.HostelRepo, pub *service.Publisher) *BookingHandler {
	if eng == nil || bookings == nil || rooms == nil || hostels == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Engine: eng, Bookings: bookings, Rooms: rooms, Hostels: hostels, Publisher: pub}
}

// publishEvent emits a lifecycle event for a committed transition.  Event
// delivery is best effort: a broker outage must never fail the request,
// the transition is already durable in MySQL.
func (h *BookingHandler) publishEvent(c echo.Context, evType string, b model.Booking) {
	if h.Publisher == nil {
		return
	}
	ev := queue.BookingEvent{
		Type:       evType,
		BookingID:  b.ID,
		UserID:     b.UserID,
		RoomID:     b.RoomID,
		HostelID:   b.HostelID,
		Status:     string(b.Status),
		Paid:       b.Paid,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	ctx := c.Request().Context()
	if room, err := h.Rooms.GetByID(ctx, b.RoomID); err == nil {
		ev.RoomName = room.Name
	}
	if hs, err := h.Hostels.GetByID(ctx, b.HostelID); err == nil {
		ev.HostelName = hs.Name
	}
	if err := h.Publisher.Publish(ctx, ev); err != nil {
		log.Printf("publish %s for booking %d: %v", evType, b.ID, err)
	}
}

type createBookingReq struct {
	RoomID         uint64 `json:"room_id"`
	IdempotencyKey string `json:"idempotency_key"`
}

// Create handles POST /v1/bookings.  The booking starts PENDING and
// holds no occupancy until an admin approves it.  Repeating the request
// with the same idempotency key returns the original booking.
func (h *BookingHandler) Create(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil || req.RoomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id is required"})
	}
	b, err := h.Engine.CreateBooking(c.Request().Context(), actor, req.RoomID, req.IdempotencyKey)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, toBookingResp(b))
}

// ListMine handles GET /v1/bookings, returning the caller's bookings with
// room and hostel names joined in.
func (h *BookingHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}
	details, err := h.Bookings.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database_error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": details})
}

// Get handles GET /v1/bookings/:id.  Users see only their own bookings;
// agents additionally see bookings assigned to them; admins see all.
func (h *BookingHandler) Get(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Bookings.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	switch {
	case actor.Role == model.RoleAdmin:
	case b.UserID == actor.UserID:
	case actor.Role == model.RoleAgent && b.AgentID != nil && *b.AgentID == actor.UserID:
	default:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// Cancel handles POST /v1/bookings/:id/cancel.  Cancelling an approved
// booking releases its bed.
func (h *BookingHandler) Cancel(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Engine.CancelBooking(c.Request().Context(), actor, id)
	if err != nil {
		return engineError(c, err)
	}
	h.publishEvent(c, queue.EventBookingCancelled, b)
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// Pay handles POST /v1/bookings/:id/pay, marking an approved booking as
// paid.  Paying twice is a no-op and returns the existing payment ref.
func (h *BookingHandler) Pay(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Engine.MarkPaid(c.Request().Context(), actor, id)
	if err != nil {
		return engineError(c, err)
	}
	h.publishEvent(c, queue.EventBookingPaid, b)
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// Refund handles POST /v1/bookings/:id/refund.  Admin only; the booking
// keeps its status, only the payment flag flips back.
func (h *BookingHandler) Refund(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Engine.Refund(c.Request().Context(), actor, id)
	if err != nil {
		return engineError(c, err)
	}
	h.publishEvent(c, queue.EventBookingRefunded, b)
	return c.JSON(http.StatusOK, toBookingResp(b))
}
