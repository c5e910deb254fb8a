package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hostelpad/hostel-booking/internal/model"
	"github.com/hostelpad/hostel-booking/internal/queue"
	"github.com/hostelpad/hostel-booking/internal/repository"
)

// AdminBookingHandler serves the admin booking desk: pending queue,
// approve/reject decisions and agent assignment.  It reuses the
// BookingHandler's engine and publisher wiring.
type AdminBookingHandler struct {
	*BookingHandler
	Users *repository.UserRepo
}

func NewAdminBookingHandler(base *BookingHandler, users *repository.UserRepo) *AdminBookingHandler {
	if base == nil || users == nil {
		panic("nil dependency passed to NewAdminBookingHandler")
	}
	return &AdminBookingHandler{BookingHandler: base, Users: users}
}

// List handles GET /v1/admin/bookings.  ?status= filters the queue;
// the admin dashboard polls with status=PENDING.
func (h *AdminBookingHandler) List(c echo.Context) error {
	raw := c.QueryParam("status")
	if raw == "" {
		raw = string(model.BookingPending)
	}
	status, err := model.ParseBookingStatus(raw)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}
	details, err := h.Bookings.ListByStatus(c.Request().Context(), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database_error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": details})
}

// Approve handles POST /v1/admin/bookings/:id/approve.  Approval claims
// one bed; a full room rejects the request with 409.
func (h *AdminBookingHandler) Approve(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Engine.ApproveBooking(c.Request().Context(), actor, id)
	if err != nil {
		return engineError(c, err)
	}
	h.publishEvent(c, queue.EventBookingApproved, b)
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// Reject handles POST /v1/admin/bookings/:id/reject.  The booking row is
// kept for audit; it never held occupancy.
func (h *AdminBookingHandler) Reject(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Engine.RejectBooking(c.Request().Context(), actor, id)
	if err != nil {
		return engineError(c, err)
	}
	h.publishEvent(c, queue.EventBookingRejected, b)
	return c.JSON(http.StatusOK, toBookingResp(b))
}

type assignAgentReq struct {
	AgentID uint64 `json:"agent_id"`
}

// AssignAgent handles POST /v1/admin/bookings/:id/assign, routing a
// booking to an agent's work queue.  The target user must hold the
// AGENT role.
func (h *AdminBookingHandler) AssignAgent(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req assignAgentReq
	if err := c.Bind(&req); err != nil || req.AgentID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "agent_id is required"})
	}
	ctx := c.Request().Context()
	agent, err := h.Users.GetByID(ctx, req.AgentID)
	if err != nil {
		return repoError(c, err)
	}
	if agent.Role != model.RoleAgent {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user is not an agent"})
	}
	if err := h.Bookings.AssignAgent(ctx, id, req.AgentID); err != nil {
		return repoError(c, err)
	}
	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}
