package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hostelpad/hostel-booking/internal/repository"
)

// AgentHandler serves the agent work queue.
type AgentHandler struct {
	Bookings *repository.BookingRepo
}

func NewAgentHandler(bookings *repository.BookingRepo) *AgentHandler {
	if bookings == nil {
		panic("nil repository passed to NewAgentHandler")
	}
	return &AgentHandler{Bookings: bookings}
}

// ListAssigned handles GET /v1/agent/bookings, returning the bookings
// routed to the calling agent.
func (h *AgentHandler) ListAssigned(c echo.Context) error {
	agentID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}
	details, err := h.Bookings.ListByAgent(c.Request().Context(), agentID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database_error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": details})
}
