package router

import (
	"github.com/labstack/echo/v4"

	"github.com/hostelpad/hostel-booking/internal/handler"
	"github.com/hostelpad/hostel-booking/internal/middleware"
	"github.com/hostelpad/hostel-booking/internal/model"
)

// RegisterBookings registers the authenticated booking routes.  Any
// signed-in role may create and manage its own bookings; the engine
// enforces per-booking ownership beyond the role gate.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/v1/bookings")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleUser, model.RoleAgent, model.RoleAdmin))

	g.POST("", b.Create)
	g.GET("", b.ListMine)
	g.GET("/:id", b.Get)
	g.POST("/:id/cancel", b.Cancel)
	g.POST("/:id/pay", b.Pay)
	g.POST("/:id/refund", b.Refund)
}

// RegisterAgent registers the agent work queue.
func RegisterAgent(e *echo.Echo, a *handler.AgentHandler, jwtSecret string) {
	g := e.Group("/v1/agent")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAgent, model.RoleAdmin))

	g.GET("/bookings", a.ListAssigned)
}
