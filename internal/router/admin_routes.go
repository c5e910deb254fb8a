package router

import (
	"github.com/labstack/echo/v4"

	"github.com/hostelpad/hostel-booking/internal/handler"
	"github.com/hostelpad/hostel-booking/internal/middleware"
	"github.com/hostelpad/hostel-booking/internal/model"
)

// RegisterAdmin registers the admin surface: inventory management, the
// booking decision queue and user role administration.  Every route here
// requires the ADMIN role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHostelHandler, r *handler.AdminRoomHandler, b *handler.AdminBookingHandler, u *handler.AdminUserHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))

	g.POST("/hostels", h.Create)
	g.PATCH("/hostels/:id", h.Update)
	g.DELETE("/hostels/:id", h.Delete)

	g.POST("/hostels/:id/rooms", r.Create)
	g.PATCH("/rooms/:id", r.Update)
	g.DELETE("/rooms/:id", r.Delete)

	g.GET("/bookings", b.List)
	g.POST("/bookings/:id/approve", b.Approve)
	g.POST("/bookings/:id/reject", b.Reject)
	g.POST("/bookings/:id/assign", b.AssignAgent)

	g.GET("/users", u.List)
	g.PATCH("/users/:id/role", u.UpdateRole)
}
