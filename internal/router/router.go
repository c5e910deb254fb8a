// Package router wires HTTP routes to handlers and applies the
// authentication, role, rate-limit and cache middleware per route group.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/hostelpad/hostel-booking/internal/config"
	"github.com/hostelpad/hostel-booking/internal/handler"
	"github.com/hostelpad/hostel-booking/internal/middleware"
)

// RegisterHealth exposes the health check used by load balancers.
func RegisterHealth(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session endpoints.  Register, login and the
// refresh-token exchanges live under /v1/auth and need no access token;
// /v1/me requires one.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints.  These
// are the hot read paths, so they sit behind the Redis response cache and
// the per-IP rate limiter.  Both middlewares degrade to passthrough when
// Redis is unavailable.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, rdb *redis.Client) {
	g := e.Group("/v1/hostels")
	g.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))
	g.Use(middleware.Cache(config.LoadCacheConfig(), rdb))

	g.GET("", p.ListHostels)
	g.GET("/:id", p.GetHostel)
	g.GET("/:id/rooms", p.ListRoomsByFloor)
	g.GET("/:id/rooms/available", p.ListAvailableRooms)
}
