package router

import (
	"github.com/labstack/echo/v4"

	"github.com/expofair/stall-reservation/internal/handler"
)

// RegisterRoutes mounts the unauthenticated infrastructure endpoints.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth mounts register/login/refresh/logout under /v1/auth. The
// optional middleware (normally the Redis token bucket) wraps the whole
// group so credential stuffing hits the limiter before bcrypt.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", mw...)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
}

// RegisterPublic mounts the guest-visible availability snapshot. The
// optional middleware is the Redis response cache.
func RegisterPublic(e *echo.Echo, av *handler.AvailabilityHandler, mw ...echo.MiddlewareFunc) {
	e.GET("/v1/events/:id/availability", av.GetEventAvailability, mw...)
}
