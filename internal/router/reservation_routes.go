package router

import (
	"github.com/labstack/echo/v4"

	"github.com/expofair/stall-reservation/internal/handler"
	"github.com/expofair/stall-reservation/internal/middleware"
	"github.com/expofair/stall-reservation/internal/model"
)

// RegisterReservations mounts the business-user booking endpoints under
// /v1. Every route requires a valid JWT with the USER role; ownership of
// individual reservations is checked inside the engine, not here.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, av *handler.AvailabilityHandler, jwtSecret string, mw ...echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(string(model.RoleUser)),
	)
	g.Use(mw...)

	g.GET("/reservations", h.List)
	g.POST("/reservations", h.Create)
	g.DELETE("/reservations/:id", h.Cancel)
	g.PUT("/reservations/:id/stalls", h.AmendStalls)
	g.POST("/reservations/:id/genres", h.AddGenres)
	g.GET("/reservations/:id/genres", h.ListGenres)

	g.GET("/events/:id/my-stalls", av.GetMyStalls)
}
