package router

import (
	"github.com/labstack/echo/v4"

	"github.com/expofair/stall-reservation/internal/handler"
	"github.com/expofair/stall-reservation/internal/middleware"
	"github.com/expofair/stall-reservation/internal/model"
)

// RegisterEmployee mounts the administrative reservation endpoints under
// /v1/employee. The EMPLOYEE role gate is the only difference from the
// business-user surface; cancellation here skips the ownership check.
func RegisterEmployee(e *echo.Echo, h *handler.EmployeeReservationHandler, jwtSecret string) {
	g := e.Group(
		"/v1/employee",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(string(model.RoleEmployee)),
	)

	g.GET("/reservations", h.List)
	g.DELETE("/reservations/:id", h.Cancel)
}
