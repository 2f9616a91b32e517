package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/expofair/stall-reservation/internal/model"
	"github.com/expofair/stall-reservation/internal/service"
)

// EmployeeReservationHandler exposes the administrative reservation
// operations.  The EMPLOYEE role requirement is enforced by middleware;
// these paths skip the ownership guard.
type EmployeeReservationHandler struct {
	Reservations *service.ReservationService
}

func NewEmployeeReservationHandler(reservations *service.ReservationService) *EmployeeReservationHandler {
	if reservations == nil {
		panic("nil service passed to NewEmployeeReservationHandler")
	}
	return &EmployeeReservationHandler{Reservations: reservations}
}

// List handles GET /v1/employee/reservations with optional event_id,
// status and user_id query filters.
func (h *EmployeeReservationHandler) List(c echo.Context) error {
	var f service.ReservationFilter
	if raw := c.QueryParam("event_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event_id"})
		}
		f.EventID = &id
	}
	if raw := c.QueryParam("status"); raw != "" {
		status := model.ReservationStatus(strings.ToUpper(strings.TrimSpace(raw)))
		if status != model.ReservationConfirmed && status != model.ReservationCancelled {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		f.Status = &status
	}
	if raw := c.QueryParam("user_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user_id"})
		}
		f.UserID = &id
	}
	views, err := h.Reservations.ListReservationsFiltered(c.Request().Context(), f)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, views)
}

// Cancel handles DELETE /v1/employee/reservations/:id without an
// ownership check.
func (h *EmployeeReservationHandler) Cancel(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	view, err := h.Reservations.CancelReservationAdmin(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}
