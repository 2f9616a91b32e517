package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/expofair/stall-reservation/internal/service"
)

// AvailabilityHandler serves the public stall availability view.  The
// response is a best-effort snapshot and may be served from the Redis
// response cache; the allocation engine never trusts it for writes.
type AvailabilityHandler struct {
	Availability *service.AvailabilityService
}

func NewAvailabilityHandler(availability *service.AvailabilityService) *AvailabilityHandler {
	if availability == nil {
		panic("nil service passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{Availability: availability}
}

// GetEventAvailability handles GET /v1/events/:id/availability.
func (h *AvailabilityHandler) GetEventAvailability(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	view, err := h.Availability.GetEventStallAvailability(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// GetMyStalls handles GET /v1/events/:id/my-stalls for authenticated
// business users.
func (h *AvailabilityHandler) GetMyStalls(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ids, err := h.Availability.MyStallsInEvent(c.Request().Context(), id, userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"event_id": id, "stall_ids": ids})
}
