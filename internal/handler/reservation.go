package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/expofair/stall-reservation/internal/service"
)

// ReservationHandler exposes the allocation engine to business users.
// JWT authentication and the USER role check have already run in
// middleware; the caller identity is threaded explicitly into every
// engine call.
type ReservationHandler struct {
	Reservations *service.ReservationService
}

func NewReservationHandler(reservations *service.ReservationService) *ReservationHandler {
	if reservations == nil {
		panic("nil service passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: reservations}
}

// List handles GET /v1/reservations.  The optional ?event_id query
// restricts the listing to one event.
func (h *ReservationHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var eventID *uint64
	if raw := c.QueryParam("event_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event_id"})
		}
		eventID = &id
	}
	views, err := h.Reservations.ListMyReservations(c.Request().Context(), userID, eventID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, views)
}

// Create handles POST /v1/reservations.  Body: {"event_id": n,
// "stall_ids": [..]}.
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		EventID  uint64   `json:"event_id"`
		StallIDs []uint64 `json:"stall_ids"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.EventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id is required"})
	}
	view, err := h.Reservations.MakeReservation(c.Request().Context(), userID, body.EventID, body.StallIDs)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, view)
}

// Cancel handles DELETE /v1/reservations/:id.  Cancelling twice is safe;
// the second call returns the terminal view unchanged.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	view, err := h.Reservations.CancelReservation(c.Request().Context(), userID, id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// AmendStalls handles PUT /v1/reservations/:id/stalls.  Body:
// {"stall_ids": [..]}: the full replacement set.
func (h *ReservationHandler) AmendStalls(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var body struct {
		StallIDs []uint64 `json:"stall_ids"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	view, err := h.Reservations.AmendReservationStalls(c.Request().Context(), userID, id, body.StallIDs)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// AddGenres handles POST /v1/reservations/:id/genres.  Body:
// {"genre_ids": [..]}.
func (h *ReservationHandler) AddGenres(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var body struct {
		GenreIDs []uint64 `json:"genre_ids"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	genres, err := h.Reservations.AddReservationGenres(c.Request().Context(), userID, id, body.GenreIDs)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"genres": genres})
}

// ListGenres handles GET /v1/reservations/:id/genres.
func (h *ReservationHandler) ListGenres(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	genres, err := h.Reservations.ListReservationGenres(c.Request().Context(), userID, id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"genres": genres})
}
