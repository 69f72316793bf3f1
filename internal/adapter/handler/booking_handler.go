package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/srgjo27/gym_booking/internal/core/services"
)

type BookingHandler struct {
	bookings *services.BookingService
	schedule *services.ScheduleQuery
}

func NewBookingHandler(bookings *services.BookingService, schedule *services.ScheduleQuery) *BookingHandler {
	return &BookingHandler{bookings: bookings, schedule: schedule}
}

// Book handles POST /v1/classes/:id/bookings.
func (h *BookingHandler) Book(c echo.Context) error {
	actor, _ := currentActor(c)
	classID, ok := pathUUID(c, "id")
	if !ok {
		return badRequest(c, "invalid class id")
	}

	booking, err := h.bookings.Book(c.Request().Context(), actor, classID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toBookingResponse(*booking))
}

// Cancel handles DELETE /v1/bookings/:id.
func (h *BookingHandler) Cancel(c echo.Context) error {
	actor, _ := currentActor(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return badRequest(c, "invalid booking id")
	}

	if err := h.bookings.Cancel(c.Request().Context(), actor, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAttended handles POST /v1/bookings/:id/attended.
func (h *BookingHandler) MarkAttended(c echo.Context) error {
	actor, _ := currentActor(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return badRequest(c, "invalid booking id")
	}

	if err := h.bookings.MarkAttended(c.Request().Context(), actor, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MyBookings handles GET /v1/me/bookings.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	actor, _ := currentActor(c)

	bookings, err := h.bookings.ListByUser(c.Request().Context(), actor.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResponses(bookings))
}

// MyUpcoming handles GET /v1/me/upcoming.
func (h *BookingHandler) MyUpcoming(c echo.Context) error {
	actor, _ := currentActor(c)

	views, err := h.schedule.UpcomingForUser(c.Request().Context(), actor.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toClassViewResponses(views))
}
