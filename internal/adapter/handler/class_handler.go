package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/srgjo27/gym_booking/internal/core/domain"
	"github.com/srgjo27/gym_booking/internal/core/services"
)

type ClassHandler struct {
	catalog    *services.CatalogService
	schedule   *services.ScheduleQuery
	bookings   *services.BookingService
	attendance *services.AttendanceService
}

func NewClassHandler(catalog *services.CatalogService, schedule *services.ScheduleQuery, bookings *services.BookingService, attendance *services.AttendanceService) *ClassHandler {
	return &ClassHandler{catalog: catalog, schedule: schedule, bookings: bookings, attendance: attendance}
}

// CreateClass handles POST /v1/classes.
func (h *ClassHandler) CreateClass(c echo.Context) error {
	actor, _ := currentActor(c)

	var def domain.ClassDefinition
	if err := c.Bind(&def); err != nil {
		return badRequest(c, "invalid json body")
	}

	class, err := h.catalog.CreateClass(c.Request().Context(), actor, def)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toClassResponse(*class))
}

// UpdateClass handles PATCH /v1/classes/:id.
func (h *ClassHandler) UpdateClass(c echo.Context) error {
	actor, _ := currentActor(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return badRequest(c, "invalid class id")
	}

	var patch domain.ClassPatch
	if err := c.Bind(&patch); err != nil {
		return badRequest(c, "invalid json body")
	}

	class, err := h.catalog.UpdateClass(c.Request().Context(), actor, id, patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toClassResponse(*class))
}

// TransitionStatus handles POST /v1/classes/:id/status.
func (h *ClassHandler) TransitionStatus(c echo.Context) error {
	actor, _ := currentActor(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return badRequest(c, "invalid class id")
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid json body")
	}

	class, err := h.catalog.TransitionStatus(c.Request().Context(), actor, id, domain.ClassStatus(body.Status))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toClassResponse(*class))
}

// ListClasses handles GET /v1/classes?day=today&type=yoga&instructor=..&q=..&upcoming=true&date=2025-01-31.
func (h *ClassHandler) ListClasses(c echo.Context) error {
	actor, _ := currentActor(c)

	filter := services.ScheduleFilter{
		Day:          services.Day(c.QueryParam("day")),
		Type:         c.QueryParam("type"),
		InstructorID: c.QueryParam("instructor"),
		Search:       c.QueryParam("q"),
		ViewerID:     actor.UserID,
	}
	if filter.Type == "all" {
		filter.Type = ""
	}
	if v := c.QueryParam("upcoming"); v != "" {
		upcoming, err := strconv.ParseBool(v)
		if err != nil {
			return badRequest(c, "invalid upcoming flag")
		}
		filter.UpcomingOnly = upcoming
	}
	if v := c.QueryParam("date"); v != "" {
		date, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return badRequest(c, "date must be YYYY-MM-DD")
		}
		filter.Date = &date
	}
	switch filter.Day {
	case "", services.DayAll, services.DayToday, services.DayTomorrow:
	default:
		return badRequest(c, "day must be one of all, today, tomorrow")
	}

	views, err := h.schedule.ListClasses(c.Request().Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toClassViewResponses(views))
}

// GetClass handles GET /v1/classes/:id.
func (h *ClassHandler) GetClass(c echo.Context) error {
	actor, _ := currentActor(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return badRequest(c, "invalid class id")
	}

	view, err := h.schedule.GetClass(c.Request().Context(), id, actor.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toClassViewResponse(*view))
}

// ListBookings handles GET /v1/classes/:id/bookings.
func (h *ClassHandler) ListBookings(c echo.Context) error {
	actor, _ := currentActor(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return badRequest(c, "invalid class id")
	}

	class, err := h.catalog.GetClass(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if !actor.CanManage(*class) {
		return writeError(c, domain.ErrForbidden)
	}

	bookings, err := h.bookings.ListByClass(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResponses(bookings))
}

// RecordAttendance handles POST /v1/classes/:id/attendance.
func (h *ClassHandler) RecordAttendance(c echo.Context) error {
	actor, _ := currentActor(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return badRequest(c, "invalid class id")
	}

	var body struct {
		PresentMemberIDs []string `json:"present_member_ids"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid json body")
	}

	result, err := h.attendance.RecordAttendance(c.Request().Context(), actor, id, body.PresentMemberIDs)
	if err != nil && result == nil {
		return writeError(c, err)
	}

	resp := toRollCallResponse(result)
	if err != nil {
		resp.Error = err.Error()
		return c.JSON(statusFor(domain.KindOf(err)), resp)
	}
	return c.JSON(http.StatusCreated, resp)
}

// ListAttendance handles GET /v1/classes/:id/attendance.
func (h *ClassHandler) ListAttendance(c echo.Context) error {
	actor, _ := currentActor(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return badRequest(c, "invalid class id")
	}

	class, err := h.catalog.GetClass(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if !actor.CanManage(*class) {
		return writeError(c, domain.ErrForbidden)
	}

	records, err := h.attendance.ListAttendance(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toAttendanceResponses(records))
}

func pathUUID(c echo.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
