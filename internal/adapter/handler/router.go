package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/srgjo27/gym_booking/internal/core/domain"
)

// RegisterRoutes wires all HTTP endpoints onto e.
func RegisterRoutes(e *echo.Echo, jwtSecret string, classes *ClassHandler, bookings *BookingHandler) {
	e.Use(middleware.Recover())

	e.GET("/health", Health)

	v1 := e.Group("/v1", JWTAuth(jwtSecret))
	staff := RequireRole(domain.RoleAdmin, domain.RoleTrainer)

	v1.GET("/classes", classes.ListClasses)
	v1.GET("/classes/:id", classes.GetClass)
	v1.POST("/classes", classes.CreateClass, staff)
	v1.PATCH("/classes/:id", classes.UpdateClass, staff)
	v1.POST("/classes/:id/status", classes.TransitionStatus, staff)
	v1.GET("/classes/:id/bookings", classes.ListBookings, staff)
	v1.POST("/classes/:id/attendance", classes.RecordAttendance, staff)
	v1.GET("/classes/:id/attendance", classes.ListAttendance, staff)

	v1.POST("/classes/:id/bookings", bookings.Book)
	v1.DELETE("/bookings/:id", bookings.Cancel)
	v1.POST("/bookings/:id/attended", bookings.MarkAttended, staff)
	v1.GET("/me/bookings", bookings.MyBookings)
	v1.GET("/me/upcoming", bookings.MyUpcoming)
}
