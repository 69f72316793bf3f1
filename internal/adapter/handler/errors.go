package handler

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/srgjo27/gym_booking/internal/core/domain"
)

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindClassFull, domain.KindAlreadyBooked, domain.KindAlreadyCancelled,
		domain.KindCapacityViolation, domain.KindInvalidTransition:
		return http.StatusConflict
	case domain.KindPartialFailure:
		return http.StatusMultiStatus
	case domain.KindUnavailable, domain.KindStorageConflict:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeError maps a service error to a JSON response. Unknown errors are
// logged and hidden behind a generic message.
func writeError(c echo.Context, err error) error {
	kind := domain.KindOf(err)
	status := statusFor(kind)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(status, echo.Map{"error": "internal server error", "code": string(domain.KindUnknown)})
	}
	return c.JSON(status, echo.Map{"error": err.Error(), "code": string(kind)})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg, "code": string(domain.KindValidation)})
}
