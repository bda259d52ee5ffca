package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/booking"
)

var categoryStatus = map[booking.Category]int{
	booking.CategoryValidation: http.StatusBadRequest,
	booking.CategoryConflict:   http.StatusConflict,
	booking.CategoryNotFound:   http.StatusNotFound,
	booking.CategoryForbidden:  http.StatusForbidden,
	booking.CategoryTransient:  http.StatusServiceUnavailable,
}

// bookingError renders an error from the booking service. Transient
// failures carry Retry-After so clients know a retry is safe; anything
// that is not a booking error is a 500.
func bookingError(c echo.Context, err error) error {
	var be *booking.Error
	if !errors.As(err, &be) {
		c.Logger().Error(err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	cat := booking.CategoryOf(be)
	status, ok := categoryStatus[cat]
	if !ok {
		status = http.StatusInternalServerError
	}
	if cat.Retryable() {
		c.Response().Header().Set("Retry-After", "1")
	}
	return c.JSON(status, echo.Map{"error": be.Message, "code": be.Code})
}
