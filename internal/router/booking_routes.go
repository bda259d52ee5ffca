package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/handler"
)

// RegisterBooking registers the booking endpoints. Any signed-in user may
// book; limiter throttles writes per user.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	e.POST("/v1/screenings/:id/book", h.Book, authenticated(jwtSecret, limiter)...)
	e.POST("/v1/bookings/:id/cancel", h.Cancel, authenticated(jwtSecret, limiter)...)
	e.GET("/v1/my-bookings", h.MyBookings, authenticated(jwtSecret)...)
}
