package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/middleware"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// BookingService is the part of booking.Service the handlers use.
type BookingService interface {
	Book(ctx context.Context, screeningID uint64, seatNumber int, userID uint64) (*repository.BookingDetail, error)
	Cancel(ctx context.Context, bookingID, userID uint64) error
	ListForUser(ctx context.Context, userID uint64) ([]repository.BookingDetail, error)
}

// BookingHandler serves the customer booking endpoints. Every route sits
// behind JWTAuth.
type BookingHandler struct {
	Bookings BookingService
}

func NewBookingHandler(s BookingService) *BookingHandler {
	if s == nil {
		panic("nil booking service passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: s}
}

type bookReq struct {
	SeatNumber *int `json:"seat_number"`
}

// Book handles POST /v1/screenings/:id/book. The 201 body has the same
// shape as a /v1/my-bookings entry.
func (h *BookingHandler) Book(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return errJSON(c, http.StatusUnauthorized, "unauthorized")
	}
	screeningID, ok := parseID(c, "id")
	if !ok {
		return errJSON(c, http.StatusBadRequest, "invalid screening id")
	}
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if req.SeatNumber == nil || *req.SeatNumber < 1 {
		return errJSON(c, http.StatusBadRequest, "seat_number must be a positive integer")
	}

	b, err := h.Bookings.Book(c.Request().Context(), screeningID, *req.SeatNumber, userID)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

// Cancel handles POST /v1/bookings/:id/cancel.
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return errJSON(c, http.StatusUnauthorized, "unauthorized")
	}
	bookingID, ok := parseID(c, "id")
	if !ok {
		return errJSON(c, http.StatusBadRequest, "invalid booking id")
	}
	if err := h.Bookings.Cancel(c.Request().Context(), bookingID, userID); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"detail": "Booking cancelled successfully."})
}

// MyBookings handles GET /v1/my-bookings.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return errJSON(c, http.StatusUnauthorized, "unauthorized")
	}
	out, err := h.Bookings.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
