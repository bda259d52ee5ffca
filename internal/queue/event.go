// Package queue defines the booking event payload and the consumer that
// appends delivered events to the booking audit log.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// BookingQueue is the durable queue booking events are published to.
const BookingQueue = "booking.events"

// EventType names a booking change.
type EventType string

const (
	BookingCreated   EventType = "booking.created"
	BookingCancelled EventType = "booking.cancelled"
)

// BookingEvent is published after a booking change commits. It carries
// enough to audit the change without querying the database.
type BookingEvent struct {
	ID          uuid.UUID           `json:"id"`
	Type        EventType           `json:"type"`
	BookingID   uint64              `json:"booking_id"`
	UserID      uint64              `json:"user_id"`
	ScreeningID uint64              `json:"screening_id"`
	SeatNumber  uint32              `json:"seat_number"`
	Status      model.BookingStatus `json:"status"`
	OccurredAt  time.Time           `json:"occurred_at"`
}

// NewBookingEvent builds an event of type t describing b.
func NewBookingEvent(t EventType, b *model.Booking, at time.Time) BookingEvent {
	return BookingEvent{
		ID:          uuid.New(),
		Type:        t,
		BookingID:   b.ID,
		UserID:      b.UserID,
		ScreeningID: b.ScreeningID,
		SeatNumber:  b.SeatNumber,
		Status:      b.Status,
		OccurredAt:  at.UTC(),
	}
}
