package model

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingActive    BookingStatus = "ACTIVE"
	BookingCancelled BookingStatus = "CANCELLED"
)

// bookingTransitions lists every legal status change.  A status missing
// from the table is terminal.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingActive: {BookingCancelled},
}

// CanTransition reports whether a booking in status s may move to next.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status.
func (s BookingStatus) Valid() bool {
	return s == BookingActive || s == BookingCancelled
}

// Booking is a user's claim on one seat of one screening.  SeatNumber and
// ScreeningID never change after creation; only Status moves, and only
// forward through the transition table.  Version increments on every
// status change and backs optimistic concurrency on cancellation.
//
// Fields:
//
//	ID          – primary key identifier.
//	UserID      – owner of the booking.
//	ScreeningID – screening the seat belongs to.
//	SeatNumber  – seat in [1, screening.TotalSeats].
//	Status      – ACTIVE or CANCELLED.
//	Version     – optimistic locking counter.
//	CreatedAt   – creation timestamp.
//	UpdatedAt   – last status change.
type Booking struct {
	ID          uint64        `json:"id"`           // bookings.id
	UserID      uint64        `json:"-"`            // bookings.user_id
	ScreeningID uint64        `json:"screening_id"` // bookings.screening_id
	SeatNumber  uint32        `json:"seat_number"`  // bookings.seat_number
	Status      BookingStatus `json:"status"`       // bookings.status
	Version     uint32        `json:"-"`            // bookings.version
	CreatedAt   time.Time     `json:"created_at"`   // bookings.created_at
	UpdatedAt   time.Time     `json:"-"`            // bookings.updated_at
}

// IsActive reports whether the booking still occupies its seat.
func (b Booking) IsActive() bool { return b.Status == BookingActive }
