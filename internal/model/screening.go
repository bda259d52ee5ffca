package model

import (
	"errors"
	"strings"
	"time"
)

// Screening represents a movie playing on a screen at a given time.  Its
// seat capacity is fixed at creation; seat numbers run from 1 to
// TotalSeats inclusive.
//
// Fields:
//
//	ID         – primary key identifier.
//	MovieID    – movie being shown.
//	ScreenName – screen (auditorium) identifier, e.g. "Screen 1".
//	StartsAt   – when the screening begins (UTC).
//	TotalSeats – seat capacity, always positive.
//	CreatedAt  – creation timestamp.
type Screening struct {
	ID         uint64    `json:"id"`          // screenings.id
	MovieID    uint64    `json:"movie_id"`    // screenings.movie_id
	ScreenName string    `json:"screen_name"` // screenings.screen_name
	StartsAt   time.Time `json:"starts_at"`   // screenings.starts_at
	TotalSeats uint32    `json:"total_seats"` // screenings.total_seats
	CreatedAt  time.Time `json:"-"`           // screenings.created_at
}

var (
	ErrNoSeats      = errors.New("total_seats must be positive")
	ErrNoScreenName = errors.New("screen_name is required")
)

// Validate checks the invariants a screening must satisfy before it is
// stored.
func (s Screening) Validate() error {
	if s.TotalSeats == 0 {
		return ErrNoSeats
	}
	if strings.TrimSpace(s.ScreenName) == "" {
		return ErrNoScreenName
	}
	return nil
}

// HasSeat reports whether seat lies within [1, TotalSeats].
func (s Screening) HasSeat(seat int) bool {
	return seat >= 1 && uint64(seat) <= uint64(s.TotalSeats)
}
