package booking

import (
	"context"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// ReservationTx is the view of a screening's active booking set available
// while its lock is held.
type ReservationTx interface {
	ActiveSeatExists(ctx context.Context, seat uint32) (bool, error)
	CountActive(ctx context.Context) (int, error)
	// Insert stores b as ACTIVE and fills in its generated fields. It
	// returns ErrSeatTaken if storage already holds an active booking
	// for the seat.
	Insert(ctx context.Context, b *model.Booking) error
}

// Store is the persistence port used by Engine and Lifecycle.
//
// Missing rows are reported as ErrNotFound. Any other error is treated as
// a storage fault.
type Store interface {
	Screening(ctx context.Context, id uint64) (*model.Screening, error)

	// WithScreeningLock runs fn in one serializable unit of work holding
	// an exclusive lock on the screening. The unit commits if fn returns
	// nil and rolls back otherwise; the lock is released either way.
	WithScreeningLock(ctx context.Context, screeningID uint64,
		fn func(ctx context.Context, tx ReservationTx, s *model.Screening) error) error

	Booking(ctx context.Context, id uint64) (*model.Booking, error)

	// MarkCancelled moves an ACTIVE booking at the given version to
	// CANCELLED. It reports false if the booking changed in between.
	MarkCancelled(ctx context.Context, id uint64, version uint32) (bool, error)

	// BookingDetail returns a booking joined with its screening and movie.
	BookingDetail(ctx context.Context, id uint64) (*repository.BookingDetail, error)

	BookingsByUser(ctx context.Context, userID uint64) ([]repository.BookingDetail, error)
}
