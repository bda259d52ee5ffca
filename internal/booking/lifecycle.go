package booking

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// Lifecycle moves bookings through their status transitions and lists
// them for their owners.
type Lifecycle struct {
	store Store
	options
}

func NewLifecycle(store Store, opts ...Option) *Lifecycle {
	return &Lifecycle{store: store, options: buildOptions(opts)}
}

// Cancel cancels bookingID on behalf of userID. Only the owner may cancel
// and only an ACTIVE booking can be cancelled; a second cancel reports
// ErrAlreadyCancelled. The status write is a compare-and-swap on the
// booking version, so of two racing cancels exactly one succeeds.
func (l *Lifecycle) Cancel(ctx context.Context, bookingID, userID uint64) error {
	log := l.log.WithFields(logrus.Fields{"booking_id": bookingID, "user_id": userID})

	b, err := l.store.Booking(ctx, bookingID)
	if err != nil {
		return storageError(log, "load booking", err)
	}
	if b.UserID != userID {
		return ErrForbidden
	}
	if !b.Status.CanTransition(model.BookingCancelled) {
		return ErrAlreadyCancelled
	}

	txCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.txTimeout)
	defer cancel()

	ok, err := l.store.MarkCancelled(txCtx, b.ID, b.Version)
	if err != nil {
		return storageError(log, "cancel", err)
	}
	if !ok {
		cur, err := l.store.Booking(txCtx, b.ID)
		if err != nil {
			return storageError(log, "reload booking", err)
		}
		if cur.Status == model.BookingCancelled {
			return ErrAlreadyCancelled
		}
		return transactionFailed(errConcurrentUpdate)
	}

	b.Status = model.BookingCancelled
	b.Version++
	log.WithField("screening_id", b.ScreeningID).Info("booking cancelled")

	if l.events != nil {
		if err := l.events.BookingCancelled(context.WithoutCancel(ctx), b); err != nil {
			log.WithError(err).Warn("publish booking.cancelled failed")
		}
	}
	return nil
}

// ListForUser returns the user's bookings, newest first.
func (l *Lifecycle) ListForUser(ctx context.Context, userID uint64) ([]repository.BookingDetail, error) {
	out, err := l.store.BookingsByUser(ctx, userID)
	if err != nil {
		return nil, storageError(l.log.WithField("user_id", userID), "list bookings", err)
	}
	return out, nil
}
