// Package booking implements seat reservation and booking cancellation.
//
// Engine.Reserve and Lifecycle.Cancel are the only writers of the set of
// active bookings. Both take the acting user explicitly and report
// failures as *Error values; transport layers translate them.
package booking

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-ticket-booking/internal/logger"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// DefaultTxTimeout bounds a reservation unit of work when no timeout is
// configured.
const DefaultTxTimeout = 5 * time.Second

// EventPublisher receives committed booking changes. Failures are logged
// and never undo the change.
type EventPublisher interface {
	BookingCreated(ctx context.Context, b *model.Booking) error
	BookingCancelled(ctx context.Context, b *model.Booking) error
}

type options struct {
	log       logrus.FieldLogger
	events    EventPublisher
	txTimeout time.Duration
}

// Option configures an Engine, Lifecycle or Service.
type Option func(*options)

func WithLogger(l logrus.FieldLogger) Option { return func(o *options) { o.log = l } }

func WithEvents(p EventPublisher) Option { return func(o *options) { o.events = p } }

// WithTxTimeout bounds each unit of work. Non-positive values keep the
// default.
func WithTxTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.txTimeout = d
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{txTimeout: DefaultTxTimeout}
	for _, fn := range opts {
		fn(&o)
	}
	if o.log == nil {
		o.log = logger.Discard()
	}
	return o
}

// Engine creates bookings.
type Engine struct {
	store Store
	options
}

func NewEngine(store Store, opts ...Option) *Engine {
	return &Engine{store: store, options: buildOptions(opts)}
}

// Reserve books seatNumber on the screening for userID.
//
// The seat, occupancy and capacity checks and the insert run inside one
// unit of work holding the screening's lock, so concurrent calls for the
// same screening behave as if run one after another. The unit of work
// ignores cancellation of ctx once started and is bounded by the
// configured timeout instead, so a disconnecting client cannot leave the
// outcome half-applied. Reserve never retries.
func (e *Engine) Reserve(ctx context.Context, screeningID uint64, seatNumber int, userID uint64) (*model.Booking, error) {
	log := e.log.WithFields(logrus.Fields{
		"screening_id": screeningID,
		"seat_number":  seatNumber,
		"user_id":      userID,
	})
	if seatNumber < 1 {
		return nil, withMessage(ErrInvalidSeat, "Seat number must be a positive integer.")
	}
	if _, err := e.store.Screening(ctx, screeningID); err != nil {
		return nil, storageError(log, "load screening", err)
	}

	txCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.txTimeout)
	defer cancel()

	var booked *model.Booking
	err := e.store.WithScreeningLock(txCtx, screeningID, func(ctx context.Context, tx ReservationTx, s *model.Screening) error {
		if !s.HasSeat(seatNumber) {
			return ErrInvalidSeat
		}
		seat := uint32(seatNumber)
		taken, err := tx.ActiveSeatExists(ctx, seat)
		if err != nil {
			return err
		}
		if taken {
			return ErrSeatTaken
		}
		active, err := tx.CountActive(ctx)
		if err != nil {
			return err
		}
		if active >= int(s.TotalSeats) {
			return ErrShowFull
		}
		b := &model.Booking{
			UserID:      userID,
			ScreeningID: screeningID,
			SeatNumber:  seat,
			Status:      model.BookingActive,
		}
		if err := tx.Insert(ctx, b); err != nil {
			return err
		}
		booked = b
		return nil
	})
	if err != nil {
		return nil, storageError(log, "reserve", err)
	}
	log = log.WithField("booking_id", booked.ID)
	log.Info("seat reserved")

	if e.events != nil {
		if err := e.events.BookingCreated(context.WithoutCancel(ctx), booked); err != nil {
			log.WithError(err).Warn("publish booking.created failed")
		}
	}
	return booked, nil
}

// storageError passes booking errors through and turns anything else into
// a TransactionFailed that wraps the cause.
func storageError(log logrus.FieldLogger, op string, err error) error {
	var be *Error
	if errors.As(err, &be) {
		return be
	}
	log.WithError(err).WithFields(logrus.Fields{
		"op":            op,
		"lock_conflict": repository.IsLockConflict(err),
		"timeout":       errors.Is(err, context.DeadlineExceeded),
	}).Error("booking storage failure")
	return transactionFailed(err)
}
