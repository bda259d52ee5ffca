package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// SQLStore implements Store on MySQL. The screening row lock taken with
// SELECT ... FOR UPDATE is what serialises reservations across every
// process sharing the database.
type SQLStore struct {
	db         txBeginner
	screenings *repository.ScreeningRepo
	bookings   *repository.BookingRepo
}

// txBeginner is satisfied by *sql.DB.
type txBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// reservationTxOptions is the isolation every reservation runs at.
var reservationTxOptions = sql.TxOptions{Isolation: sql.LevelSerializable}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{
		db:         db,
		screenings: repository.NewScreeningRepo(db),
		bookings:   repository.NewBookingRepo(db),
	}
}

func (s *SQLStore) Screening(ctx context.Context, id uint64) (*model.Screening, error) {
	scr, err := s.screenings.GetByID(ctx, id)
	if errors.Is(err, repository.ErrScreeningNotFound) {
		return nil, withMessage(ErrNotFound, "Screening not found.")
	}
	return scr, err
}

func (s *SQLStore) WithScreeningLock(ctx context.Context, screeningID uint64,
	fn func(ctx context.Context, tx ReservationTx, s *model.Screening) error) error {
	opts := reservationTxOptions
	tx, err := s.db.BeginTx(ctx, &opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	scr, err := s.screenings.LockForUpdateTx(ctx, tx, screeningID)
	if err != nil {
		if errors.Is(err, repository.ErrScreeningNotFound) {
			return withMessage(ErrNotFound, "Screening not found.")
		}
		return fmt.Errorf("lock screening: %w", err)
	}
	if err := fn(ctx, &sqlReservationTx{tx: tx, screeningID: screeningID, bookings: s.bookings}, scr); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

func (s *SQLStore) Booking(ctx context.Context, id uint64) (*model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if errors.Is(err, repository.ErrBookingNotFound) {
		return nil, withMessage(ErrNotFound, "Booking not found.")
	}
	return b, err
}

func (s *SQLStore) MarkCancelled(ctx context.Context, id uint64, version uint32) (bool, error) {
	return s.bookings.CancelIfVersion(ctx, id, version)
}

func (s *SQLStore) BookingDetail(ctx context.Context, id uint64) (*repository.BookingDetail, error) {
	d, err := s.bookings.GetDetail(ctx, id)
	if errors.Is(err, repository.ErrBookingNotFound) {
		return nil, withMessage(ErrNotFound, "Booking not found.")
	}
	return d, err
}

func (s *SQLStore) BookingsByUser(ctx context.Context, userID uint64) ([]repository.BookingDetail, error) {
	return s.bookings.ListByUser(ctx, userID)
}

type sqlReservationTx struct {
	tx          *sql.Tx
	screeningID uint64
	bookings    *repository.BookingRepo
}

func (t *sqlReservationTx) ActiveSeatExists(ctx context.Context, seat uint32) (bool, error) {
	return t.bookings.ActiveSeatExistsTx(ctx, t.tx, t.screeningID, seat)
}

func (t *sqlReservationTx) CountActive(ctx context.Context) (int, error) {
	return t.bookings.CountActiveTx(ctx, t.tx, t.screeningID)
}

func (t *sqlReservationTx) Insert(ctx context.Context, b *model.Booking) error {
	b.ScreeningID = t.screeningID
	err := t.bookings.CreateTx(ctx, t.tx, b)
	if errors.Is(err, repository.ErrDuplicateActiveSeat) {
		return ErrSeatTaken
	}
	return err
}
