package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// BookingRepo provides persistence for bookings.  Methods suffixed with Tx
// run inside a caller-owned transaction; the caller commits or rolls back.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, user_id, screening_id, seat_number, status, version, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }, b *model.Booking) error {
	return row.Scan(&b.ID, &b.UserID, &b.ScreeningID, &b.SeatNumber, &b.Status, &b.Version, &b.CreatedAt, &b.UpdatedAt)
}

// ActiveSeatExistsTx reports whether an ACTIVE booking holds the seat.
func (r *BookingRepo) ActiveSeatExistsTx(ctx context.Context, tx *sql.Tx, screeningID uint64, seat uint32) (bool, error) {
	var exists bool
	err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM bookings WHERE screening_id = ? AND seat_number = ? AND status = 'ACTIVE')`,
		screeningID, seat).Scan(&exists)
	return exists, err
}

// CountActiveTx returns the number of ACTIVE bookings for a screening.
func (r *BookingRepo) CountActiveTx(ctx context.Context, tx *sql.Tx, screeningID uint64) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE screening_id = ? AND status = 'ACTIVE'`,
		screeningID).Scan(&n)
	return n, err
}

// CreateTx inserts an ACTIVE booking and reads the row back to populate the
// generated ID, version and timestamps.  A collision on the active seat
// unique key is reported as ErrDuplicateActiveSeat.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (user_id, screening_id, seat_number, status) VALUES (?, ?, ?, ?)`,
		b.UserID, b.ScreeningID, b.SeatNumber, model.BookingActive)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateActiveSeat
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("booking id: %w", err)
	}
	return scanBooking(tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, uint64(id)), b)
}

// GetByID retrieves a booking or returns ErrBookingNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	var b model.Booking
	err := scanBooking(r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id), &b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// CancelIfVersion flips an ACTIVE booking to CANCELLED only if its version
// still matches.  It reports false when another writer got there first.
func (r *BookingRepo) CancelIfVersion(ctx context.Context, id uint64, version uint32) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = 'CANCELLED', version = version + 1
		 WHERE id = ? AND version = ? AND status = 'ACTIVE'`,
		id, version)
	if err != nil {
		return false, fmt.Errorf("cancel booking: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ScreeningDetail is a screening with its movie, as shown in a user's
// booking list.
type ScreeningDetail struct {
	ID         uint64      `json:"id"`
	Movie      model.Movie `json:"movie"`
	ScreenName string      `json:"screen_name"`
	StartsAt   time.Time   `json:"starts_at"`
	TotalSeats uint32      `json:"total_seats"`
}

// BookingDetail is a booking joined with its screening and movie.
type BookingDetail struct {
	ID         uint64              `json:"id"`
	Screening  ScreeningDetail     `json:"screening"`
	SeatNumber uint32              `json:"seat_number"`
	Status     model.BookingStatus `json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
}

const bookingDetailSelect = `SELECT b.id, b.seat_number, b.status, b.created_at,
	                  s.id, s.screen_name, s.starts_at, s.total_seats,
	                  m.id, m.title, m.duration_minutes, m.created_at
	           FROM bookings b
	           JOIN screenings s ON s.id = b.screening_id
	           JOIN movies m ON m.id = s.movie_id`

func scanBookingDetail(row interface{ Scan(...any) error }, d *BookingDetail) error {
	return row.Scan(
		&d.ID, &d.SeatNumber, &d.Status, &d.CreatedAt,
		&d.Screening.ID, &d.Screening.ScreenName, &d.Screening.StartsAt, &d.Screening.TotalSeats,
		&d.Screening.Movie.ID, &d.Screening.Movie.Title, &d.Screening.Movie.DurationMinutes, &d.Screening.Movie.CreatedAt,
	)
}

// GetDetail returns one booking with its screening and movie, or
// ErrBookingNotFound.
func (r *BookingRepo) GetDetail(ctx context.Context, id uint64) (*BookingDetail, error) {
	var d BookingDetail
	err := scanBookingDetail(r.db.QueryRowContext(ctx, bookingDetailSelect+` WHERE b.id = ?`, id), &d)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &d, nil
}

// ListByUser returns every booking of the user, newest first.  Cancelled
// bookings are included.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, bookingDetailSelect+`
	           WHERE b.user_id = ?
	           ORDER BY b.created_at DESC, b.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		if err := scanBookingDetail(rows, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
