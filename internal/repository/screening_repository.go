package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// ScreeningRepo manages persistence for screenings.  Capacity
// (total_seats) is fixed at creation; the reservation path only ever reads
// it under a row lock.
type ScreeningRepo struct {
	db *sql.DB
}

// NewScreeningRepo constructs a ScreeningRepo with the given DB handle.
func NewScreeningRepo(db *sql.DB) *ScreeningRepo { return &ScreeningRepo{db: db} }

// DB exposes the underlying sql.DB so callers can begin transactions that
// span several repositories.
func (r *ScreeningRepo) DB() *sql.DB { return r.db }

const screeningColumns = `id, movie_id, screen_name, starts_at, total_seats, created_at`

func scanScreening(row interface{ Scan(...any) error }, s *model.Screening) error {
	return row.Scan(&s.ID, &s.MovieID, &s.ScreenName, &s.StartsAt, &s.TotalSeats, &s.CreatedAt)
}

// Create inserts a screening after validating it.  ErrMovieNotFound is
// returned when the referenced movie does not exist.
func (r *ScreeningRepo) Create(ctx context.Context, s *model.Screening) error {
	if err := s.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO screenings (movie_id, screen_name, starts_at, total_seats) VALUES (?, ?, ?, ?)`,
		s.MovieID, s.ScreenName, s.StartsAt.UTC(), s.TotalSeats)
	if err != nil {
		if isMissingReference(err) {
			return ErrMovieNotFound
		}
		return fmt.Errorf("insert screening: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("screening id: %w", err)
	}
	s.ID = uint64(id)
	return scanScreening(r.db.QueryRowContext(ctx,
		`SELECT `+screeningColumns+` FROM screenings WHERE id = ?`, s.ID), s)
}

// GetByID retrieves a screening or returns ErrScreeningNotFound.
func (r *ScreeningRepo) GetByID(ctx context.Context, id uint64) (*model.Screening, error) {
	var s model.Screening
	err := scanScreening(r.db.QueryRowContext(ctx,
		`SELECT `+screeningColumns+` FROM screenings WHERE id = ?`, id), &s)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScreeningNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByMovie returns the screenings of a movie ordered by start time.
func (r *ScreeningRepo) ListByMovie(ctx context.Context, movieID uint64) ([]model.Screening, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+screeningColumns+` FROM screenings WHERE movie_id = ? ORDER BY starts_at, id`, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Screening, 0)
	for rows.Next() {
		var s model.Screening
		if err := scanScreening(rows, &s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// LockForUpdateTx reads a screening with an exclusive row lock held until
// tx ends.  Every reservation for the same screening serialises on this
// lock, so the seat and capacity checks that follow in the same
// transaction cannot interleave with another reservation's.
func (r *ScreeningRepo) LockForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Screening, error) {
	var s model.Screening
	err := scanScreening(tx.QueryRowContext(ctx,
		`SELECT `+screeningColumns+` FROM screenings WHERE id = ? FOR UPDATE`, id), &s)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScreeningNotFound
		}
		return nil, err
	}
	return &s, nil
}
