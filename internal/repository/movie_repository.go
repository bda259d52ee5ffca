package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// MovieRepo manages persistence for movies.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

// Create inserts a movie and populates its ID and created_at.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO movies (title, duration_minutes) VALUES (?, ?)`,
		m.Title, m.DurationMinutes)
	if err != nil {
		return fmt.Errorf("insert movie: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("movie id: %w", err)
	}
	m.ID = uint64(id)
	return r.db.QueryRowContext(ctx, `SELECT created_at FROM movies WHERE id = ?`, m.ID).Scan(&m.CreatedAt)
}

// GetByID retrieves a movie by its ID or returns ErrMovieNotFound.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	var m model.Movie
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, duration_minutes, created_at FROM movies WHERE id = ?`, id,
	).Scan(&m.ID, &m.Title, &m.DurationMinutes, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// GetByTitle returns the oldest movie with the given title or
// ErrMovieNotFound.
func (r *MovieRepo) GetByTitle(ctx context.Context, title string) (*model.Movie, error) {
	var m model.Movie
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, duration_minutes, created_at FROM movies WHERE title = ? ORDER BY id LIMIT 1`, title,
	).Scan(&m.ID, &m.Title, &m.DurationMinutes, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// List returns all movies ordered by ID.  An empty slice is returned when
// there are none.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, duration_minutes, created_at FROM movies ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	movies := make([]model.Movie, 0)
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.DurationMinutes, &m.CreatedAt); err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}
