package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// CatalogHandler serves movies and screenings: public reads and admin
// creation.
type CatalogHandler struct {
	Movies     *repository.MovieRepo
	Screenings *repository.ScreeningRepo
}

func NewCatalogHandler(m *repository.MovieRepo, s *repository.ScreeningRepo) *CatalogHandler {
	if m == nil || s == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{Movies: m, Screenings: s}
}

// screeningResp is a screening with its movie inlined.
type screeningResp struct {
	ID         uint64      `json:"id"`
	Movie      model.Movie `json:"movie"`
	ScreenName string      `json:"screen_name"`
	StartsAt   time.Time   `json:"starts_at"`
	TotalSeats uint32      `json:"total_seats"`
}

func toScreeningResp(s model.Screening, m model.Movie) screeningResp {
	return screeningResp{ID: s.ID, Movie: m, ScreenName: s.ScreenName, StartsAt: s.StartsAt, TotalSeats: s.TotalSeats}
}

// ListMovies handles GET /v1/movies.
func (h *CatalogHandler) ListMovies(c echo.Context) error {
	movies, err := h.Movies.List(c.Request().Context())
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "database error")
	}
	return c.JSON(http.StatusOK, movies)
}

// ListScreenings handles GET /v1/movies/:id/screenings.
func (h *CatalogHandler) ListScreenings(c echo.Context) error {
	movieID, ok := parseID(c, "id")
	if !ok {
		return errJSON(c, http.StatusBadRequest, "invalid movie id")
	}
	ctx := c.Request().Context()
	movie, err := h.Movies.GetByID(ctx, movieID)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return errJSON(c, http.StatusNotFound, "movie not found")
		}
		return errJSON(c, http.StatusInternalServerError, "database error")
	}
	screenings, err := h.Screenings.ListByMovie(ctx, movieID)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "database error")
	}
	out := make([]screeningResp, 0, len(screenings))
	for _, s := range screenings {
		out = append(out, toScreeningResp(s, *movie))
	}
	return c.JSON(http.StatusOK, out)
}

// GetScreening handles GET /v1/screenings/:id.
func (h *CatalogHandler) GetScreening(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return errJSON(c, http.StatusBadRequest, "invalid screening id")
	}
	ctx := c.Request().Context()
	s, err := h.Screenings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrScreeningNotFound) {
			return errJSON(c, http.StatusNotFound, "screening not found")
		}
		return errJSON(c, http.StatusInternalServerError, "database error")
	}
	movie, err := h.Movies.GetByID(ctx, s.MovieID)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "database error")
	}
	return c.JSON(http.StatusOK, toScreeningResp(*s, *movie))
}

type createMovieReq struct {
	Title           string `json:"title"`
	DurationMinutes uint32 `json:"duration_minutes"`
}

// CreateMovie handles POST /v1/movies (admin).
func (h *CatalogHandler) CreateMovie(c echo.Context) error {
	var req createMovieReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request body")
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.DurationMinutes == 0 {
		return errJSON(c, http.StatusBadRequest, "title and positive duration_minutes are required")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	m := &model.Movie{Title: req.Title, DurationMinutes: req.DurationMinutes}
	if err := h.Movies.Create(ctx, m); err != nil {
		return errJSON(c, http.StatusInternalServerError, "create movie failed")
	}
	return c.JSON(http.StatusCreated, m)
}

type createScreeningReq struct {
	ScreenName string    `json:"screen_name"`
	StartsAt   time.Time `json:"starts_at"`
	TotalSeats uint32    `json:"total_seats"`
}

// CreateScreening handles POST /v1/movies/:id/screenings (admin).
func (h *CatalogHandler) CreateScreening(c echo.Context) error {
	movieID, ok := parseID(c, "id")
	if !ok {
		return errJSON(c, http.StatusBadRequest, "invalid movie id")
	}
	var req createScreeningReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if req.StartsAt.IsZero() {
		return errJSON(c, http.StatusBadRequest, "starts_at is required")
	}
	s := &model.Screening{
		MovieID:    movieID,
		ScreenName: strings.TrimSpace(req.ScreenName),
		StartsAt:   req.StartsAt.UTC(),
		TotalSeats: req.TotalSeats,
	}
	if err := s.Validate(); err != nil {
		return errJSON(c, http.StatusBadRequest, err.Error())
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Screenings.Create(ctx, s); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return errJSON(c, http.StatusNotFound, "movie not found")
		}
		return errJSON(c, http.StatusInternalServerError, "create screening failed")
	}
	return c.JSON(http.StatusCreated, s)
}
