package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-booking/internal/handler"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
	"github.com/iliyamo/movie-ticket-booking/internal/utils"
)

const secret = "router-secret"

func passthrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

func newServer() *echo.Echo {
	e := echo.New()
	RegisterRoutes(e, nil)
	// Nil repositories are fine here: every request below is rejected by
	// middleware before a handler runs.
	catalog := &handler.CatalogHandler{Movies: &repository.MovieRepo{}, Screenings: &repository.ScreeningRepo{}}
	RegisterAdmin(e, catalog, secret)
	RegisterBooking(e, &handler.BookingHandler{}, secret, passthrough)
	return e
}

func serve(e *echo.Echo, method, path, auth string) int {
	req := httptest.NewRequest(method, path, strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestHealth(t *testing.T) {
	assert.Equal(t, http.StatusOK, serve(newServer(), http.MethodGet, "/healthz", ""))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	e := newServer()
	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodPost, "/v1/screenings/1/book", ""))
	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodPost, "/v1/bookings/1/cancel", ""))
	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodGet, "/v1/my-bookings", ""))
	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodPost, "/v1/movies", ""))
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	tok, err := utils.NewAccessToken(secret, 1, "CUSTOMER", 5)
	require.NoError(t, err)
	e := newServer()
	assert.Equal(t, http.StatusForbidden, serve(e, http.MethodPost, "/v1/movies", "Bearer "+tok.Token))
	assert.Equal(t, http.StatusForbidden, serve(e, http.MethodPost, "/v1/movies/1/screenings", "Bearer "+tok.Token))
}
