// Package router wires handlers and middleware onto the echo instance.
package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/handler"
	"github.com/iliyamo/movie-ticket-booking/internal/middleware"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// RegisterRoutes registers the unauthenticated health check.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth registers signup, login, token refresh and logout under
// /v1/auth, and /v1/me behind JWT authentication.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	e.GET("/v1/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterCatalog registers the public catalogue reads. cache wraps each
// of them; pass a pass-through middleware to disable caching.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	e.GET("/v1/movies", h.ListMovies, cache)
	e.GET("/v1/movies/:id/screenings", h.ListScreenings, cache)
	e.GET("/v1/screenings/:id", h.GetScreening, cache)
}

// authenticated returns the middleware chain shared by every signed-in
// route: JWT first so limiter keys can use the user ID.
func authenticated(jwtSecret string, extra ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	return append([]echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer, model.RoleAdmin),
	}, extra...)
}
