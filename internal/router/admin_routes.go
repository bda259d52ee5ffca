package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/handler"
	"github.com/iliyamo/movie-ticket-booking/internal/middleware"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// RegisterAdmin registers catalogue management for the ADMIN role.
func RegisterAdmin(e *echo.Echo, h *handler.CatalogHandler, jwtSecret string) {
	mw := []echo.MiddlewareFunc{middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleAdmin)}
	e.POST("/v1/movies", h.CreateMovie, mw...)
	e.POST("/v1/movies/:id/screenings", h.CreateScreening, mw...)
}
