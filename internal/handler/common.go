// Package handler contains the echo handlers. Handlers only translate
// between HTTP and the repositories or the booking service.
package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

func errJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"error": msg})
}

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}
