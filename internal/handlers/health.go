package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ConnectionStats reports live connection diagnostics.
type ConnectionStats interface {
	Stats() (connections int, groups []string)
}

func Health(stats ConnectionStats) echo.HandlerFunc {
	return func(c echo.Context) error {
		connections, groups := stats.Stats()
		return c.JSON(http.StatusOK, echo.Map{
			"status":      "ok",
			"connections": connections,
			"groups":      groups,
		})
	}
}
