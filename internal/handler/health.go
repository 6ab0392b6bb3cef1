package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-web/internal/session"
)

// Health reports liveness and which session storage is active.
func Health(store *session.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "session_backend": store.Backend()})
	}
}
