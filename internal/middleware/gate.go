package middleware

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-web/internal/gate"
	"github.com/iliyamo/hotel-booking-web/internal/session"
)

// Gate admits or redirects each request according to gate.Decide.  It must
// run after Session.
func Gate(store *session.Store, logger *slog.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			p := CurrentPrincipal(c)
			class := gate.Classify(req.URL.Path)
			d := gate.Decide(p, class)
			if d.Allow {
				return next(c)
			}
			if d.Remember && req.Method == http.MethodGet {
				if err := store.Remember(req.Context(), SID(c), req.URL.RequestURI()); err != nil {
					logger.Warn("remember destination failed", "component", "gate", "err", err)
				}
			}
			logger.Debug("redirected", "component", "gate", "path", req.URL.Path, "class", class.String(), "to", d.Redirect)
			return c.Redirect(http.StatusFound, d.Redirect)
		}
	}
}
