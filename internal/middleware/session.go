package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-web/internal/session"
)

// CookieConfig controls the browser cookie naming the session namespace.
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// Session issues the sid cookie when missing, places the sid in the request
// context and hydrates the stored session.  A storage failure degrades to
// anonymous rather than failing the request.
func Session(store *session.Store, cfg CookieConfig, logger *slog.Logger) echo.MiddlewareFunc {
	if cfg.Name == "" {
		cfg.Name = "hb_sid"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := ""
			if ck, err := c.Cookie(cfg.Name); err == nil {
				if _, perr := uuid.Parse(ck.Value); perr == nil {
					sid = ck.Value
				}
			}
			if sid == "" {
				sid = uuid.NewString()
			}
			// Refresh on every response; the Redis storage slides its TTL on each read.
			c.SetCookie(&http.Cookie{
				Name:     cfg.Name,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   int(cfg.MaxAge / time.Second),
			})

			req := c.Request()
			ctx := session.WithID(req.Context(), sid)
			s, err := store.Get(ctx, sid)
			if err != nil {
				logger.Warn("session hydrate failed", "component", "session", "err", err)
				s = nil
			}
			if s != nil {
				ctx = session.WithSession(ctx, s)
			}
			c.SetRequest(req.WithContext(ctx))
			c.Set(ctxSID, sid)
			return next(c)
		}
	}
}
