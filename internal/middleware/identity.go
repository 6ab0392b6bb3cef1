package middleware

// identity.go holds the accessors handlers and other middleware use to read
// what Session placed on the request.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-web/internal/gate"
	"github.com/iliyamo/hotel-booking-web/internal/session"
)

const ctxSID = "sid"

// SID returns the browser session id.
func SID(c echo.Context) string {
	if v, ok := c.Get(ctxSID).(string); ok {
		return v
	}
	return session.IDFrom(c.Request().Context())
}

// CurrentSession returns the hydrated session, or nil for anonymous
// visitors.
func CurrentSession(c echo.Context) *session.Session {
	return session.From(c.Request().Context())
}

// CurrentPrincipal resolves the caller's principal.
func CurrentPrincipal(c echo.Context) gate.Principal {
	return gate.PrincipalOf(CurrentSession(c))
}
