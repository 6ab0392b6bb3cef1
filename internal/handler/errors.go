package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-web/internal/apperr"
	"github.com/iliyamo/hotel-booking-web/internal/gate"
	"github.com/iliyamo/hotel-booking-web/internal/gateway"
	"github.com/iliyamo/hotel-booking-web/internal/middleware"
	"github.com/iliyamo/hotel-booking-web/internal/session"
)

const genericFailure = "something went wrong, please try again"

// errorBody is the JSON shape of every failure response.
type errorBody struct {
	Error    string            `json:"error"`
	Message  string            `json:"message"`
	Fields   map[string]string `json:"fields,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
}

// wantsJSON reports whether the caller is a script rather than a browser
// navigation.
func wantsJSON(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

// ErrorHandler renders errors returned by handlers.  Auth failures tear
// the session down and send the browser to the login page.
func ErrorHandler(store *session.Store, logger *slog.Logger) echo.HTTPErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if rerr := render(c, store, err, logger); rerr != nil {
			logger.Error("write error response failed", "err", rerr)
		}
	}
}

func render(c echo.Context, store *session.Store, err error, logger *slog.Logger) error {
	if ae, ok := apperr.As(err); ok {
		switch ae.Kind {
		case apperr.KindAuth:
			if store != nil {
				if cerr := store.Clear(c.Request().Context(), middleware.SID(c)); cerr != nil {
					logger.Warn("clear session failed", "err", cerr)
				}
			}
			if wantsJSON(c) {
				return c.JSON(http.StatusUnauthorized, errorBody{Error: string(ae.Kind), Message: ae.Message, Redirect: gate.LoginPath})
			}
			return c.Redirect(http.StatusSeeOther, gate.LoginPath)
		case apperr.KindValidation:
			return c.JSON(http.StatusUnprocessableEntity, errorBody{Error: string(ae.Kind), Message: ae.Message, Fields: ae.Fields})
		case apperr.KindInvalidTransition, apperr.KindBusy:
			return c.JSON(http.StatusConflict, errorBody{Error: string(ae.Kind), Message: ae.Message})
		case apperr.KindPayment:
			return c.JSON(http.StatusPaymentRequired, errorBody{Error: string(ae.Kind), Message: ae.Message})
		case apperr.KindNetwork:
			logger.Warn("backend unreachable", "err", err)
			return c.JSON(http.StatusBadGateway, errorBody{Error: string(ae.Kind), Message: ae.Message})
		case apperr.KindNotFound:
			return c.JSON(http.StatusNotFound, errorBody{Error: string(ae.Kind), Message: ae.Message})
		}
	}

	if se, ok := gateway.AsStatus(err); ok {
		msg := se.Message
		if msg == "" {
			msg = http.StatusText(se.StatusCode)
		}
		return c.JSON(se.StatusCode, errorBody{Error: "backend", Message: msg})
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg, _ := he.Message.(string)
		if msg == "" {
			msg = http.StatusText(he.Code)
		}
		return c.JSON(he.Code, errorBody{Error: "http", Message: msg})
	}

	logger.Error("unhandled error", "method", c.Request().Method, "path", c.Request().URL.Path, "err", err)
	return c.JSON(http.StatusInternalServerError, errorBody{Error: "internal", Message: genericFailure})
}
