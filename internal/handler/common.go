package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-web/internal/apperr"
	"github.com/iliyamo/hotel-booking-web/internal/middleware"
)

// pathID parses the :id parameter.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid id", map[string]string{"id": "must be a positive number"})
	}
	return id, nil
}

// pageParam reads ?page=, defaulting to the first page.
func pageParam(c echo.Context) int {
	p, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || p < 1 {
		return 1
	}
	return p
}

// token returns the signed-in caller's credential.  Routes reaching a
// handler that calls it have already passed the gate.
func token(c echo.Context) (string, error) {
	s := middleware.CurrentSession(c)
	if s == nil {
		return "", apperr.Auth("please sign in", nil)
	}
	return s.Token, nil
}

func bindForm(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return apperr.Validation("the submitted form could not be read", nil)
	}
	return nil
}
