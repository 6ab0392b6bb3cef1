package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-web/internal/apperr"
	"github.com/iliyamo/hotel-booking-web/internal/form"
	"github.com/iliyamo/hotel-booking-web/internal/gate"
	"github.com/iliyamo/hotel-booking-web/internal/gateway"
	"github.com/iliyamo/hotel-booking-web/internal/middleware"
	"github.com/iliyamo/hotel-booking-web/internal/model"
	"github.com/iliyamo/hotel-booking-web/internal/session"
)

// AuthHandler serves sign-in, registration and sign-out.
type AuthHandler struct {
	Store  *session.Store
	GW     *gateway.Client
	Logger *slog.Logger
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(store *session.Store, gw *gateway.Client, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{Store: store, GW: gw, Logger: logger.With("component", "auth")}
}

func (h *AuthHandler) LoginPage(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"page":   "login",
		"fields": []string{"identifier", "password"},
	})
}

func (h *AuthHandler) RegisterPage(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"page":   "register",
		"fields": []string{"username", "full_name", "email", "password", "confirm_password"},
	})
}

// Login exchanges credentials for a backend token, stores the session and
// sends the browser to the remembered destination or home.  Rejected
// credentials are reported inline on the login page.
func (h *AuthHandler) Login(c echo.Context) error {
	var f form.LoginForm
	if err := bindForm(c, &f); err != nil {
		return err
	}
	if err := f.Validate(); err != nil {
		return err
	}
	res, err := h.GW.Login(c.Request().Context(), gateway.NewLoginRequest(f.Identifier, f.Password))
	if err != nil {
		if apperr.Is(err, apperr.KindAuth) {
			return c.JSON(http.StatusUnauthorized, errorBody{Error: string(apperr.KindAuth), Message: "invalid username or password"})
		}
		return err
	}
	return h.signIn(c, res, f.Identifier)
}

// Register creates the account.  When the backend answers with a token the
// member is signed in straight away; otherwise they are sent to sign in.
func (h *AuthHandler) Register(c echo.Context) error {
	var f form.RegisterForm
	if err := bindForm(c, &f); err != nil {
		return err
	}
	if err := f.Validate(); err != nil {
		return err
	}
	res, err := h.GW.Register(c.Request().Context(), gateway.RegisterRequest{
		Username: f.Username,
		FullName: f.FullName,
		Email:    f.Email,
		Password: f.Password,
	})
	if err != nil {
		if se, ok := gateway.AsStatus(err); ok && se.IsClientError() {
			return apperr.Validation(se.Message, nil)
		}
		return err
	}
	if res.Token == "" {
		return c.Redirect(http.StatusSeeOther, gate.LoginPath)
	}
	return h.signIn(c, res, f.Username)
}

func (h *AuthHandler) signIn(c echo.Context, res gateway.AuthResult, identifier string) error {
	ctx := c.Request().Context()
	if res.Token == "" {
		return apperr.Auth("the server did not return a credential", nil)
	}
	claims, ok := session.ParseClaims(res.Token)
	if !ok || !claims.Role.Valid() {
		return apperr.Auth("the server returned an unusable credential", nil)
	}

	var user model.Identity
	if res.User != nil {
		user = *res.User
	} else if me, err := h.GW.Me(ctx, res.Token); err == nil {
		user = me
	} else {
		h.Logger.Warn("identity lookup failed; using token claims", "err", err)
		user = model.Identity{ID: claims.UserID, Username: identifier}
	}

	sid := middleware.SID(c)
	if err := h.Store.Save(ctx, sid, res.Token, user); err != nil {
		return err
	}
	remembered, err := h.Store.TakeRemembered(ctx, sid)
	if err != nil {
		h.Logger.Warn("read remembered destination failed", "err", err)
	}
	h.Logger.Info("signed in", "user_id", user.ID, "role", claims.Role)
	return c.Redirect(http.StatusSeeOther, gate.AfterLogin(remembered))
}

// Logout removes the session and returns home.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.Store.Clear(c.Request().Context(), middleware.SID(c)); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, gate.HomePath)
}
