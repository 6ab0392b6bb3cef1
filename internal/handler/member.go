package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-web/internal/apperr"
	"github.com/iliyamo/hotel-booking-web/internal/catalog"
	"github.com/iliyamo/hotel-booking-web/internal/form"
	"github.com/iliyamo/hotel-booking-web/internal/gateway"
	"github.com/iliyamo/hotel-booking-web/internal/lifecycle"
	"github.com/iliyamo/hotel-booking-web/internal/middleware"
	"github.com/iliyamo/hotel-booking-web/internal/model"
	"github.com/iliyamo/hotel-booking-web/internal/session"
)

// MemberHandler serves a member's bookings, payments, reviews and profile.
type MemberHandler struct {
	Store   *session.Store
	GW      *gateway.Client
	Service *lifecycle.Service
	Logger  *slog.Logger
}

// NewMemberHandler constructs a MemberHandler.
func NewMemberHandler(store *session.Store, gw *gateway.Client, bookings *lifecycle.Service, logger *slog.Logger) *MemberHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemberHandler{Store: store, GW: gw, Service: bookings, Logger: logger.With("component", "member")}
}

func (h *MemberHandler) actor(c echo.Context) (lifecycle.Actor, error) {
	s := middleware.CurrentSession(c)
	if s == nil {
		return lifecycle.Actor{}, apperr.Auth("please sign in", nil)
	}
	return lifecycle.Actor{SID: middleware.SID(c), Token: s.Token, UserID: s.User.ID}, nil
}

func (h *MemberHandler) load(c echo.Context) (lifecycle.Actor, *lifecycle.View, error) {
	a, err := h.actor(c)
	if err != nil {
		return a, nil, err
	}
	v, err := h.Service.Load(c.Request().Context(), a.Token)
	return a, v, err
}

// Bookings lists the member's bookings with the actions each one admits.
func (h *MemberHandler) Bookings(c echo.Context) error {
	_, v, err := h.load(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"bookings":  catalog.Paginate(v.Entries(), pageParam(c), catalog.MemberBookingsPerPage),
		"to_review": v.ToReview(),
	})
}

type bookingDetail struct {
	Booking model.Booking     `json:"booking"`
	Actions lifecycle.Actions `json:"actions"`
	Payment *model.Payment    `json:"payment,omitempty"`
}

// Booking shows one booking and, once paid, its payment.
func (h *MemberHandler) Booking(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	a, v, err := h.load(c)
	if err != nil {
		return err
	}
	b, ok := v.Find(id)
	if !ok {
		return apperr.NotFound("booking not found")
	}
	d := bookingDetail{Booking: b, Actions: lifecycle.ActionsFor(b, v.Reviewed(id))}
	if b.PaymentStatus == model.PaymentPaid {
		if p, err := h.GW.PaymentForBooking(c.Request().Context(), a.Token, id); err == nil {
			d.Payment = &p
		} else if !gateway.IsNotFound(err) {
			h.Logger.Warn("load payment failed", "booking_id", id, "err", err)
		}
	}
	return c.JSON(http.StatusOK, d)
}

// CreateBooking books a room for the submitted stay.
func (h *MemberHandler) CreateBooking(c echo.Context) error {
	a, err := h.actor(c)
	if err != nil {
		return err
	}
	var f form.BookingForm
	if err := bindForm(c, &f); err != nil {
		return err
	}
	if f.RoomID == 0 {
		return apperr.Validation("please correct the highlighted fields", map[string]string{"room_id": "is required"})
	}
	ctx := c.Request().Context()
	room, err := h.GW.GetRoom(ctx, f.RoomID)
	if err != nil {
		if gateway.IsNotFound(err) {
			return apperr.NotFound("room not found")
		}
		return err
	}
	b, err := h.Service.CreateBooking(ctx, a, nil, f, room)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"booking": b,
		"quote":   form.QuoteFor(room, f.CheckIn, f.CheckOut),
	})
}

type payForm struct {
	PaymentMethod string `json:"payment_method" form:"payment_method"`
}

// Pay pays a pending booking with the chosen method.
func (h *MemberHandler) Pay(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var f payForm
	if err := bindForm(c, &f); err != nil {
		return err
	}
	a, v, err := h.load(c)
	if err != nil {
		return err
	}
	b, err := h.Service.RequestPayment(c.Request().Context(), a, v, id, model.PaymentMethod(f.PaymentMethod))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b, "actions": lifecycle.ActionsFor(b, v.Reviewed(id))})
}

func (h *MemberHandler) Cancel(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	a, v, err := h.load(c)
	if err != nil {
		return err
	}
	b, err := h.Service.RequestCancellation(c.Request().Context(), a, v, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b, "actions": lifecycle.ActionsFor(b, v.Reviewed(id))})
}

func (h *MemberHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	a, v, err := h.load(c)
	if err != nil {
		return err
	}
	if err := h.Service.RequestDeletion(c.Request().Context(), a, v, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Reviews lists the member's reviews and the stays still awaiting one.
func (h *MemberHandler) Reviews(c echo.Context) error {
	_, v, err := h.load(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"reviews": v.Reviews(), "to_review": v.ToReview()})
}

func (h *MemberHandler) SubmitReview(c echo.Context) error {
	var f form.ReviewForm
	if err := bindForm(c, &f); err != nil {
		return err
	}
	a, v, err := h.load(c)
	if err != nil {
		return err
	}
	r, err := h.Service.SubmitReview(c.Request().Context(), a, v, f.BookingID, f.Rating, f.Comment)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"review": r, "to_review": v.ToReview()})
}

// Profile returns the signed-in identity, fresh from the backend when it
// answers.
func (h *MemberHandler) Profile(c echo.Context) error {
	s := middleware.CurrentSession(c)
	if s == nil {
		return apperr.Auth("please sign in", nil)
	}
	user, err := h.GW.Me(c.Request().Context(), s.Token)
	if err != nil {
		if apperr.Is(err, apperr.KindAuth) {
			return err
		}
		h.Logger.Warn("profile lookup failed; using stored identity", "err", err)
		user = s.User
	}
	user.Role = s.Role()
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// UpdateProfile saves the changes and refreshes the stored identity.
func (h *MemberHandler) UpdateProfile(c echo.Context) error {
	s := middleware.CurrentSession(c)
	if s == nil {
		return apperr.Auth("please sign in", nil)
	}
	var f form.ProfileForm
	if err := bindForm(c, &f); err != nil {
		return err
	}
	if err := f.Validate(); err != nil {
		return err
	}
	ctx := c.Request().Context()
	user, err := h.GW.UpdateProfile(ctx, s.Token, gateway.ProfileUpdate{
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
	if user.ID == 0 {
		user = s.User
		if f.FullName != "" {
			user.FullName = f.FullName
		}
		if f.Email != "" {
			user.Email = f.Email
		}
	}
	if err := h.Store.Save(ctx, middleware.SID(c), s.Token, user); err != nil {
		return err
	}
	user.Role = s.Role()
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}
