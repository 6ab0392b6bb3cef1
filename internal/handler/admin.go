package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-web/internal/apperr"
	"github.com/iliyamo/hotel-booking-web/internal/catalog"
	"github.com/iliyamo/hotel-booking-web/internal/form"
	"github.com/iliyamo/hotel-booking-web/internal/gateway"
	"github.com/iliyamo/hotel-booking-web/internal/lifecycle"
	"github.com/iliyamo/hotel-booking-web/internal/middleware"
	"github.com/iliyamo/hotel-booking-web/internal/model"
)

// AdminHandler serves the administration pages.  Every route behind it is
// admin-only at the gate; the backend re-checks each call.
type AdminHandler struct {
	GW     *gateway.Client
	Logger *slog.Logger
}

// NewAdminHandler constructs an AdminHandler over gw.
func NewAdminHandler(gw *gateway.Client, logger *slog.Logger) *AdminHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminHandler{GW: gw, Logger: logger.With("component", "admin")}
}

// Dashboard shows booking, revenue, room and user totals.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	tok, err := token(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	bookings, err := h.GW.AdminBookings(ctx, tok)
	if err != nil {
		return err
	}
	stats := catalog.DashboardStats(bookings)
	if rooms, err := h.GW.ListRooms(ctx); err == nil {
		stats.TotalRooms = len(rooms)
	} else {
		h.Logger.Warn("dashboard rooms failed", "err", err)
	}
	if users, err := h.GW.AdminUsers(ctx, tok); err == nil {
		stats.TotalUsers = len(users)
	} else if apperr.Is(err, apperr.KindAuth) {
		return err
	} else {
		h.Logger.Warn("dashboard users failed", "err", err)
	}
	recent := bookings
	if len(recent) > 5 {
		recent = recent[:5]
	}
	return c.JSON(http.StatusOK, echo.Map{"stats": stats, "recent_bookings": recent})
}

func (h *AdminHandler) Rooms(c echo.Context) error {
	rooms, err := h.GW.ListRooms(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": catalog.Paginate(rooms, pageParam(c), catalog.AdminRoomsPerPage)})
}

func (h *AdminHandler) CreateRoom(c echo.Context) error {
	tok, err := token(c)
	if err != nil {
		return err
	}
	var f form.RoomForm
	if err := bindForm(c, &f); err != nil {
		return err
	}
	in, err := f.Validate()
	if err != nil {
		return err
	}
	room, err := h.GW.CreateRoom(c.Request().Context(), tok, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"room": room})
}

func (h *AdminHandler) UpdateRoom(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	tok, err := token(c)
	if err != nil {
		return err
	}
	var f form.RoomForm
	if err := bindForm(c, &f); err != nil {
		return err
	}
	in, err := f.Validate()
	if err != nil {
		return err
	}
	room, err := h.GW.UpdateRoom(c.Request().Context(), tok, id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"room": room})
}

func (h *AdminHandler) DeleteRoom(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	tok, err := token(c)
	if err != nil {
		return err
	}
	if err := h.GW.DeleteRoom(c.Request().Context(), tok, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Bookings lists every booking, optionally narrowed by ?status.
func (h *AdminHandler) Bookings(c echo.Context) error {
	tok, err := token(c)
	if err != nil {
		return err
	}
	bookings, err := h.GW.AdminBookings(c.Request().Context(), tok)
	if err != nil {
		return err
	}
	if st := model.BookingStatus(strings.ToLower(c.QueryParam("status"))); st.Valid() {
		kept := bookings[:0]
		for _, b := range bookings {
			if b.BookingStatus == st {
				kept = append(kept, b)
			}
		}
		bookings = kept
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": catalog.Paginate(bookings, pageParam(c), catalog.AdminBookingsPerPage)})
}

// UpdateBookingStatus moves a booking along the lifecycle.  Transitions
// the lifecycle does not allow are refused before reaching the backend.
func (h *AdminHandler) UpdateBookingStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	tok, err := token(c)
	if err != nil {
		return err
	}
	var f form.BookingStatusForm
	if err := bindForm(c, &f); err != nil {
		return err
	}
	to, err := f.Validate()
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	bookings, err := h.GW.AdminBookings(ctx, tok)
	if err != nil {
		return err
	}
	current, ok := findBooking(bookings, id)
	if !ok {
		return apperr.NotFound("booking not found")
	}
	if !lifecycle.CanTransition(current.BookingStatus, to) {
		return apperr.Validation("a "+string(current.BookingStatus)+" booking cannot become "+string(to),
			map[string]string{"status": "not allowed from " + string(current.BookingStatus)})
	}
	b, err := h.GW.UpdateBookingStatus(ctx, tok, id, to)
	if err != nil {
		if se, ok := gateway.AsStatus(err); ok && se.IsClientError() {
			return apperr.Transition(se.Message, err)
		}
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

func (h *AdminHandler) UpdatePaymentStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	tok, err := token(c)
	if err != nil {
		return err
	}
	var f form.PaymentStatusForm
	if err := bindForm(c, &f); err != nil {
		return err
	}
	st, err := f.Validate()
	if err != nil {
		return err
	}
	b, err := h.GW.UpdatePaymentStatus(c.Request().Context(), tok, id, st)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// Payments lists every payment record.
func (h *AdminHandler) Payments(c echo.Context) error {
	tok, err := token(c)
	if err != nil {
		return err
	}
	payments, err := h.GW.AdminPayments(c.Request().Context(), tok)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": catalog.Paginate(payments, pageParam(c), catalog.AdminBookingsPerPage)})
}

func (h *AdminHandler) Users(c echo.Context) error {
	tok, err := token(c)
	if err != nil {
		return err
	}
	users, err := h.GW.AdminUsers(c.Request().Context(), tok)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"users": catalog.Paginate(users, pageParam(c), catalog.AdminUsersPerPage)})
}

func (h *AdminHandler) UpdateUserRole(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	tok, err := token(c)
	if err != nil {
		return err
	}
	var f form.RoleForm
	if err := bindForm(c, &f); err != nil {
		return err
	}
	role, err := f.Validate()
	if err != nil {
		return err
	}
	if s := middleware.CurrentSession(c); s != nil && s.User.ID == id {
		return apperr.Validation("you cannot change your own role", nil)
	}
	if err := h.GW.UpdateUserRole(c.Request().Context(), tok, id, role); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "role": role})
}

func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	tok, err := token(c)
	if err != nil {
		return err
	}
	if s := middleware.CurrentSession(c); s != nil && s.User.ID == id {
		return apperr.Validation("you cannot delete your own account", nil)
	}
	if err := h.GW.DeleteUser(c.Request().Context(), tok, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) Reviews(c echo.Context) error {
	reviews, err := h.GW.ListReviews(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"reviews": catalog.Paginate(reviews, pageParam(c), catalog.AdminReviewsPerPage)})
}

func (h *AdminHandler) DeleteReview(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	tok, err := token(c)
	if err != nil {
		return err
	}
	if err := h.GW.DeleteReview(c.Request().Context(), tok, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func findBooking(bookings []model.Booking, id uint64) (model.Booking, bool) {
	for _, b := range bookings {
		if b.ID == id {
			return b, true
		}
	}
	return model.Booking{}, false
}
