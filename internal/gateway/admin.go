package gateway

import (
	"context"
	"net/http"

	"github.com/iliyamo/hotel-booking-web/internal/model"
)

func (c *Client) AdminBookings(ctx context.Context, token string) ([]model.Booking, error) {
	var out []model.Booking
	err := c.list(ctx, "/admin/bookings", token, "bookings", &out)
	return out, err
}

func (c *Client) UpdateBookingStatus(ctx context.Context, token string, id uint64, status model.BookingStatus) (model.Booking, error) {
	var out model.Booking
	err := c.call(ctx, http.MethodPut, idPath("/admin/bookings/%d/status", id), token,
		map[string]model.BookingStatus{"status": status}, "booking", &out)
	return out, err
}

func (c *Client) UpdatePaymentStatus(ctx context.Context, token string, id uint64, status model.PaymentStatus) (model.Booking, error) {
	var out model.Booking
	err := c.call(ctx, http.MethodPut, idPath("/admin/bookings/%d/payment-status", id), token,
		map[string]model.PaymentStatus{"payment_status": status}, "booking", &out)
	return out, err
}

func (c *Client) AdminPayments(ctx context.Context, token string) ([]model.Payment, error) {
	var out []model.Payment
	err := c.list(ctx, "/admin/payments", token, "payments", &out)
	return out, err
}

func (c *Client) CreateRoom(ctx context.Context, token string, in model.RoomInput) (model.Room, error) {
	var out model.Room
	err := c.call(ctx, http.MethodPost, "/admin/rooms", token, in, "room", &out)
	return out, err
}

func (c *Client) UpdateRoom(ctx context.Context, token string, id uint64, in model.RoomInput) (model.Room, error) {
	var out model.Room
	err := c.call(ctx, http.MethodPut, idPath("/admin/rooms/%d", id), token, in, "room", &out)
	return out, err
}

func (c *Client) DeleteRoom(ctx context.Context, token string, id uint64) error {
	return c.call(ctx, http.MethodDelete, idPath("/admin/rooms/%d", id), token, nil, "", nil)
}

func (c *Client) AdminUsers(ctx context.Context, token string) ([]model.Identity, error) {
	var out []model.Identity
	err := c.list(ctx, "/admin/users", token, "users", &out)
	return out, err
}

func (c *Client) UpdateUserRole(ctx context.Context, token string, id uint64, role model.Role) error {
	return c.call(ctx, http.MethodPut, idPath("/admin/users/%d/role", id), token,
		map[string]model.Role{"role": role}, "", nil)
}

func (c *Client) DeleteUser(ctx context.Context, token string, id uint64) error {
	return c.call(ctx, http.MethodDelete, idPath("/admin/users/%d", id), token, nil, "", nil)
}

func (c *Client) DeleteReview(ctx context.Context, token string, id uint64) error {
	return c.call(ctx, http.MethodDelete, idPath("/admin/reviews/%d", id), token, nil, "", nil)
}
