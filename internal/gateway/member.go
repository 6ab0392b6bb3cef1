package gateway

import (
	"context"
	"net/http"

	"github.com/iliyamo/hotel-booking-web/internal/model"
)

func (c *Client) ListMyBookings(ctx context.Context, token string) ([]model.Booking, error) {
	var out []model.Booking
	err := c.list(ctx, "/member/bookings", token, "bookings", &out)
	return out, err
}

func (c *Client) CreateBooking(ctx context.Context, token string, req model.NewBookingRequest) (model.Booking, error) {
	var out model.Booking
	err := c.call(ctx, http.MethodPost, "/member/bookings", token, req, "booking", &out)
	return out, err
}

func (c *Client) CancelBooking(ctx context.Context, token string, id uint64) error {
	return c.call(ctx, http.MethodPut, idPath("/member/bookings/%d/cancel", id), token, nil, "", nil)
}

func (c *Client) DeleteBooking(ctx context.Context, token string, id uint64) error {
	return c.call(ctx, http.MethodDelete, idPath("/member/bookings/%d", id), token, nil, "", nil)
}

type createPaymentReq struct {
	BookingID     uint64              `json:"booking_id"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`
}

func (c *Client) CreatePayment(ctx context.Context, token string, bookingID uint64, method model.PaymentMethod) (model.Payment, error) {
	var out model.Payment
	err := c.call(ctx, http.MethodPost, "/member/payments", token,
		createPaymentReq{BookingID: bookingID, PaymentMethod: method}, "payment", &out)
	return out, err
}

// ProcessPayment asks the backend to settle a pending payment.  The
// backend answers with a message only.
func (c *Client) ProcessPayment(ctx context.Context, token string, paymentID uint64) error {
	return c.call(ctx, http.MethodPost, idPath("/member/payments/%d/process", paymentID), token, nil, "", nil)
}

func (c *Client) PaymentForBooking(ctx context.Context, token string, bookingID uint64) (model.Payment, error) {
	var out model.Payment
	err := c.call(ctx, http.MethodGet, idPath("/member/payments/booking/%d", bookingID), token, nil, "payment", &out)
	return out, err
}

func (c *Client) ListMyReviews(ctx context.Context, token string) ([]model.Review, error) {
	var out []model.Review
	err := c.list(ctx, "/member/reviews", token, "reviews", &out)
	return out, err
}

func (c *Client) CreateReview(ctx context.Context, token string, req model.NewReviewRequest) (model.Review, error) {
	var out model.Review
	err := c.call(ctx, http.MethodPost, "/member/reviews", token, req, "review", &out)
	return out, err
}
