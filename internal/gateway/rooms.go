package gateway

import (
	"context"
	"net/http"

	"github.com/iliyamo/hotel-booking-web/internal/model"
)

func (c *Client) ListRooms(ctx context.Context) ([]model.Room, error) {
	var out []model.Room
	err := c.list(ctx, "/rooms", "", "rooms", &out)
	return out, err
}

func (c *Client) GetRoom(ctx context.Context, id uint64) (model.Room, error) {
	var out model.Room
	err := c.call(ctx, http.MethodGet, idPath("/rooms/%d", id), "", nil, "room", &out)
	return out, err
}

// AvailabilityQuery is the body of POST /rooms/available.
type AvailabilityQuery struct {
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
	Guests       int    `json:"guests,omitempty"`
}

func (c *Client) AvailableRooms(ctx context.Context, q AvailabilityQuery) ([]model.Room, error) {
	raw, err := c.do(ctx, http.MethodPost, "/rooms/available", "", q)
	if err != nil {
		return nil, err
	}
	var out []model.Room
	payload := extract(raw, "rooms")
	if len(payload) > 0 && payload[0] == '[' {
		if err := decode(payload, &out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *Client) RoomReviews(ctx context.Context, roomID uint64) ([]model.Review, error) {
	var out []model.Review
	err := c.list(ctx, idPath("/reviews/room/%d", roomID), "", "reviews", &out)
	return out, err
}

// ListReviews returns every review on the platform.
func (c *Client) ListReviews(ctx context.Context) ([]model.Review, error) {
	var out []model.Review
	err := c.list(ctx, "/reviews", "", "reviews", &out)
	return out, err
}
