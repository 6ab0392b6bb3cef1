package model

import "time"

// Review is a member's rating of a completed stay.  At most one exists per
// booking.
type Review struct {
	ID        uint64    `json:"ID"`
	BookingID uint64    `json:"BookingID"`
	RoomID    uint64    `json:"RoomID,omitempty"`
	UserID    uint64    `json:"UserID,omitempty"`
	Rating    int       `json:"Rating"`
	Comment   string    `json:"Comment"`
	CreatedAt time.Time `json:"CreatedAt,omitempty"`
}

// NewReviewRequest is the body of POST /member/reviews.
type NewReviewRequest struct {
	BookingID uint64 `json:"booking_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}
