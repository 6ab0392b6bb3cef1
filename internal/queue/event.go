// Package queue defines message payloads exchanged over the message broker.
package queue

// ActivityQueue is the durable queue carrying booking activity.
const ActivityQueue = "booking.activity"

// Event types published after a backend-confirmed mutation.
const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
	EventBookingDeleted   = "booking.deleted"
	EventPaymentCompleted = "payment.completed"
	EventReviewSubmitted  = "review.submitted"
)

// BookingEvent describes one member action on a booking.  It carries enough
// for a consumer to write an audit line without calling the backend.
type BookingEvent struct {
	Type          string  `json:"type"`
	BookingID     uint64  `json:"booking_id"`
	UserID        uint64  `json:"user_id"`
	RoomID        uint64  `json:"room_id"`
	BookingStatus string  `json:"booking_status"`
	PaymentStatus string  `json:"payment_status"`
	TotalPrice    float64 `json:"total_price"`
	OccurredAt    string  `json:"occurred_at"`
}
