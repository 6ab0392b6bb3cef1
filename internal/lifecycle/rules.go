// Package lifecycle mirrors the backend's booking state machine to decide
// which actions a member may take on a booking, and dispatches those actions.
// The backend stays the source of truth and re-validates every transition;
// the rules here only gate what is offered and what is sent.
package lifecycle

import "github.com/iliyamo/hotel-booking-web/internal/model"

// transitions lists the allowed forward moves.  completed and cancelled are
// terminal.
var transitions = map[model.BookingStatus][]model.BookingStatus{
	model.BookingPending:   {model.BookingConfirmed, model.BookingCancelled},
	model.BookingConfirmed: {model.BookingCompleted, model.BookingCancelled},
}

// CanTransition reports whether from -> to is a legal move.
func CanTransition(from, to model.BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanPay is true while payment is pending on a booking that is still open.
func CanPay(b model.Booking) bool {
	return b.PaymentStatus == model.PaymentPending && b.BookingStatus != model.BookingCancelled &&
		b.BookingStatus != model.BookingCompleted
}

// CanCancel is true until the booking is completed or cancelled.
func CanCancel(b model.Booking) bool {
	return b.BookingStatus != model.BookingCompleted && b.BookingStatus != model.BookingCancelled
}

// CanDelete allows removing a cancelled booking that was never paid.
func CanDelete(b model.Booking) bool {
	return b.BookingStatus == model.BookingCancelled && b.PaymentStatus != model.PaymentPaid
}

// CanReview needs to know whether the member already reviewed the booking.
func CanReview(b model.Booking, reviewed bool) bool {
	return b.BookingStatus == model.BookingCompleted && !reviewed
}

// Actions is the set of admissible actions for one booking.
type Actions struct {
	Pay    bool `json:"can_pay"`
	Cancel bool `json:"can_cancel"`
	Delete bool `json:"can_delete"`
	Review bool `json:"can_review"`
}

// ActionsFor evaluates every predicate for b.
func ActionsFor(b model.Booking, reviewed bool) Actions {
	return Actions{
		Pay:    CanPay(b),
		Cancel: CanCancel(b),
		Delete: CanDelete(b),
		Review: CanReview(b, reviewed),
	}
}
