package lifecycle

import (
	"testing"

	"github.com/iliyamo/hotel-booking-web/internal/model"
)

var (
	allBookingStatuses = []model.BookingStatus{model.BookingPending, model.BookingConfirmed, model.BookingCancelled, model.BookingCompleted}
	allPaymentStatuses = []model.PaymentStatus{model.PaymentPending, model.PaymentPaid, model.PaymentFailed, model.PaymentRefunded}
)

// every enumerates each (BookingStatus, PaymentStatus) pair.
func every(fn func(b model.Booking)) {
	for _, bs := range allBookingStatuses {
		for _, ps := range allPaymentStatuses {
			fn(model.Booking{ID: 1, BookingStatus: bs, PaymentStatus: ps})
		}
	}
}

func TestPredicateProperties(t *testing.T) {
	every(func(b model.Booking) {
		if CanDelete(b) && b.BookingStatus != model.BookingCancelled {
			t.Errorf("%s/%s: deletable without being cancelled", b.BookingStatus, b.PaymentStatus)
		}
		if b.BookingStatus == model.BookingCompleted && (CanCancel(b) || CanPay(b)) {
			t.Errorf("%s/%s: completed booking offers cancel or pay", b.BookingStatus, b.PaymentStatus)
		}
		if b.PaymentStatus == model.PaymentPaid && CanDelete(b) {
			t.Errorf("%s/%s: paid booking is deletable", b.BookingStatus, b.PaymentStatus)
		}
		if CanPay(b) && b.BookingStatus == model.BookingCancelled {
			t.Errorf("%s/%s: cancelled booking is payable", b.BookingStatus, b.PaymentStatus)
		}
	})
}

func TestDeletableOnlyAfterCancellableState(t *testing.T) {
	// Every deletable booking is reachable by cancelling a booking that was
	// cancellable at the time.
	every(func(b model.Booking) {
		if !CanDelete(b) {
			return
		}
		reachable := false
		for _, from := range allBookingStatuses {
			prior := model.Booking{BookingStatus: from, PaymentStatus: b.PaymentStatus}
			if CanCancel(prior) && CanTransition(from, model.BookingCancelled) {
				reachable = true
			}
		}
		if !reachable {
			t.Errorf("%s/%s: deletable but never cancellable", b.BookingStatus, b.PaymentStatus)
		}
	})
}

func TestCanPay(t *testing.T) {
	tests := []struct {
		bs   model.BookingStatus
		ps   model.PaymentStatus
		want bool
	}{
		{model.BookingPending, model.PaymentPending, true},
		{model.BookingConfirmed, model.PaymentPending, true},
		{model.BookingConfirmed, model.PaymentPaid, false},
		{model.BookingCancelled, model.PaymentPending, false},
		{model.BookingCompleted, model.PaymentPending, false},
		{model.BookingPending, model.PaymentFailed, false},
	}
	for _, tc := range tests {
		if got := CanPay(model.Booking{BookingStatus: tc.bs, PaymentStatus: tc.ps}); got != tc.want {
			t.Errorf("CanPay(%s/%s) = %v, want %v", tc.bs, tc.ps, got, tc.want)
		}
	}
}

func TestCanReview(t *testing.T) {
	done := model.Booking{BookingStatus: model.BookingCompleted}
	if !CanReview(done, false) {
		t.Error("completed, unreviewed booking should be reviewable")
	}
	if CanReview(done, true) {
		t.Error("reviewed booking should not be reviewable again")
	}
	if CanReview(model.Booking{BookingStatus: model.BookingConfirmed}, false) {
		t.Error("confirmed booking should not be reviewable")
	}
}

func TestCanTransition(t *testing.T) {
	allowed := map[[2]model.BookingStatus]bool{
		{model.BookingPending, model.BookingConfirmed}:   true,
		{model.BookingPending, model.BookingCancelled}:   true,
		{model.BookingConfirmed, model.BookingCompleted}: true,
		{model.BookingConfirmed, model.BookingCancelled}: true,
	}
	for _, from := range allBookingStatuses {
		for _, to := range allBookingStatuses {
			want := allowed[[2]model.BookingStatus{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestActionsFor(t *testing.T) {
	got := ActionsFor(model.Booking{BookingStatus: model.BookingCancelled, PaymentStatus: model.PaymentPending}, false)
	want := Actions{Delete: true}
	if got != want {
		t.Errorf("ActionsFor = %+v, want %+v", got, want)
	}
}
