package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iliyamo/hotel-booking-web/internal/apperr"
	"github.com/iliyamo/hotel-booking-web/internal/form"
	"github.com/iliyamo/hotel-booking-web/internal/gateway"
	"github.com/iliyamo/hotel-booking-web/internal/inflight"
	"github.com/iliyamo/hotel-booking-web/internal/model"
	"github.com/iliyamo/hotel-booking-web/internal/queue"
)

// Gateway is the part of the backend client the lifecycle needs.
type Gateway interface {
	ListMyBookings(ctx context.Context, token string) ([]model.Booking, error)
	ListMyReviews(ctx context.Context, token string) ([]model.Review, error)
	CreateBooking(ctx context.Context, token string, req model.NewBookingRequest) (model.Booking, error)
	CancelBooking(ctx context.Context, token string, id uint64) error
	DeleteBooking(ctx context.Context, token string, id uint64) error
	CreatePayment(ctx context.Context, token string, bookingID uint64, method model.PaymentMethod) (model.Payment, error)
	ProcessPayment(ctx context.Context, token string, paymentID uint64) error
	CreateReview(ctx context.Context, token string, req model.NewReviewRequest) (model.Review, error)
}

// Notifier receives an event after each backend-confirmed mutation.
type Notifier interface {
	Publish(ctx context.Context, ev queue.BookingEvent) error
}

// Actor identifies who is acting: the browser session and its credential.
type Actor struct {
	SID    string
	Token  string
	UserID uint64
}

func (a Actor) guardScope() string {
	if a.UserID != 0 {
		return fmt.Sprintf("u%d", a.UserID)
	}
	return "s" + a.SID
}

// Service dispatches booking actions.
type Service struct {
	gw       Gateway
	guard    inflight.Guard
	notifier Notifier
	logger   *slog.Logger
	today    func() model.Date
}

// NewService wires a Service.  guard and notifier may be nil.
func NewService(gw Gateway, guard inflight.Guard, notifier Notifier, logger *slog.Logger) *Service {
	if guard == nil {
		guard = inflight.NewLocalGuard()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{gw: gw, guard: guard, notifier: notifier, logger: logger.With("component", "lifecycle"), today: form.Today}
}

// Load fetches the member's bookings and reviews.
func (s *Service) Load(ctx context.Context, token string) (*View, error) {
	bookings, err := s.gw.ListMyBookings(ctx, token)
	if err != nil {
		return nil, err
	}
	reviews, err := s.gw.ListMyReviews(ctx, token)
	if err != nil {
		return nil, err
	}
	return NewView(bookings, reviews), nil
}

func (s *Service) refresh(ctx context.Context, token string, view *View) error {
	fresh, err := s.Load(ctx, token)
	if err != nil {
		return err
	}
	*view = *fresh
	return nil
}

// CreateBooking validates the form against room and submits it.  The new
// booking starts out pending.
func (s *Service) CreateBooking(ctx context.Context, actor Actor, view *View, f form.BookingForm, room model.Room) (model.Booking, error) {
	req, err := f.Validate(room, s.today())
	if err != nil {
		return model.Booking{}, err
	}
	release, err := s.acquire(ctx, actor, "book", room.ID)
	if err != nil {
		return model.Booking{}, err
	}
	defer release()

	created, err := s.gw.CreateBooking(ctx, actor.Token, req)
	if err != nil {
		return model.Booking{}, err
	}
	if view != nil {
		if err := s.refresh(ctx, actor.Token, view); err != nil {
			s.logger.Warn("refresh after booking failed", "err", err)
		}
	}
	s.publish(ctx, queue.EventBookingCreated, actor, created)
	return created, nil
}

// RequestPayment creates a payment for the booking and immediately
// processes it.  The returned booking comes from a fresh backend read.
func (s *Service) RequestPayment(ctx context.Context, actor Actor, view *View, bookingID uint64, method model.PaymentMethod) (model.Booking, error) {
	b, ok := view.Find(bookingID)
	if !ok {
		return model.Booking{}, apperr.NotFound("booking not found")
	}
	if !method.Valid() {
		return model.Booking{}, apperr.Payment(fmt.Sprintf("unsupported payment method %q", method), nil)
	}
	if !CanPay(b) {
		return model.Booking{}, apperr.Payment("this booking cannot be paid in its current state", nil)
	}
	release, err := s.acquire(ctx, actor, "pay", bookingID)
	if err != nil {
		return model.Booking{}, err
	}
	defer release()

	payment, err := s.gw.CreatePayment(ctx, actor.Token, bookingID, method)
	if err != nil {
		return model.Booking{}, s.rejected(ctx, actor, view, err, apperr.KindPayment, apperr.KindPayment, "payment could not be created")
	}
	if err := s.gw.ProcessPayment(ctx, actor.Token, payment.ID); err != nil {
		return model.Booking{}, s.rejected(ctx, actor, view, err, apperr.KindPayment, apperr.KindPayment, "payment could not be processed")
	}
	if err := s.refresh(ctx, actor.Token, view); err != nil {
		return model.Booking{}, apperr.Network("payment recorded; reload to see the latest status", err)
	}
	updated, _ := view.Find(bookingID)
	s.logger.Info("payment completed", "booking_id", bookingID, "payment_id", payment.ID, "method", method)
	s.publish(ctx, queue.EventPaymentCompleted, actor, updated)
	return updated, nil
}

// RequestCancellation cancels a booking that has not yet completed.
func (s *Service) RequestCancellation(ctx context.Context, actor Actor, view *View, bookingID uint64) (model.Booking, error) {
	b, ok := view.Find(bookingID)
	if !ok {
		return model.Booking{}, apperr.NotFound("booking not found")
	}
	if !CanCancel(b) {
		return model.Booking{}, apperr.Validation("this booking can no longer be cancelled", nil)
	}
	release, err := s.acquire(ctx, actor, "cancel", bookingID)
	if err != nil {
		return model.Booking{}, err
	}
	defer release()

	if err := s.gw.CancelBooking(ctx, actor.Token, bookingID); err != nil {
		return model.Booking{}, s.rejected(ctx, actor, view, err, apperr.KindInvalidTransition, "", "booking could not be cancelled")
	}
	if err := s.refresh(ctx, actor.Token, view); err != nil {
		return model.Booking{}, apperr.Network("booking cancelled; reload to see the latest status", err)
	}
	updated, _ := view.Find(bookingID)
	s.publish(ctx, queue.EventBookingCancelled, actor, updated)
	return updated, nil
}

// RequestDeletion removes a cancelled, unpaid booking.
func (s *Service) RequestDeletion(ctx context.Context, actor Actor, view *View, bookingID uint64) error {
	b, ok := view.Find(bookingID)
	if !ok {
		return apperr.NotFound("booking not found")
	}
	if !CanDelete(b) {
		return apperr.Validation("only cancelled, unpaid bookings can be deleted", nil)
	}
	release, err := s.acquire(ctx, actor, "delete", bookingID)
	if err != nil {
		return err
	}
	defer release()

	if err := s.gw.DeleteBooking(ctx, actor.Token, bookingID); err != nil {
		return s.rejected(ctx, actor, view, err, apperr.KindInvalidTransition, "", "booking could not be deleted")
	}
	view.remove(bookingID)
	if err := s.refresh(ctx, actor.Token, view); err != nil {
		s.logger.Warn("refresh after delete failed", "booking_id", bookingID, "err", err)
	}
	s.publish(ctx, queue.EventBookingDeleted, actor, b)
	return nil
}

// SubmitReview rates a completed stay.  All local checks run before any
// network call.
func (s *Service) SubmitReview(ctx context.Context, actor Actor, view *View, bookingID uint64, rating int, comment string) (model.Review, error) {
	b, ok := view.Find(bookingID)
	if !ok {
		return model.Review{}, apperr.NotFound("booking not found")
	}
	if !CanReview(b, view.Reviewed(bookingID)) {
		return model.Review{}, apperr.Validation("this booking cannot be reviewed", nil)
	}
	f := form.ReviewForm{BookingID: bookingID, Rating: rating, Comment: comment}
	if err := f.Validate(); err != nil {
		return model.Review{}, err
	}
	release, err := s.acquire(ctx, actor, "review", bookingID)
	if err != nil {
		return model.Review{}, err
	}
	defer release()

	review, err := s.gw.CreateReview(ctx, actor.Token, model.NewReviewRequest{
		BookingID: bookingID,
		Rating:    f.Rating,
		Comment:   f.Comment,
	})
	if err != nil {
		return model.Review{}, s.rejected(ctx, actor, view, err, apperr.KindInvalidTransition, "", "review could not be submitted")
	}
	if err := s.refresh(ctx, actor.Token, view); err != nil {
		s.logger.Warn("refresh after review failed", "booking_id", bookingID, "err", err)
	}
	view.markReviewed(bookingID)
	s.publish(ctx, queue.EventReviewSubmitted, actor, b)
	return review, nil
}

func (s *Service) acquire(ctx context.Context, actor Actor, action string, id uint64) (func(), error) {
	release, err := s.guard.Acquire(ctx, inflight.Key(actor.guardScope(), action, id))
	if errors.Is(err, inflight.ErrBusy) {
		return nil, apperr.Busy("this action is already in progress")
	}
	if err != nil {
		return nil, err
	}
	return release, nil
}

// rejected classifies a failed mutation.  A 4xx means the local snapshot
// was stale, so the view is reloaded before the error is returned.  Auth
// and network errors pass through unchanged; serverKind, when set, wraps
// 5xx answers.
func (s *Service) rejected(ctx context.Context, actor Actor, view *View, err error, clientKind, serverKind apperr.Kind, fallback string) error {
	if apperr.Is(err, apperr.KindAuth) || apperr.Is(err, apperr.KindNetwork) {
		return err
	}
	se, ok := gateway.AsStatus(err)
	if !ok {
		return err
	}
	msg := se.Message
	if msg == "" {
		msg = fallback
	}
	if se.IsClientError() {
		if rerr := s.refresh(ctx, actor.Token, view); rerr != nil {
			s.logger.Warn("reload after rejected action failed", "err", rerr)
		}
		return apperr.New(clientKind, msg, err)
	}
	if serverKind != "" {
		return apperr.New(serverKind, msg, err)
	}
	return err
}

func (s *Service) publish(ctx context.Context, typ string, actor Actor, b model.Booking) {
	if s.notifier == nil {
		return
	}
	ev := queue.BookingEvent{
		Type:          typ,
		BookingID:     b.ID,
		UserID:        actor.UserID,
		RoomID:        b.RoomID,
		BookingStatus: string(b.BookingStatus),
		PaymentStatus: string(b.PaymentStatus),
		TotalPrice:    b.TotalPrice,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.notifier.Publish(ctx, ev); err != nil {
		s.logger.Warn("publish booking event failed", "type", typ, "booking_id", b.ID, "err", err)
	}
}
