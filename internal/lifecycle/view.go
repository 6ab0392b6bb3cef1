package lifecycle

import (
	"sort"

	"github.com/iliyamo/hotel-booking-web/internal/model"
)

// View is a member's snapshot of their bookings and of which bookings they
// have reviewed.  It is only ever replaced wholesale from backend answers.
type View struct {
	bookings []model.Booking
	reviews  []model.Review
	reviewed map[uint64]bool
}

// NewView builds a snapshot, newest booking first.
func NewView(bookings []model.Booking, reviews []model.Review) *View {
	v := &View{}
	v.set(bookings, reviews)
	return v
}

func (v *View) set(bookings []model.Booking, reviews []model.Review) {
	bs := append([]model.Booking(nil), bookings...)
	sort.SliceStable(bs, func(i, j int) bool { return bs[i].ID > bs[j].ID })
	reviewed := make(map[uint64]bool, len(reviews))
	for _, r := range reviews {
		reviewed[r.BookingID] = true
	}
	v.bookings = bs
	v.reviews = append([]model.Review(nil), reviews...)
	v.reviewed = reviewed
}

// Bookings returns a copy of the snapshot's bookings.
func (v *View) Bookings() []model.Booking {
	return append([]model.Booking(nil), v.bookings...)
}

// Reviews returns the member's own reviews.
func (v *View) Reviews() []model.Review {
	return append([]model.Review(nil), v.reviews...)
}

// Find looks a booking up by id within the snapshot.
func (v *View) Find(id uint64) (model.Booking, bool) {
	for _, b := range v.bookings {
		if b.ID == id {
			return b, true
		}
	}
	return model.Booking{}, false
}

// Reviewed reports whether the member has reviewed booking id.
func (v *View) Reviewed(id uint64) bool { return v.reviewed[id] }

func (v *View) markReviewed(id uint64) { v.reviewed[id] = true }

func (v *View) remove(id uint64) {
	out := v.bookings[:0]
	for _, b := range v.bookings {
		if b.ID != id {
			out = append(out, b)
		}
	}
	v.bookings = out
}

// Entry pairs a booking with its admissible actions.
type Entry struct {
	Booking model.Booking `json:"booking"`
	Actions Actions       `json:"actions"`
}

// Entries returns each booking with its actions, newest first.
func (v *View) Entries() []Entry {
	out := make([]Entry, len(v.bookings))
	for i, b := range v.bookings {
		out[i] = Entry{Booking: b, Actions: ActionsFor(b, v.Reviewed(b.ID))}
	}
	return out
}

// ToReview lists completed bookings still awaiting a review.
func (v *View) ToReview() []model.Booking {
	var out []model.Booking
	for _, b := range v.bookings {
		if CanReview(b, v.Reviewed(b.ID)) {
			out = append(out, b)
		}
	}
	return out
}
