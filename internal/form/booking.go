package form

import (
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/hotel-booking-web/internal/model"
)

// BookingForm is the reservation form shown on a room's page.
type BookingForm struct {
	RoomID          uint64 `json:"room_id" form:"room_id" validate:"required"`
	CheckIn         string `json:"checkin" form:"checkin" validate:"required"`
	CheckOut        string `json:"checkout" form:"checkout" validate:"required"`
	Guests          int    `json:"guests" form:"guests" validate:"gte=1"`
	GuestName       string `json:"guest_name" form:"guest_name" validate:"notblank"`
	GuestEmail      string `json:"guest_email" form:"guest_email" validate:"required,email"`
	GuestPhone      string `json:"guest_phone" form:"guest_phone" validate:"notblank"`
	GuestIDNumber   string `json:"guest_id_number" form:"guest_id_number"`
	SpecialRequests string `json:"special_requests" form:"special_requests" validate:"max=500"`
}

// Validate checks the form against the room being booked.  today is the
// earliest allowed check-in date.
func (f *BookingForm) Validate(room model.Room, today model.Date) (model.NewBookingRequest, error) {
	f.GuestName = strings.TrimSpace(f.GuestName)
	f.GuestEmail = strings.ToLower(strings.TrimSpace(f.GuestEmail))
	f.GuestPhone = strings.TrimSpace(f.GuestPhone)

	extra := map[string]string{}
	in, inErr := model.ParseDate(f.CheckIn)
	out, outErr := model.ParseDate(f.CheckOut)
	if f.CheckIn != "" && inErr != nil {
		extra["checkin"] = "must be a date (YYYY-MM-DD)"
	}
	if f.CheckOut != "" && outErr != nil {
		extra["checkout"] = "must be a date (YYYY-MM-DD)"
	}
	if inErr == nil && !today.IsZero() && in.Before(today.Time) {
		extra["checkin"] = "cannot be in the past"
	}
	if inErr == nil && outErr == nil && !out.After(in.Time) {
		extra["checkout"] = "must be after check-in date"
	}
	if room.MaxOccupancy > 0 && f.Guests > room.MaxOccupancy {
		extra["guests"] = fmt.Sprintf("must be between 1 and %d", room.MaxOccupancy)
	}
	if room.ID != 0 && f.RoomID != 0 && f.RoomID != room.ID {
		extra["room_id"] = "does not match the selected room"
	}
	if err := check(f, extra); err != nil {
		return model.NewBookingRequest{}, err
	}
	return model.NewBookingRequest{
		RoomID:          f.RoomID,
		CheckInDate:     in.String(),
		CheckOutDate:    out.String(),
		NumberOfGuests:  f.Guests,
		GuestName:       f.GuestName,
		GuestEmail:      f.GuestEmail,
		GuestPhone:      f.GuestPhone,
		GuestIDNumber:   strings.TrimSpace(f.GuestIDNumber),
		SpecialRequests: strings.TrimSpace(f.SpecialRequests),
	}, nil
}

// Quote is the price preview shown next to the form.
type Quote struct {
	Nights int     `json:"nights"`
	Total  float64 `json:"total"`
}

// QuoteFor prices a stay; invalid ranges quote zero.
func QuoteFor(room model.Room, checkIn, checkOut string) Quote {
	in, err1 := model.ParseDate(checkIn)
	out, err2 := model.ParseDate(checkOut)
	if err1 != nil || err2 != nil {
		return Quote{}
	}
	n := model.Nights(in, out)
	return Quote{Nights: n, Total: model.TotalPrice(room.Price, in, out)}
}

// Today returns the current calendar date in UTC.
func Today() model.Date {
	now := time.Now().UTC()
	return model.NewDate(now.Year(), now.Month(), now.Day())
}
