package model

import (
	"strings"

	json "github.com/goccy/go-json"
)

// BookingStatus is the reservation state owned by the backend.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Terminal reports whether no further transition is possible.
func (s BookingStatus) Terminal() bool {
	return s == BookingCancelled || s == BookingCompleted
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

func (s *BookingStatus) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = BookingStatus(strings.ToLower(strings.TrimSpace(v)))
	return nil
}

// PaymentStatus is the booking-level payment state.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

func (s *PaymentStatus) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = PaymentStatus(strings.ToLower(strings.TrimSpace(v)))
	return nil
}

// Booking mirrors the backend's booking record.  JSON keys follow the
// backend's default (CamelCase) encoding.
//
// Fields:
//
//	ID             – booking id.
//	RoomID         – booked room.
//	UserID         – owning member.
//	Guest*         – guest contact data captured by the booking form.
//	CheckInDate    – first night, strictly before CheckOutDate.
//	NumberOfGuests – between 1 and the room's max occupancy.
//	TotalPrice     – nights × nightly rate, computed by the backend.
//	BookingStatus  – pending, confirmed, cancelled or completed.
//	PaymentStatus  – pending, paid, failed or refunded.
type Booking struct {
	ID              uint64        `json:"ID"`
	RoomID          uint64        `json:"RoomID"`
	UserID          uint64        `json:"UserID"`
	GuestName       string        `json:"GuestName,omitempty"`
	GuestEmail      string        `json:"GuestEmail,omitempty"`
	GuestPhone      string        `json:"GuestPhone,omitempty"`
	GuestIDNumber   string        `json:"GuestIDNumber,omitempty"`
	CheckInDate     Date          `json:"CheckInDate"`
	CheckOutDate    Date          `json:"CheckOutDate"`
	NumberOfGuests  int           `json:"NumberOfGuests"`
	TotalPrice      float64       `json:"TotalPrice"`
	BookingStatus   BookingStatus `json:"BookingStatus"`
	PaymentStatus   PaymentStatus `json:"PaymentStatus"`
	PaymentMethod   string        `json:"PaymentMethod,omitempty"`
	SpecialRequests string        `json:"SpecialRequests,omitempty"`
}

// NewBookingRequest is the body of POST /member/bookings.
type NewBookingRequest struct {
	RoomID          uint64 `json:"room_id"`
	CheckInDate     string `json:"check_in_date"`
	CheckOutDate    string `json:"check_out_date"`
	NumberOfGuests  int    `json:"number_of_guests"`
	GuestName       string `json:"guest_name"`
	GuestEmail      string `json:"guest_email"`
	GuestPhone      string `json:"guest_phone"`
	GuestIDNumber   string `json:"guest_id_number,omitempty"`
	SpecialRequests string `json:"special_requests,omitempty"`
}
