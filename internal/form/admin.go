package form

import (
	"strings"

	"github.com/iliyamo/hotel-booking-web/internal/model"
)

type RoomForm struct {
	RoomNumber   string  `json:"room_number" form:"room_number" validate:"notblank,max=20"`
	Type         string  `json:"type" form:"type" validate:"notblank,max=50"`
	Description  string  `json:"description" form:"description" validate:"max=2000"`
	Price        float64 `json:"price" form:"price" validate:"gt=0"`
	MaxOccupancy int     `json:"max_occupancy" form:"max_occupancy" validate:"gte=1,lte=20"`
	Status       string  `json:"status" form:"status" validate:"omitempty,oneof=available maintenance occupied"`
}

func (f *RoomForm) Validate() (model.RoomInput, error) {
	f.RoomNumber = strings.TrimSpace(f.RoomNumber)
	f.Type = strings.TrimSpace(f.Type)
	f.Status = strings.ToLower(strings.TrimSpace(f.Status))
	if err := check(f, nil); err != nil {
		return model.RoomInput{}, err
	}
	return model.RoomInput{
		RoomNumber:   f.RoomNumber,
		Type:         f.Type,
		Description:  strings.TrimSpace(f.Description),
		Price:        f.Price,
		MaxOccupancy: f.MaxOccupancy,
		Status:       f.Status,
	}, nil
}

type BookingStatusForm struct {
	Status string `json:"status" form:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

func (f *BookingStatusForm) Validate() (model.BookingStatus, error) {
	f.Status = strings.ToLower(strings.TrimSpace(f.Status))
	if err := check(f, nil); err != nil {
		return "", err
	}
	return model.BookingStatus(f.Status), nil
}

type PaymentStatusForm struct {
	PaymentStatus string `json:"payment_status" form:"payment_status" validate:"required,oneof=pending paid failed refunded"`
}

func (f *PaymentStatusForm) Validate() (model.PaymentStatus, error) {
	f.PaymentStatus = strings.ToLower(strings.TrimSpace(f.PaymentStatus))
	if err := check(f, nil); err != nil {
		return "", err
	}
	return model.PaymentStatus(f.PaymentStatus), nil
}

type RoleForm struct {
	Role string `json:"role" form:"role" validate:"required,oneof=member admin"`
}

func (f *RoleForm) Validate() (model.Role, error) {
	f.Role = strings.ToLower(strings.TrimSpace(f.Role))
	if err := check(f, nil); err != nil {
		return "", err
	}
	return model.Role(f.Role), nil
}
