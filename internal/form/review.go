package form

import "strings"

type ReviewForm struct {
	BookingID uint64 `json:"booking_id" form:"booking_id" validate:"required"`
	Rating    int    `json:"rating" form:"rating" validate:"gte=1,lte=5"`
	Comment   string `json:"comment" form:"comment" validate:"notblank,max=1000"`
}

func (f *ReviewForm) Validate() error {
	f.Comment = strings.TrimSpace(f.Comment)
	return check(f, nil)
}
