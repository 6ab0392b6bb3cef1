package catalog

import "github.com/iliyamo/hotel-booking-web/internal/model"

// Stats are the admin dashboard totals.
type Stats struct {
	TotalBookings   int     `json:"total_bookings"`
	TotalRevenue    float64 `json:"total_revenue"`
	PendingPayments int     `json:"pending_payments"`
	ActiveBookings  int     `json:"active_bookings"`
	TotalRooms      int     `json:"total_rooms"`
	TotalUsers      int     `json:"total_users"`
}

// DashboardStats computes the booking-derived totals.  Revenue sums every
// booking's price regardless of status.
func DashboardStats(bookings []model.Booking) Stats {
	var s Stats
	s.TotalBookings = len(bookings)
	for _, b := range bookings {
		s.TotalRevenue += b.TotalPrice
		if b.PaymentStatus == model.PaymentPending {
			s.PendingPayments++
		}
		if b.BookingStatus == model.BookingConfirmed {
			s.ActiveBookings++
		}
	}
	return s
}
