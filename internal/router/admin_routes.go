package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-web/internal/handler"
)

// RegisterAdmin registers the administration area under /admin.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler) {
	e.GET("/admin", h.Dashboard)
	g := e.Group("/admin")

	// ---- Rooms ----
	g.GET("/rooms", h.Rooms)
	g.POST("/rooms", h.CreateRoom)
	g.PUT("/rooms/:id", h.UpdateRoom)
	g.DELETE("/rooms/:id", h.DeleteRoom)

	// ---- Bookings and payments ----
	g.GET("/bookings", h.Bookings)
	g.PUT("/bookings/:id/status", h.UpdateBookingStatus)
	g.PUT("/bookings/:id/payment-status", h.UpdatePaymentStatus)
	g.GET("/payments", h.Payments)

	// ---- Users ----
	g.GET("/users", h.Users)
	g.PUT("/users/:id/role", h.UpdateUserRole)
	g.DELETE("/users/:id", h.DeleteUser)

	// ---- Reviews ----
	g.GET("/reviews", h.Reviews)
	g.DELETE("/reviews/:id", h.DeleteReview)
}
