package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-web/internal/handler"
)

// RegisterMember registers the member area.  Access is enforced by the
// gate middleware, which classifies every /member path as member-only.
func RegisterMember(e *echo.Echo, h *handler.MemberHandler) {
	g := e.Group("/member")
	g.GET("/bookings", h.Bookings)
	g.POST("/bookings", h.CreateBooking)
	g.GET("/bookings/:id", h.Booking)
	g.POST("/bookings/:id/pay", h.Pay)
	g.POST("/bookings/:id/cancel", h.Cancel)
	g.DELETE("/bookings/:id", h.Delete)

	g.GET("/reviews", h.Reviews)
	g.POST("/reviews", h.SubmitReview)

	g.GET("/profile", h.Profile)
	g.PUT("/profile", h.UpdateProfile)
}
