package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking/internal/handler"
	"github.com/iliyamo/cinema-booking/internal/middleware"
	"github.com/iliyamo/cinema-booking/internal/model"
)

// RegisterBookings registers booking endpoints under /v1.  Every route
// needs a valid JWT; users act on their own bookings and admins on any.
// limit throttles booking creation.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group(
		"/v1/bookings",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleUser, model.RoleAdmin),
	)
	g.POST("", h.Create, limit)
	g.GET("", h.List)
	g.GET("/:id/ticket", h.Ticket)
	g.GET("/:id/qr", h.QR)

	// Cancelling is an admin override.
	g.DELETE("/:id", h.Cancel, middleware.RequireRole(model.RoleAdmin))
}
