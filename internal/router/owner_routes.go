package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking/internal/handler"
	"github.com/iliyamo/cinema-booking/internal/middleware"
	"github.com/iliyamo/cinema-booking/internal/model"
)

// RegisterAdmin registers admin-scoped endpoints under /v1.  All routes
// require a valid JWT and the admin role.
func RegisterAdmin(e *echo.Echo, rooms *handler.RoomHandler, movies *handler.MovieHandler, auth *handler.AuthHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	// ---- Users ----
	g.POST("/users", auth.RegisterUser)
	g.GET("/users", auth.ListUsers)

	// ---- Movies ----
	g.POST("/movies", movies.Create)

	// ---- Rooms ----
	g.POST("/rooms", rooms.Create)
	g.GET("/rooms/:id/seats", rooms.Seats)
	g.PUT("/rooms/:id/layout", rooms.Resize)
	g.DELETE("/rooms/:id", rooms.Delete)

	// ---- Seats ----
	g.PUT("/seats/:id/block", rooms.BlockSeat)
}
