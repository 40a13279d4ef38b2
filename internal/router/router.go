package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/cinema-booking/internal/handler"
	"github.com/iliyamo/cinema-booking/internal/middleware"
)

// MetricsAuth holds the optional basic auth credentials of /metrics.
type MetricsAuth struct {
	User string
	Pass string
}

// RegisterRoutes registers the operational endpoints: the health check
// and the prometheus scrape endpoint served from g.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler, g prometheus.Gatherer, auth MetricsAuth) {
	e.GET("/healthz", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{})),
		middleware.MetricsBasicAuth(auth.User, auth.Pass))
}

// RegisterAuth registers authentication routes.  Login and refresh live
// under /v1/auth without a session; logout and /v1/me need a valid access
// token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout, middleware.JWTAuth(jwtSecret))

	e.GET("/v1/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterPublic registers the browse endpoints guests may call: the
// room list, a room's effective layout for a date and the movie
// catalog.
func RegisterPublic(e *echo.Echo, rooms *handler.RoomHandler, movies *handler.MovieHandler) {
	e.GET("/v1/rooms", rooms.List)
	e.GET("/v1/rooms/:id/layout", rooms.Layout)
	e.GET("/v1/movies", movies.List)
	e.GET("/v1/movies/:id", movies.Get)
}
