package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/cinema-booking/internal/pkg/metrics"
)

// SetupMiddleware installs the middleware every route shares.  Metrics
// wrap the logger so they observe the status the error handler wrote.
func SetupMiddleware(e *echo.Echo, m *metrics.Metrics) {
	e.Use(RequestID())
	e.Use(Prometheus(m))
	e.Use(RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.HEAD, echo.PUT, echo.POST, echo.DELETE},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderXRequestID},
	}))
}
