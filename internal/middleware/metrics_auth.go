package middleware

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// MetricsBasicAuth guards /metrics with HTTP basic auth.  With either
// credential empty it lets every request through, for local use.
func MetricsBasicAuth(user, pass string) echo.MiddlewareFunc {
	if user == "" || pass == "" {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return middleware.BasicAuth(func(u, p string, c echo.Context) (bool, error) {
		userOK := subtle.ConstantTimeCompare([]byte(u), []byte(user)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(p), []byte(pass)) == 1
		return userOK && passOK, nil
	})
}
