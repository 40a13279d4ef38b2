package handler

import "github.com/labstack/echo/v4"

// NewTestEcho returns an echo instance configured like the server, for
// handler tests.
func NewTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	e.HTTPErrorHandler = CustomHTTPErrorHandler
	return e
}
