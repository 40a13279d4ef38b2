package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// idParam parses a positive numeric path parameter.
func idParam(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// uintQuery parses an optional numeric query parameter.  ok is false when
// the parameter is present but malformed.
func uintQuery(c echo.Context, name string) (uint64, bool) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	return v, err == nil
}

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// pageQuery reads the page and page_size query parameters as a limit
// and offset.  A non-empty field names the malformed parameter and
// reason says why.
func pageQuery(c echo.Context) (limit, offset int, field, reason string) {
	page, limit := 1, defaultPageSize
	if raw := c.QueryParam("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return 0, 0, "page", "must be a positive integer"
		}
		page = n
	}
	if raw := c.QueryParam("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxPageSize {
			return 0, 0, "page_size", "must be between 1 and " + strconv.Itoa(maxPageSize)
		}
		limit = n
	}
	return limit, (page - 1) * limit, "", ""
}
