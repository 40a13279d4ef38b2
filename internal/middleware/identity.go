package middleware

// identity.go holds the context keys written by JWTAuth and the helpers
// handlers and other middleware use to read them back.

import (
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-booking/internal/utils"
)

const (
    ctxUserID = "user_id"
    ctxRole   = "role"
)

func setIdentity(c echo.Context, id utils.Identity) {
    c.Set(ctxUserID, id.UserID)
    c.Set(ctxRole, id.Role)
}

// UserID returns the authenticated user id.  ok is false for anonymous
// requests.
func UserID(c echo.Context) (uint64, bool) {
    id, ok := c.Get(ctxUserID).(uint64)
    return id, ok && id != 0
}

// Role returns the authenticated role, or "" for anonymous requests.
func Role(c echo.Context) string {
    role, _ := c.Get(ctxRole).(string)
    return role
}

// userKey identifies the caller for rate limiting.  It returns "anon"
// when no user is authenticated.
func userKey(c echo.Context) string {
    if id, ok := UserID(c); ok {
        return strconv.FormatUint(id, 10)
    }
    return "anon"
}
