package middleware

import "github.com/labstack/echo/v4"

// userID returns the authenticated user id stored by JWTAuth, or "guest"
// for anonymous requests.  Used to build per-user rate limit keys.
func userID(c echo.Context) string {
    if v, ok := c.Get(CtxUserID).(string); ok && v != "" {
        return v
    }
    return "guest"
}
