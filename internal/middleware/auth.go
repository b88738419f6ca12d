package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HeaderUserID carries the verified user identity injected by the upstream
// gateway. Token verification itself happens there, not in this service.
const HeaderUserID = "X-User-ID"

const userIDKey = "userID"

// RequireUser rejects requests that arrive without a verified identity.
func RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID := c.Request().Header.Get(HeaderUserID)
		if userID == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
		}
		c.Set(userIDKey, userID)
		return next(c)
	}
}

// UserID returns the authenticated caller's id, empty if RequireUser did not
// run.
func UserID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}
