package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders every error as the {"error": "..."} envelope the
// dashboard frontend expects.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	// Raw error text never reaches the client; handlers choose the message
	// via echo.NewHTTPError.
	code := http.StatusInternalServerError
	msg := "Internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}

	_ = c.JSON(code, map[string]string{"error": msg})
}
