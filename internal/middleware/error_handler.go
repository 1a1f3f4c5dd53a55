package middleware

import (
	"net/http"

	"myHairMatch/pkg/logger"

	jsonres "myHairMatch/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler is the catch-all echo error handler for errors that escape the
// handlers, echo routing errors included.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("Unhandled request error", "method", c.Request().Method, "path", c.Path(), "error", err)
	}

	status := "ERROR"
	switch code {
	case http.StatusNotFound:
		status = "NOT_FOUND"
	case http.StatusUnauthorized:
		status = "UNAUTHORIZED"
	case http.StatusForbidden:
		status = "FORBIDDEN"
	case http.StatusBadRequest:
		status = "BAD_REQUEST"
	}

	if err := c.JSON(code, jsonres.Error(status, message, nil)); err != nil {
		logger.Error("Failed to write error response", "error", err)
	}
}
