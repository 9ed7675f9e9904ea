package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medcrm/medcrm/internal/platform/auth"
)

// ErrorHandler returns an echo HTTPErrorHandler that renders every error as
// a {success:false, error:...} JSON body. Authorization failures keep their
// classified status codes; anything unclassified becomes a 500 without
// leaking internals to the caller.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "internal server error"

		var authErr *auth.Error
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &authErr):
			status = authErr.Status
			message = authErr.Message
		case errors.As(err, &httpErr):
			status = httpErr.Code
			if s, ok := httpErr.Message.(string); ok {
				message = s
			} else {
				message = http.StatusText(status)
			}
		}

		if status >= http.StatusInternalServerError {
			rid, _ := c.Get("request_id").(string)
			logger.Error().Err(err).Str("request_id", rid).Msg("request failed")
		}

		if writeErr := c.JSON(status, map[string]interface{}{
			"success": false,
			"error":   message,
		}); writeErr != nil {
			logger.Error().Err(writeErr).Msg("failed to write error response")
		}
	}
}
