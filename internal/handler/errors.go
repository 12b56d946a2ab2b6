package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/pathfinder-api/internal/service"
)

const internalErrorMessage = "Internal server error"

// statusFor maps a service error kind to its HTTP status.  Unknown errors
// are internal.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err in the {error} shape.  Service errors carry a
// client-safe message; anything else is logged with the request id and
// replaced by a generic message.
func respondError(c echo.Context, log zerolog.Logger, op string, err error) error {
	var se *service.Error
	if errors.As(err, &se) {
		return c.JSON(statusFor(err), echo.Map{"error": se.Message})
	}
	log.Error().Err(err).
		Str("op", op).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("request failed")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": internalErrorMessage})
}

// HTTPErrorHandler keeps framework-level failures (unknown route, wrong
// method, recovered panics) in the same {error} shape as handler errors.
func HTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status := http.StatusInternalServerError
		msg := internalErrorMessage

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			switch status {
			case http.StatusNotFound:
				msg = "Not found"
			case http.StatusMethodNotAllowed:
				msg = "Method not allowed"
			case http.StatusInternalServerError:
			default:
				msg = http.StatusText(status)
			}
		}
		if status >= http.StatusInternalServerError {
			log.Error().Err(err).
				Str("uri", c.Request().RequestURI).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, echo.Map{"error": msg})
		}
		if err != nil {
			log.Error().Err(err).Msg("write error response")
		}
	}
}
