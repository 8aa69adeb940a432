package handlers

import (
	"errors"
	"net/http"

	"github.com/eventflow/backend/internal/apperr"
	"github.com/labstack/echo/v4"
)

// httpError maps a service error to the transport status taxonomy. Internal
// causes are redacted; the raw message only reaches the server log.
func httpError(c echo.Context, err error) *echo.HTTPError {
	var e *apperr.Error
	if !errors.As(err, &e) {
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	switch e.Kind {
	case apperr.KindValidation:
		return echo.NewHTTPError(http.StatusBadRequest, e.Message)
	case apperr.KindUnauthorized:
		return echo.NewHTTPError(http.StatusUnauthorized, e.Message)
	case apperr.KindAccessDenied:
		return echo.NewHTTPError(http.StatusForbidden, e.Message)
	case apperr.KindNotFound:
		return echo.NewHTTPError(http.StatusNotFound, e.Message)
	case apperr.KindConflict:
		return echo.NewHTTPError(http.StatusConflict, e.Message)
	default:
		c.Logger().Error(e.Err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
