package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	authmw "github.com/SaiChaitanya436/Restauarant-Management-Application/internal/middleware/auth"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/service"
)

var errBadID = errors.New("id must be a positive integer")

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errBadID
	}
	return uint(id), nil
}

func currentUser(c echo.Context, l *slog.Logger, event string) (uint, error) {
	userID, ok := authmw.UserID(c)
	if !ok {
		l.Warn(event, "status", 401, "reason", "no user in context")
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return userID, nil
}

// serviceError maps service sentinels onto HTTP status codes and logs the
// failure under event.
func serviceError(l *slog.Logger, event string, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "reason", "validation", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "reason", "not found", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		l.Warn(event, "status", 409, "reason", "conflict", "error", err)
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		l.Warn(event, "status", 401, "reason", "invalid credentials")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	case errors.Is(err, service.ErrInvalidRefreshToken):
		l.Warn(event, "status", 401, "reason", "invalid refresh token", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	default:
		l.Error(event, "status", 500, "reason", "internal error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
