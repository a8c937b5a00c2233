package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/logging"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/models"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/tokens"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/transport"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*transport.LoginResult, error)
}

type AutoRefreshMiddleware struct {
	JWTSecret    []byte
	Refresher    Refresher
	SecureCookie bool
}

func NewAutoRefreshMiddleware(secret []byte, refresher Refresher, secureCookie bool) *AutoRefreshMiddleware {
	return &AutoRefreshMiddleware{
		JWTSecret:    secret,
		Refresher:    refresher,
		SecureCookie: secureCookie,
	}
}

type ValidatorFunc func(claims *tokens.AccessClaims) error

func (m *AutoRefreshMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, nil)
}

func (m *AutoRefreshMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, func(claims *tokens.AccessClaims) error {
		if claims.Role != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return nil
	})
}

func (m *AutoRefreshMiddleware) requireAuthWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context()).With("middleware", "auth")

		accessCookie, err := c.Cookie(tokens.AccessCookie)
		if err != nil || accessCookie.Value == "" {
			// a lapsed access cookie is dropped by the browser, the refresh cookie may still be there
			return m.refreshAndContinue(c, next, validator, l)
		}

		claims, err := tokens.AccessClaimsFromToken(accessCookie.Value, m.JWTSecret)
		if err == nil && claims != nil {
			if validator != nil {
				if validationErr := validator(claims); validationErr != nil {
					return validationErr
				}
			}
			if err := setUserContext(c, claims); err != nil {
				return err
			}
			return next(c)
		}

		if !errors.Is(err, jwt.ErrTokenExpired) {
			l.Warn("auth_failed", "status", 401, "reason", "invalid access token", "error", err)
			m.clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}

		return m.refreshAndContinue(c, next, validator, l)
	}
}

func (m *AutoRefreshMiddleware) refreshAndContinue(c echo.Context, next echo.HandlerFunc, validator ValidatorFunc, l *slog.Logger) error {
	refreshCookie, rErr := c.Cookie(tokens.RefreshCookie)
	if rErr != nil || refreshCookie.Value == "" {
		m.clearAuthCookies(c)
		return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}

	res, refErr := m.Refresher.Refresh(c.Request().Context(), refreshCookie.Value)
	if refErr != nil {
		l.Warn("auth_failed", "status", 401, "reason", "refresh failed", "error", refErr)
		m.clearAuthCookies(c)
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh failed")
	}

	c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, res.AccessToken, "/", res.AccessExp, m.SecureCookie))
	c.SetCookie(tokens.CreateCookie(tokens.RefreshCookie, res.RefreshToken, "/", res.RefreshExp, m.SecureCookie))

	newClaims, pErr := tokens.AccessClaimsFromToken(res.AccessToken, m.JWTSecret)
	if pErr != nil || newClaims == nil {
		m.clearAuthCookies(c)
		return echo.NewHTTPError(http.StatusUnauthorized, "new access token invalid")
	}

	if validator != nil {
		if validationErr := validator(newClaims); validationErr != nil {
			return validationErr
		}
	}
	if err := setUserContext(c, newClaims); err != nil {
		return err
	}

	return next(c)
}

func (m *AutoRefreshMiddleware) clearAuthCookies(c echo.Context) {
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/", m.SecureCookie))
	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookie, "/", m.SecureCookie))
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) error {
	id, err := claims.UserID()
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject claim")
	}
	c.Set(ctxUserID, id)
	c.Set(ctxRole, claims.Role)
	return nil
}

// UserID returns the authenticated user set by RequireAuth or RequireAdmin.
func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(ctxUserID).(uint)
	return id, ok && id != 0
}

func Role(c echo.Context) string {
	role, _ := c.Get(ctxRole).(string)
	return role
}
