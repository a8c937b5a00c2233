package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/logging"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/service"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/tokens"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/transport"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	SecureCookie bool
}

func (h *AuthHTTP) setAuthCookies(c echo.Context, res *transport.LoginResult) {
	c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, res.AccessToken, "/", res.AccessExp, h.SecureCookie))
	c.SetCookie(tokens.CreateCookie(tokens.RefreshCookie, res.RefreshToken, "/", res.RefreshExp, h.SecureCookie))
}

func (h *AuthHTTP) clearAuthCookies(c echo.Context) {
	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookie, "/", h.SecureCookie))
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/", h.SecureCookie))
}

func (h *AuthHTTP) SignUp(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signup")

	var req transport.SignUpRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signup_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("signup_error", "status", 400, "reason", "validation", "error", err)
		return err
	}

	user, err := h.Svc.SignUp(ctx, req)
	if err != nil {
		return serviceError(l, "signup_error", err)
	}

	l.Info("signup_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "validation", "error", err)
		return err
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return serviceError(l, "login_error", err)
	}

	h.setAuthCookies(c, res)
	l.Info("login_success", "user_id", res.UserID)

	return c.JSON(http.StatusOK, echo.Map{
		"user_id":  res.UserID,
		"role":     res.Role,
		"is_admin": res.IsAdmin,
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	refreshCookie, err := c.Cookie(tokens.RefreshCookie)
	if err != nil || refreshCookie.Value == "" {
		l.Warn("refresh_error", "status", 401, "reason", "refresh token missing")
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}

	res, err := h.Svc.Refresh(ctx, refreshCookie.Value)
	if err != nil {
		h.clearAuthCookies(c)
		return serviceError(l, "refresh_error", err)
	}

	h.setAuthCookies(c, res)
	l.Info("refresh_success", "user_id", res.UserID)
	return c.JSON(http.StatusOK, echo.Map{
		"user_id":  res.UserID,
		"role":     res.Role,
		"is_admin": res.IsAdmin,
	})
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	refreshCookie, err := c.Cookie(tokens.RefreshCookie)
	if err == nil && refreshCookie.Value != "" {
		if err := h.Svc.LogOut(ctx, refreshCookie.Value); err != nil {
			h.clearAuthCookies(c)
			l.Error("logout_error", "status", 500, "reason", "cannot revoke refresh token", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	h.clearAuthCookies(c)
	l.Info("logout_success")
	return c.JSON(http.StatusOK, echo.Map{
		"message": "logged out",
	})
}
