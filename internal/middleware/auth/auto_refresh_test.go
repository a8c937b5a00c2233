package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/models"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/tokens"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/transport"
)

var secret = []byte("test-jwt-secret")

type fakeRefresher struct {
	calls int
	res   *transport.LoginResult
	err   error
}

func (f *fakeRefresher) Refresh(context.Context, string) (*transport.LoginResult, error) {
	f.calls++
	return f.res, f.err
}

func accessToken(t *testing.T, userID uint, role string, exp time.Time) string {
	t.Helper()
	tok, err := tokens.SignAccessToken(userID, role, exp, secret)
	require.NoError(t, err)
	return tok
}

func run(t *testing.T, mw echo.MiddlewareFunc, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	return rec, c, err
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he), "expected echo.HTTPError, got %v", err)
	return he.Code
}

func TestRequireAuth_ValidAccessToken(t *testing.T) {
	ref := &fakeRefresher{}
	m := NewAutoRefreshMiddleware(secret, ref, false)

	tok := accessToken(t, 7, models.RoleCustomer, time.Now().Add(time.Minute))
	rec, c, err := run(t, m.RequireAuth, &http.Cookie{Name: tokens.AccessCookie, Value: tok})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	id, ok := UserID(c)
	require.True(t, ok)
	assert.Equal(t, uint(7), id)
	assert.Equal(t, models.RoleCustomer, Role(c))
	assert.Zero(t, ref.calls)
}

func TestRequireAuth_NoCookies(t *testing.T) {
	m := NewAutoRefreshMiddleware(secret, &fakeRefresher{}, false)

	_, _, err := run(t, m.RequireAuth)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestRequireAuth_ForgedToken(t *testing.T) {
	ref := &fakeRefresher{}
	m := NewAutoRefreshMiddleware(secret, ref, false)

	forged, err := tokens.SignAccessToken(1, models.RoleAdmin, time.Now().Add(time.Minute), []byte("other"))
	require.NoError(t, err)

	_, _, err = run(t, m.RequireAuth,
		&http.Cookie{Name: tokens.AccessCookie, Value: forged},
		&http.Cookie{Name: tokens.RefreshCookie, Value: "r"},
	)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	assert.Zero(t, ref.calls, "a forged token must not trigger a refresh")
}

func TestRequireAuth_ExpiredTokenRefreshes(t *testing.T) {
	now := time.Now()
	ref := &fakeRefresher{res: &transport.LoginResult{
		UserID:       3,
		Role:         models.RoleCustomer,
		AccessToken:  accessToken(t, 3, models.RoleCustomer, now.Add(time.Minute)),
		RefreshToken: "new-refresh",
		AccessExp:    now.Add(time.Minute),
		RefreshExp:   now.Add(time.Hour),
	}}
	m := NewAutoRefreshMiddleware(secret, ref, false)

	rec, c, err := run(t, m.RequireAuth,
		&http.Cookie{Name: tokens.AccessCookie, Value: accessToken(t, 3, models.RoleCustomer, now.Add(-time.Minute))},
		&http.Cookie{Name: tokens.RefreshCookie, Value: "old-refresh"},
	)
	require.NoError(t, err)
	assert.Equal(t, 1, ref.calls)

	id, _ := UserID(c)
	assert.Equal(t, uint(3), id)

	var names []string
	for _, ck := range rec.Result().Cookies() {
		names = append(names, ck.Name)
	}
	assert.ElementsMatch(t, []string{tokens.AccessCookie, tokens.RefreshCookie}, names)
}

func TestRequireAuth_RefreshFailure(t *testing.T) {
	ref := &fakeRefresher{err: errors.New("revoked")}
	m := NewAutoRefreshMiddleware(secret, ref, false)

	_, _, err := run(t, m.RequireAuth, &http.Cookie{Name: tokens.RefreshCookie, Value: "old"})
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	assert.Equal(t, 1, ref.calls)
}

func TestRequireAdmin(t *testing.T) {
	m := NewAutoRefreshMiddleware(secret, &fakeRefresher{}, false)

	customer := accessToken(t, 2, models.RoleCustomer, time.Now().Add(time.Minute))
	_, _, err := run(t, m.RequireAdmin, &http.Cookie{Name: tokens.AccessCookie, Value: customer})
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	admin := accessToken(t, 1, models.RoleAdmin, time.Now().Add(time.Minute))
	rec, _, err := run(t, m.RequireAdmin, &http.Cookie{Name: tokens.AccessCookie, Value: admin})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}
