package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/db/dbtest"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/events"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/repo"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/service"
)

type testServer struct {
	e      *echo.Echo
	db     *gorm.DB
	auth   *service.AuthService
	events *events.Recorder
}

func newTestServer(t *testing.T, authRate float64) *testServer {
	t.Helper()

	gdb := dbtest.Open(t)
	r := &repo.GormRepo{DB: gdb}
	rec := &events.Recorder{}

	authSvc := &service.AuthService{
		Repo:          r,
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		Events:        rec,
	}

	e := echo.New()
	e.Validator = NewRequestValidator()
	Register(e, &Deps{
		AuthHandler:    &AuthHTTP{Svc: authSvc},
		MenuHandler:    &MenuHTTP{Svc: &service.CatalogService{Repo: r, Events: rec}},
		CartHandler:    &CartHTTP{Svc: &service.CartService{Repo: r, Events: rec}},
		OrderHandler:   &OrderHTTP{Svc: &service.OrderService{Repo: r, Events: rec}},
		JWTSecret:      authSvc.JWTSecret,
		Refresher:      authSvc,
		AuthRatePerSec: authRate,
	})

	return &testServer{e: e, db: gdb, auth: authSvc, events: rec}
}

func (s *testServer) do(t *testing.T, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) signUpAndLogin(t *testing.T, username string) []*http.Cookie {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/v1/auth/signup",
		`{"username":"`+username+`","email":"`+username+`@example.com","password":"password123"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	return s.login(t, username, "password123")
}

func (s *testServer) login(t *testing.T, username, password string) []*http.Cookie {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/v1/auth/login",
		`{"username":"`+username+`","password":"`+password+`"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return rec.Result().Cookies()
}

func (s *testServer) adminCookies(t *testing.T) []*http.Cookie {
	t.Helper()

	require.NoError(t, s.auth.EnsureAdmin(ctxBG, "root", "root@example.com", "supersecret"))
	return s.login(t, "root", "supersecret")
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func cookieValue(cookies []*http.Cookie, name string) string {
	for _, c := range cookies {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}
