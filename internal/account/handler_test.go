package account

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/session"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestHandler(t *testing.T) (*Handler, *session.Service) {
	t.Helper()
	svc := newTestService(newMemRepo())
	_, err := svc.Create(context.Background(), CreateInput{Email: "a@x.com", Password: "secret123", Name: "A"})
	require.NoError(t, err)
	sessions, err := session.NewService(testSecret)
	require.NoError(t, err)
	return NewHandler(svc, sessions, zap.NewNop().Sugar(), false), sessions
}

func TestLoginJSON(t *testing.T) {
	h, sessions := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a@x.com","password":"secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "admin", body.User.Role)
	assert.Equal(t, "a@x.com", body.User.Email)
	assert.Empty(t, body.Redirect)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, session.CookieName, c.Name)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, body.Token, c.Value)

	id, err := sessions.Verify(c.Value)
	require.NoError(t, err)
	assert.Equal(t, body.User.ID, id.ID)
}

func TestLoginJSONWrongPassword(t *testing.T) {
	h, _ := newTestHandler(t)
	for _, payload := range []string{
		`{"email":"a@x.com","password":"wrong"}`,
		`{"email":"nobody@x.com","password":"secret123"}`,
	} {
		rec := httptest.NewRecorder()
		h.Login(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(payload)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"success":false,"error":"invalid credentials"}`, rec.Body.String())
		assert.Empty(t, rec.Result().Cookies())
	}
}

func TestLoginFormRedirectsToCallback(t *testing.T) {
	h, _ := newTestHandler(t)
	form := url.Values{"email": {"a@x.com"}, "password": {"secret123"}, "callbackUrl": {"/admin/downloads?page=2"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/downloads?page=2", rec.Header().Get("Location"))
	assert.Len(t, rec.Result().Cookies(), 1)
}

func TestLoginFormFailureReturnsToLoginPage(t *testing.T) {
	h, _ := newTestHandler(t)
	form := url.Values{"email": {"a@x.com"}, "password": {"nope"}, "callbackUrl": {"/admin/faqs"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?callbackUrl=%2Fadmin%2Ffaqs&error=1", rec.Header().Get("Location"))
	assert.Empty(t, rec.Result().Cookies())
}

func TestSafeCallback(t *testing.T) {
	cases := map[string]string{
		"":                       "/admin",
		"/admin/faqs":            "/admin/faqs",
		"/admin/faqs?page=2":     "/admin/faqs?page=2",
		"//evil.example":         "/admin",
		"https://evil.example/x": "/admin",
		"/\\evil.example":        "/admin",
		"admin":                  "/admin",
		"javascript:alert(1)":    "/admin",
	}
	for in, want := range cases {
		assert.Equal(t, want, SafeCallback(in), in)
	}
}

func TestSessionAndLogout(t *testing.T) {
	h, sessions := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Session(rec, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, _, err := sessions.Issue(session.Identity{ID: "1", Email: "a@x.com", Role: "admin"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.Session(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"a@x.com"`)

	rec = httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestCreateAccountConflict(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/admin/api/accounts",
		strings.NewReader(`{"email":"A@x.com","password":"secret123","name":"Dup"}`)))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"email already in use"}`, rec.Body.String())
}

func TestLoginPageEscapesCallback(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.LoginPage(rec, httptest.NewRequest(http.MethodGet, `/login?callbackUrl=/admin/x"><script>`, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<script>")
	assert.Contains(t, rec.Body.String(), `action="/login"`)
}
