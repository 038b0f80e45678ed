package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-0123456789-abcdefghijklmn"

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestService(t *testing.T) (*Service, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	s, err := NewService(testSecret, WithClock(c.now))
	require.NoError(t, err)
	return s, c
}

func TestNewServiceRequiresSecret(t *testing.T) {
	_, err := NewService("")
	assert.ErrorIs(t, err, ErrSecretRequired)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	s, _ := newTestService(t)
	in := Identity{ID: "1842", Email: "a@x.com", Name: "A", Role: RoleAdmin}

	tok, exp, err := s.Issue(in)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), exp)

	got, err := s.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, in, *got)
}

func TestVerifyExpiry(t *testing.T) {
	s, c := newTestService(t)
	tok, _, err := s.Issue(Identity{ID: "1", Role: RoleAdmin})
	require.NoError(t, err)

	c.t = c.t.Add(TTL - time.Second)
	_, err = s.Verify(tok)
	require.NoError(t, err)

	c.t = c.t.Add(2 * time.Second)
	_, err = s.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejects(t *testing.T) {
	s, c := newTestService(t)
	good, _, err := s.Issue(Identity{ID: "1", Role: RoleAdmin})
	require.NoError(t, err)

	other, err := NewService("another-secret-0123456789-abcdefghij", WithClock(c.now))
	require.NoError(t, err)
	forged, _, err := other.Issue(Identity{ID: "1", Role: RoleAdmin})
	require.NoError(t, err)

	parts := strings.Split(good, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Role: RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{
		Subject: "1", Issuer: Issuer, ExpiresAt: jwt.NewNumericDate(c.t.Add(time.Hour)),
	}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{Role: RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{
		Subject: "1", Issuer: Issuer,
	}})
	neverExpires, err := noExp.SignedString([]byte(testSecret))
	require.NoError(t, err)

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not-a-token",
		"wrong secret": forged,
		"tampered":     tampered,
		"alg none":     unsigned,
		"no expiry":    neverExpires,
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := s.Verify(tok)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestRoleComesFromSignedPayload(t *testing.T) {
	s, _ := newTestService(t)
	tok, _, err := s.Issue(Identity{ID: "9", Role: "editor"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: tok})
	req.Header.Set("X-Role", RoleAdmin)

	got, err := s.Verify(TokenFromRequest(req))
	require.NoError(t, err)
	assert.False(t, got.IsAdmin())
}

func TestCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	SetCookie(rec, "tok", true)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, 86400, c.MaxAge)

	rec = httptest.NewRecorder()
	ClearCookie(rec, false)
	assert.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)
}

func TestTokenFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", TokenFromRequest(req))

	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	assert.Equal(t, "abc.def.ghi", TokenFromRequest(req))

	req.AddCookie(&http.Cookie{Name: CookieName, Value: "cookie-token"})
	assert.Equal(t, "cookie-token", TokenFromRequest(req))
}
