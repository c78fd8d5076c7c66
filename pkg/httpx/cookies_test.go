package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/chatauth/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestCookieOptionsBuild(t *testing.T) {
	opts := httpx.CookieOptions{
		Domain:   "chat.example.com",
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}

	ck := opts.Build("app-refreshToken", "value", 30*24*time.Hour, true)
	require.Equal(t, "app-refreshToken", ck.Name)
	require.Equal(t, "value", ck.Value)
	require.Equal(t, "/", ck.Path)
	require.Equal(t, "chat.example.com", ck.Domain)
	require.True(t, ck.HttpOnly)
	require.True(t, ck.Secure)
	require.Equal(t, http.SameSiteStrictMode, ck.SameSite)
	require.Equal(t, 30*24*60*60, ck.MaxAge)
}

func TestCookieOptionsOmitsLocalhostDomain(t *testing.T) {
	for _, domain := range []string{"localhost", "LOCALHOST", "", "  "} {
		ck := httpx.CookieOptions{Domain: domain}.Build("c", "v", time.Minute, false)
		require.Empty(t, ck.Domain, "domain %q should be omitted", domain)
	}
}

func TestCookieOptionsExpire(t *testing.T) {
	opts := httpx.CookieOptions{SameSite: http.SameSiteStrictMode}

	ck := opts.Expire("app-accessToken", false)
	require.Equal(t, "", ck.Value)
	require.Equal(t, -1, ck.MaxAge)
	require.False(t, ck.HttpOnly)

	// Rendered header must tell the browser to drop it
	rec := httptest.NewRecorder()
	http.SetCookie(rec, ck)
	require.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestNamedCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "present", Value: "abc"})
	req.AddCookie(&http.Cookie{Name: "empty", Value: ""})

	v, ok := httpx.NamedCookie(req, "present")
	require.True(t, ok)
	require.Equal(t, "abc", v)

	_, ok = httpx.NamedCookie(req, "empty")
	require.False(t, ok)

	_, ok = httpx.NamedCookie(req, "missing")
	require.False(t, ok)
}

func TestRequiredCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "present", Value: "abc"})

	v, err := httpx.RequiredCookie(req, "present", "Authentication required")
	require.NoError(t, err)
	require.Equal(t, "abc", v)

	_, err = httpx.RequiredCookie(req, "missing", "Authentication required")
	var missing *httpx.MissingCookieError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "missing", missing.Name)

	rec := httptest.NewRecorder()
	httpx.WriteError(rec, err, false)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"message":"Authentication required"}`, rec.Body.String())
}
