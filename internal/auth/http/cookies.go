package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/chatauth/internal/auth/domain"
	"github.com/aussiebroadwan/chatauth/pkg/httpx"
)

// CookiePolicy decides the names and attributes of the three session
// cookies. It is built once from config and never re-read per request.
type CookiePolicy struct {
	Prefix  string
	Options httpx.CookieOptions

	// AccessTokenBuffer is added to the provider's expires_in so the cookie
	// never disappears before the token it carries.
	AccessTokenBuffer time.Duration

	// RefreshTokenTTL applies to both the refresh token and the synchronize
	// cookie, which must expire together.
	RefreshTokenTTL time.Duration
}

// NewCookiePolicy returns the policy for prefix. Cookies are SameSite=Strict
// and only marked Secure when secure is set.
func NewCookiePolicy(prefix, domainName string, secure bool, accessBuffer, refreshTTL time.Duration) CookiePolicy {
	return CookiePolicy{
		Prefix: prefix,
		Options: httpx.CookieOptions{
			Domain:   domainName,
			Path:     "/",
			Secure:   secure,
			SameSite: http.SameSiteStrictMode,
		},
		AccessTokenBuffer: accessBuffer,
		RefreshTokenTTL:   refreshTTL,
	}
}

// Name returns "<prefix>-<suffix>".
func (p CookiePolicy) Name(suffix string) string {
	return p.Prefix + "-" + suffix
}

// SetSession writes all three session cookies.
func (p CookiePolicy) SetSession(w http.ResponseWriter, s domain.Session) {
	accessTTL := time.Duration(s.ExpiresIn)*time.Second + p.AccessTokenBuffer

	http.SetCookie(w, p.Options.Build(p.Name(domain.AccessTokenCookie), s.AccessToken, accessTTL, false))
	http.SetCookie(w, p.Options.Build(p.Name(domain.RefreshTokenCookie), s.RefreshToken, p.RefreshTokenTTL, true))
	http.SetCookie(w, p.Options.Build(p.Name(domain.SynchronizeCookie), s.Synchronize, p.RefreshTokenTTL, true))
}

// Clear expires all three session cookies in one response.
func (p CookiePolicy) Clear(w http.ResponseWriter) {
	http.SetCookie(w, p.Options.Expire(p.Name(domain.AccessTokenCookie), false))
	http.SetCookie(w, p.Options.Expire(p.Name(domain.RefreshTokenCookie), true))
	http.SetCookie(w, p.Options.Expire(p.Name(domain.SynchronizeCookie), true))
}

func (p CookiePolicy) accessToken(r *http.Request) (string, error) {
	return httpx.RequiredCookie(r, p.Name(domain.AccessTokenCookie), domain.MsgAuthenticationRequired)
}

func (p CookiePolicy) refreshToken(r *http.Request) (string, error) {
	return httpx.RequiredCookie(r, p.Name(domain.RefreshTokenCookie), domain.MsgAuthenticationRequired)
}

func (p CookiePolicy) synchronize(r *http.Request) (string, error) {
	return httpx.RequiredCookie(r, p.Name(domain.SynchronizeCookie), domain.MsgSynchronizeInvalid)
}
