package authsdk

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// Cookie name suffixes. The full name is "<prefix>-<suffix>".
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
	SynchronizeCookie  = "synchronize"
)

// SDKClient is a client for the chat auth service. The session lives in the
// client's cookie jar exactly as it would in a browser, so a client is one
// user session and is not meant to be shared between users.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	// CookiePrefix must match the service's COOKIE_PREFIX.
	CookiePrefix string
}

// NewSDKClient creates a client with its own cookie jar.
func NewSDKClient(baseURL, cookiePrefix string) *SDKClient {
	jar, _ := cookiejar.New(nil) // only fails with a non-nil options PublicSuffixList
	return &SDKClient{
		BaseURL:      strings.TrimSuffix(baseURL, "/"),
		CookiePrefix: cookiePrefix,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
		},
	}
}

// CookieName returns the full cookie name for a suffix such as
// AccessTokenCookie.
func (c *SDKClient) CookieName(suffix string) string {
	return c.CookiePrefix + "-" + suffix
}

// Cookie returns the current jar value of a session cookie. HttpOnly cookies
// are visible here; only browser scripts are kept from them.
func (c *SDKClient) Cookie(suffix string) (string, bool) {
	if c.HTTPClient.Jar == nil {
		return "", false
	}
	u, err := url.Parse(c.BaseURL + "/")
	if err != nil {
		return "", false
	}

	name := c.CookieName(suffix)
	for _, ck := range c.HTTPClient.Jar.Cookies(u) {
		if ck.Name == name && ck.Value != "" {
			return ck.Value, true
		}
	}
	return "", false
}

// SetCookie places a session cookie in the jar, e.g. to resume a session
// or to simulate a client that lost one of its cookies.
func (c *SDKClient) SetCookie(suffix, value string) error {
	u, err := url.Parse(c.BaseURL + "/")
	if err != nil {
		return err
	}
	ck := &http.Cookie{Name: c.CookieName(suffix), Value: value, Path: "/"}
	if value == "" {
		ck.MaxAge = -1
	}
	c.HTTPClient.Jar.SetCookies(u, []*http.Cookie{ck})
	return nil
}
