package httpx

import (
	"net/http"
	"strings"
	"time"
)

// CookieOptions are the attributes shared by a family of cookies.
type CookieOptions struct {
	// Domain is omitted from the cookie when empty or "localhost", since
	// browsers reject an explicit localhost domain.
	Domain   string
	Path     string
	Secure   bool
	SameSite http.SameSite
}

func (o CookieOptions) base(name, value string, httpOnly bool) *http.Cookie {
	path := o.Path
	if path == "" {
		path = "/"
	}

	ck := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		HttpOnly: httpOnly,
		Secure:   o.Secure,
		SameSite: o.SameSite,
	}
	if d := strings.TrimSpace(o.Domain); d != "" && !strings.EqualFold(d, "localhost") {
		ck.Domain = d
	}
	return ck
}

// Build returns a cookie that lives for ttl (rounded down to whole seconds).
func (o CookieOptions) Build(name, value string, ttl time.Duration, httpOnly bool) *http.Cookie {
	ck := o.base(name, value, httpOnly)
	if ttl > 0 {
		ck.MaxAge = int(ttl.Seconds())
		ck.Expires = time.Now().Add(ttl).UTC()
	}
	return ck
}

// Expire returns a cookie that tells the browser to drop name immediately.
// Attributes must match the ones it was set with or browsers keep the old one.
func (o CookieOptions) Expire(name string, httpOnly bool) *http.Cookie {
	ck := o.base(name, "", httpOnly)
	ck.MaxAge = -1
	ck.Expires = time.Unix(0, 0).UTC()
	return ck
}

// NamedCookie returns the value of an optional cookie. Empty values count
// as absent.
func NamedCookie(r *http.Request, name string) (string, bool) {
	ck, err := r.Cookie(name)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}

// MissingCookieError is returned by RequiredCookie. It renders as a 401.
type MissingCookieError struct {
	Name    string
	Message string
}

func (e *MissingCookieError) Error() string {
	return "httpx: required cookie " + e.Name + " not present"
}

func (e *MissingCookieError) StatusCode() int              { return http.StatusUnauthorized }
func (e *MissingCookieError) PublicMessage() string        { return e.Message }
func (e *MissingCookieError) ErrorDetails() map[string]any { return map[string]any{"cookie": e.Name} }

// RequiredCookie returns the value of a cookie the request cannot proceed
// without. When it is absent the error carries message as the 401 body.
func RequiredCookie(r *http.Request, name, message string) (string, error) {
	v, ok := NamedCookie(r, name)
	if !ok {
		return "", &MissingCookieError{Name: name, Message: message}
	}
	return v, nil
}
