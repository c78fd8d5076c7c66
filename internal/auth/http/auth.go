package http

import (
	"net/http"

	"github.com/aussiebroadwan/chatauth/internal/auth/service"
	"github.com/aussiebroadwan/chatauth/pkg/authsdk"
	"github.com/aussiebroadwan/chatauth/pkg/httpx"
	"github.com/aussiebroadwan/chatauth/pkg/slogx"
)

// AuthHandler serves the /auth routes. Each method translates one request
// into one SessionService call and writes cookies from the result.
type AuthHandler struct {
	Session *service.SessionService
	Cookies CookiePolicy

	// Verbose adds error details (type, service, cause) to error bodies.
	Verbose bool
}

func (h *AuthHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	slogx.FromContext(r.Context()).Debug("auth request failed", "err", err)
	httpx.WriteError(w, err, h.Verbose)
}

func tokensResponse(at, rt string, expiresIn int32) authsdk.TokensResponse {
	return authsdk.TokensResponse{
		AccessToken:  at,
		RefreshToken: rt,
		ExpiresIn:    int(expiresIn),
	}
}
