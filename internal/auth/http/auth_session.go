package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/chatauth/pkg/authsdk"
	"github.com/aussiebroadwan/chatauth/pkg/httpx"
	"github.com/aussiebroadwan/chatauth/pkg/slogx"
)

// unauthenticated answers a request that arrived without a session cookie.
// It is a plain 401, not an error pipeline entry.
func unauthenticated(w http.ResponseWriter, r *http.Request, err error) {
	msg := err.Error()
	var missing *httpx.MissingCookieError
	if errors.As(err, &missing) {
		msg = missing.PublicMessage()
		slogx.FromContext(r.Context()).Debug("session cookie missing", "cookie", missing.Name)
	}
	httpx.WriteMessage(w, http.StatusUnauthorized, msg)
}

// HandleLogin signs in and sets the three session cookies.
//
//	@Summary		Log in
//	@Description	Signs in with the identity provider, creates the local user on first login and sets the access token, refresh token and synchronize cookies.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"Email and password"
//	@Success		200		{object}	authsdk.LoginResponse	"Tokens, also set as cookies"
//	@Failure		400		{object}	authsdk.MessageResponse	"Invalid body"
//	@Failure		401		{object}	authsdk.MessageResponse	"Incorrect username or password"
//	@Failure		403		{object}	authsdk.MessageResponse	"User is not confirmed"
//	@Failure		404		{object}	authsdk.MessageResponse	"User not found"
//	@Failure		429		{object}	authsdk.MessageResponse	"Too many requests"
//	@Failure		500		{object}	authsdk.MessageResponse	"Tokens missing from provider response"
//	@Router			/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	sess, err := h.Session.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.Cookies.SetSession(w, sess)
	httpx.WriteJSON(w, http.StatusOK, authsdk.LoginResponse{
		Message: "Login successful",
		Tokens:  tokensResponse(sess.AccessToken, sess.RefreshToken, sess.ExpiresIn),
	})
}

// HandleRefresh trades the refresh token for a new access token.
//
//	@Summary		Refresh the session
//	@Description	Uses the refresh token and synchronize cookies to get a new access token. All three cookies are set again; the refresh token is kept when the provider does not issue a new one.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	authsdk.LoginResponse	"New tokens, also set as cookies"
//	@Failure		401	{object}	authsdk.MessageResponse	"Refresh token or synchronize cookie missing or invalid"
//	@Failure		429	{object}	authsdk.MessageResponse	"Too many requests"
//	@Failure		500	{object}	authsdk.MessageResponse	"Tokens missing from provider response"
//	@Router			/auth/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	refreshToken, err := h.Cookies.refreshToken(r)
	if err != nil {
		unauthenticated(w, r, err)
		return
	}
	sync, err := h.Cookies.synchronize(r)
	if err != nil {
		unauthenticated(w, r, err)
		return
	}

	sess, err := h.Session.Refresh(r.Context(), refreshToken, sync)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.Cookies.SetSession(w, sess)
	httpx.WriteJSON(w, http.StatusOK, authsdk.LoginResponse{
		Message: "Token refreshed",
		Tokens:  tokensResponse(sess.AccessToken, sess.RefreshToken, sess.ExpiresIn),
	})
}

// HandleLogout signs out globally and clears the session cookies.
//
//	@Summary		Log out
//	@Description	Signs the user out at the identity provider and clears all three session cookies. An access token the provider already rejects still logs out successfully.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	authsdk.MessageResponse	"Logged out"
//	@Failure		401	{object}	authsdk.MessageResponse	"Authentication required"
//	@Failure		429	{object}	authsdk.MessageResponse	"Too many requests"
//	@Router			/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	// Leftover refresh and synchronize cookies go too.
	h.Cookies.Clear(w)

	accessToken, err := h.Cookies.accessToken(r)
	if err != nil {
		unauthenticated(w, r, err)
		return
	}

	if err := h.Session.Logout(r.Context(), accessToken); err != nil {
		h.fail(w, r, err)
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "Logged out")
}

// HandleGetUser returns the current user's provider profile.
//
//	@Summary		Current user
//	@Description	Returns the id, email and verification state of the user owning the access token cookie. A provider profile without an email answers 206.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	authsdk.AuthUserResponse	"Current user"
//	@Success		206	{object}	authsdk.MessageResponse		"User profile incomplete"
//	@Failure		401	{object}	authsdk.MessageResponse		"Authentication required or token invalid"
//	@Failure		404	{object}	authsdk.MessageResponse		"User not found"
//	@Failure		429	{object}	authsdk.MessageResponse		"Too many requests"
//	@Router			/auth/user [get].
func (h *AuthHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	accessToken, err := h.Cookies.accessToken(r)
	if err != nil {
		unauthenticated(w, r, err)
		return
	}

	p, err := h.Session.GetAuthUser(r.Context(), accessToken)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.AuthUserResponse{
		ID:            p.ID,
		Email:         p.Email,
		EmailVerified: p.EmailVerified,
	})
}
