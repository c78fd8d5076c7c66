package http

import (
	"net/http"

	"github.com/aussiebroadwan/chatauth/internal/auth/domain"
	"github.com/aussiebroadwan/chatauth/pkg/authsdk"
	"github.com/aussiebroadwan/chatauth/pkg/httpx"
)

// HandleForgotPassword sends a password reset code.
//
//	@Summary		Request a password reset
//	@Tags			Password
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.EmailRequest	true	"Email"
//	@Success		200		{object}	authsdk.MessageResponse	"Reset code sent"
//	@Failure		400		{object}	authsdk.MessageResponse	"Invalid body"
//	@Failure		404		{object}	authsdk.MessageResponse	"User not found"
//	@Failure		429		{object}	authsdk.MessageResponse	"Too many requests"
//	@Router			/auth/forgot-password [post].
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req authsdk.EmailRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.Session.ForgotPassword(r.Context(), req.Email); err != nil {
		h.fail(w, r, err)
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "Password reset code sent")
}

// HandleConfirmForgotPassword sets a new password with a reset code.
//
//	@Summary		Reset the password
//	@Description	Sets a new password using the emailed reset code. The two password fields must match; a mismatch is rejected before the identity provider is called.
//	@Tags			Password
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.ConfirmForgotPasswordRequest	true	"Email, code and new password"
//	@Success		200		{object}	authsdk.MessageResponse					"Password reset"
//	@Failure		400		{object}	authsdk.MessageResponse					"Invalid body, passwords do not match, or wrong code"
//	@Failure		404		{object}	authsdk.MessageResponse					"User not found"
//	@Failure		429		{object}	authsdk.MessageResponse					"Too many requests"
//	@Router			/auth/confirm-forgot-password [post].
func (h *AuthHandler) HandleConfirmForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ConfirmForgotPasswordRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	err := h.Session.ConfirmForgotPassword(r.Context(), domain.ConfirmForgotPasswordInput{
		Email:           req.Email,
		Code:            req.Code,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "Password reset")
}
