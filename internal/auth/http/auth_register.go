package http

import (
	"net/http"

	"github.com/aussiebroadwan/chatauth/internal/auth/domain"
	"github.com/aussiebroadwan/chatauth/pkg/authsdk"
	"github.com/aussiebroadwan/chatauth/pkg/httpx"
)

// HandleRegister creates the provider identity and the local user.
//
//	@Summary		Register a new account
//	@Description	Signs the email up with the identity provider and creates the local user keyed by the provider subject id. The account is unverified until confirmed.
//	@Tags			Registration
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest	true	"Email, password and confirmation"
//	@Success		201		{object}	authsdk.UserResponse	"Created user id and email"
//	@Failure		400		{object}	authsdk.MessageResponse	"Invalid body, passwords do not match, or no user id returned"
//	@Failure		409		{object}	authsdk.MessageResponse	"User already exists"
//	@Failure		429		{object}	authsdk.MessageResponse	"Too many requests"
//	@Failure		500		{object}	authsdk.MessageResponse	"Internal server error"
//	@Router			/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	u, err := h.Session.Register(r.Context(), domain.SignUpInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		GivenName:       req.GivenName,
		FamilyName:      req.FamilyName,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.UserResponse{ID: u.ID, Email: u.Email})
}

// HandleConfirmRegistration confirms the sign-up code and verifies the email.
//
//	@Summary		Confirm registration
//	@Description	Confirms the sign-up with the emailed code and marks the local user's email as verified.
//	@Tags			Registration
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.ConfirmRegistrationRequest	true	"Email and confirmation code"
//	@Success		200		{object}	authsdk.MessageResponse				"Registration confirmed"
//	@Failure		400		{object}	authsdk.MessageResponse				"Invalid body or wrong code"
//	@Failure		404		{object}	authsdk.MessageResponse				"User not found"
//	@Failure		429		{object}	authsdk.MessageResponse				"Too many requests"
//	@Router			/auth/confirm-registration [post].
func (h *AuthHandler) HandleConfirmRegistration(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ConfirmRegistrationRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.Session.ConfirmRegistration(r.Context(), req.Email, req.Code); err != nil {
		h.fail(w, r, err)
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "Registration confirmed")
}

// HandleResendConfirmationCode sends a fresh sign-up code.
//
//	@Summary		Resend confirmation code
//	@Tags			Registration
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.EmailRequest	true	"Email"
//	@Success		200		{object}	authsdk.MessageResponse	"Code sent"
//	@Failure		400		{object}	authsdk.MessageResponse	"Invalid body or already confirmed"
//	@Failure		404		{object}	authsdk.MessageResponse	"User not found"
//	@Failure		429		{object}	authsdk.MessageResponse	"Too many requests"
//	@Router			/auth/resend-confirmation-code [post].
func (h *AuthHandler) HandleResendConfirmationCode(w http.ResponseWriter, r *http.Request) {
	var req authsdk.EmailRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.Session.ResendConfirmationCode(r.Context(), req.Email); err != nil {
		h.fail(w, r, err)
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "Confirmation code sent")
}
