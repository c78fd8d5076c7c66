package authsdk

import (
	"context"
	"net/http"
)

// Register creates an account. The account must be confirmed with the
// emailed code before Login succeeds.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	var out UserResponse
	if err := c.post(ctx, "/auth/register", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConfirmRegistration submits the sign-up confirmation code.
func (c *SDKClient) ConfirmRegistration(ctx context.Context, email, code string) error {
	return c.post(ctx, "/auth/confirm-registration",
		ConfirmRegistrationRequest{Email: email, Code: code}, nil, http.StatusOK)
}

// ResendConfirmationCode asks for a new sign-up confirmation code.
func (c *SDKClient) ResendConfirmationCode(ctx context.Context, email string) error {
	return c.post(ctx, "/auth/resend-confirmation-code",
		EmailRequest{Email: email}, nil, http.StatusOK)
}

// Login starts a session. On success the jar holds the access token,
// refresh token and synchronize cookies.
func (c *SDKClient) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	err := c.post(ctx, "/auth/login",
		LoginRequest{Email: email, Password: password}, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh trades the refresh token and synchronize cookies in the jar for a
// new access token.
func (c *SDKClient) Refresh(ctx context.Context) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.post(ctx, "/auth/refresh", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout ends the session. The service clears all session cookies whether
// or not the provider still knew the token.
func (c *SDKClient) Logout(ctx context.Context) error {
	return c.post(ctx, "/auth/logout", nil, nil, http.StatusOK)
}

// ForgotPassword asks for a password reset code.
func (c *SDKClient) ForgotPassword(ctx context.Context, email string) error {
	return c.post(ctx, "/auth/forgot-password",
		EmailRequest{Email: email}, nil, http.StatusOK)
}

// ConfirmForgotPassword sets a new password with a reset code.
func (c *SDKClient) ConfirmForgotPassword(ctx context.Context, req ConfirmForgotPasswordRequest) error {
	return c.post(ctx, "/auth/confirm-forgot-password", req, nil, http.StatusOK)
}

// CurrentUser returns the profile of the session's user. A profile without
// an email comes back as an *APIError with status 206; see IsPartialContent.
func (c *SDKClient) CurrentUser(ctx context.Context) (*AuthUserResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/auth/user", nil)
	if err != nil {
		return nil, err
	}

	var out AuthUserResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
