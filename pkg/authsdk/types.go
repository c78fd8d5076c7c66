package authsdk

// ============================================================================
// Request Types
// ============================================================================

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email,max=254"`
	Password        string `json:"password" validate:"required,min=8,max=256"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`

	// GivenName and FamilyName are optional profile fields forwarded to
	// the identity provider.
	GivenName  string `json:"givenName,omitempty" validate:"omitempty,max=128"`
	FamilyName string `json:"familyName,omitempty" validate:"omitempty,max=128"`
}

// ConfirmRegistrationRequest is the body of POST /auth/confirm-registration.
type ConfirmRegistrationRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
	Code  string `json:"code" validate:"required,max=64"`
}

// EmailRequest is the body of the routes that only need an address:
// POST /auth/resend-confirmation-code and POST /auth/forgot-password.
type EmailRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=256"`
}

// ConfirmForgotPasswordRequest is the body of POST /auth/confirm-forgot-password.
type ConfirmForgotPasswordRequest struct {
	Email           string `json:"email" validate:"required,email,max=254"`
	Code            string `json:"code" validate:"required,max=64"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=256"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// ============================================================================
// Response Types
// ============================================================================

// MessageResponse is returned by routes that have nothing to report beyond
// success, and by every error. Details is only present outside production.
type MessageResponse struct {
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// UserResponse is returned by POST /auth/register.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// TokensResponse carries the provider tokens. The same values are also set
// as cookies.
type TokensResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int `json:"expiresIn"`
}

// LoginResponse is returned by POST /auth/login and POST /auth/refresh.
type LoginResponse struct {
	Message string         `json:"message"`
	Tokens  TokensResponse `json:"tokens"`
}

// AuthUserResponse is returned by GET /auth/user.
type AuthUserResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports individual dependencies on /readyz.
type HealthChecks struct {
	Database         string `json:"database"`
	IdentityProvider string `json:"identity_provider"` // name of the provider backing the service
}
