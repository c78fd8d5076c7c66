package service

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/chatauth/internal/auth/domain"
	"github.com/aussiebroadwan/chatauth/internal/auth/metrics"
	"github.com/aussiebroadwan/chatauth/pkg/slogx"
)

const sessionService = "session"

// IdentityProvider is the provider adapter as the session layer sees it.
type IdentityProvider interface {
	SignUpUser(ctx context.Context, in domain.SignUpInput) (domain.SignUpResult, error)
	ConfirmSignUp(ctx context.Context, email, code string) error
	ResendConfirmationCode(ctx context.Context, email string) error
	SignInUser(ctx context.Context, email, password string) (domain.SignInResult, error)
	SignOutUser(ctx context.Context, accessToken string) error
	RefreshToken(ctx context.Context, refreshToken, username string) (domain.Tokens, error)
	ForgotPassword(ctx context.Context, email string) error
	ConfirmForgotPassword(ctx context.Context, in domain.ConfirmForgotPasswordInput) error
	GetAuthUser(ctx context.Context, accessToken string) (domain.AuthUser, error)
}

// UsernameCipher seals the provider username into the synchronize cookie.
type UsernameCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// SessionService drives register, confirm, login, refresh, logout and
// current-user lookups. Every step is sequential and there is no retry;
// a failed provider call is reported once.
type SessionService struct {
	IDP     IdentityProvider
	Users   *UserService
	Cipher  UsernameCipher
	Metrics *metrics.Metrics
}

func (s *SessionService) record(op string, err *error) {
	outcome := "success"
	if *err != nil {
		outcome = "error"
		if appErr, ok := domain.AsAppError(*err); ok {
			outcome = string(appErr.Type)
		}
	}
	s.Metrics.IncSession(op, outcome)
}

// Register creates the provider identity and the local user for it.
func (s *SessionService) Register(ctx context.Context, in domain.SignUpInput) (_ domain.User, err error) {
	defer s.record("register", &err)
	in.Email = normalizeEmail(in.Email)

	_, err = s.Users.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return domain.User{}, domain.NewConflictError(sessionService, "user already exists")
	case !domain.IsType(err, domain.NotFoundError):
		return domain.User{}, err
	}

	res, err := s.IDP.SignUpUser(ctx, in)
	if err != nil {
		return domain.User{}, err
	}
	if res.SubjectID == "" {
		return domain.User{}, domain.NewValidationError(sessionService, "no user id returned")
	}

	u, err := s.Users.CreateUser(ctx, domain.User{
		ID:         res.SubjectID,
		Email:      in.Email,
		GivenName:  in.GivenName,
		FamilyName: in.FamilyName,
	})
	if err != nil {
		// The provider already has this identity and nothing undoes that.
		s.Metrics.IncOrphanedIdentity()
		slogx.FromContext(ctx).Error("orphaned provider identity",
			"subject_id", res.SubjectID,
			"error", err,
		)
		return domain.User{}, err
	}
	return u, nil
}

// ConfirmRegistration confirms the provider sign-up and marks the local
// user's email as verified.
func (s *SessionService) ConfirmRegistration(ctx context.Context, email, code string) (err error) {
	defer s.record("confirm_registration", &err)
	email = normalizeEmail(email)

	if err = s.IDP.ConfirmSignUp(ctx, email, code); err != nil {
		return err
	}

	u, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	verified := true
	_, err = s.Users.UpdateUser(ctx, u.ID, domain.UserUpdate{EmailVerified: &verified})
	return err
}

// ResendConfirmationCode asks the provider to send a new sign-up code.
func (s *SessionService) ResendConfirmationCode(ctx context.Context, email string) (err error) {
	defer s.record("resend_confirmation_code", &err)
	return s.IDP.ResendConfirmationCode(ctx, normalizeEmail(email))
}

// Login signs in with the provider, makes sure a local user exists and
// returns everything the three session cookies need.
func (s *SessionService) Login(ctx context.Context, email, password string) (_ domain.Session, err error) {
	defer s.record("login", &err)
	email = normalizeEmail(email)

	res, err := s.IDP.SignInUser(ctx, email, password)
	if err != nil {
		return domain.Session{}, err
	}
	if err = checkTokens(res.Tokens, true); err != nil {
		return domain.Session{}, err
	}
	if res.SubjectID == "" || res.Username == "" {
		return domain.Session{}, domain.NewInternalError(sessionService, "subject id missing from response", nil)
	}

	sync, err := s.Cipher.Encrypt(res.Username)
	if err != nil {
		return domain.Session{}, domain.NewInternalError(sessionService, "failed to seal session", err)
	}

	u, err := s.Users.RegisterOrLoginUserByID(ctx, domain.User{ID: res.SubjectID, Email: email})
	if err != nil {
		return domain.Session{}, err
	}

	slogx.FromContext(ctx).Info("user logged in", "user_id", u.ID)
	return domain.Session{
		Tokens:      res.Tokens,
		Synchronize: sync,
	}, nil
}

// Refresh trades a refresh token for a new access token. The synchronize
// value is the cookie as received; it is decrypted to recover the provider
// username and handed back unchanged. When the provider does not rotate the
// refresh token the one passed in is kept.
func (s *SessionService) Refresh(ctx context.Context, refreshToken, synchronize string) (_ domain.Session, err error) {
	defer s.record("refresh", &err)

	username, err := s.Cipher.Decrypt(synchronize)
	if err != nil || username == "" {
		return domain.Session{}, domain.NewUnauthorizedError(sessionService, domain.MsgSynchronizeInvalid)
	}

	tokens, err := s.IDP.RefreshToken(ctx, refreshToken, username)
	if err != nil {
		return domain.Session{}, err
	}
	if err = checkTokens(tokens, false); err != nil {
		return domain.Session{}, err
	}
	if tokens.RefreshToken == "" {
		tokens.RefreshToken = refreshToken
	}

	return domain.Session{
		Tokens:      tokens,
		Synchronize: synchronize,
	}, nil
}

// Logout signs the access token owner out at the provider. It never fails:
// a token the provider already rejects, or a provider fault, is logged and
// counted under its own outcome.
func (s *SessionService) Logout(ctx context.Context, accessToken string) error {
	err := s.IDP.SignOutUser(ctx, accessToken)
	if err == nil {
		s.Metrics.IncSession("logout", "success")
		return nil
	}

	// The cookies are already gone; the client is logged out either way.
	logger := slogx.FromContext(ctx)
	if appErr, ok := domain.AsAppError(err); ok && appErr.StatusCode() == http.StatusUnauthorized {
		logger.Info("logout with an already invalid access token", "type", appErr.Type)
		s.Metrics.IncSession("logout", "token_invalid")
		return nil
	}
	logger.Error("provider sign out failed, session cookies cleared", "error", err)
	s.Metrics.IncSession("logout", "provider_error")
	return nil
}

// GetAuthUser returns the profile behind accessToken. A provider record
// without an email is a PartialContentError.
func (s *SessionService) GetAuthUser(ctx context.Context, accessToken string) (_ domain.AuthProfile, err error) {
	defer s.record("get_auth_user", &err)

	u, err := s.IDP.GetAuthUser(ctx, accessToken)
	if err != nil {
		return domain.AuthProfile{}, err
	}
	if u.SubjectID == "" {
		return domain.AuthProfile{}, domain.NewNotFoundError(sessionService, "user not found")
	}

	email, ok := u.Attributes.Get("email")
	if !ok || email == "" {
		return domain.AuthProfile{}, domain.NewPartialContentError(sessionService, domain.MsgProfileIncomplete)
	}
	verified, _ := u.Attributes.Get("email_verified")

	return domain.AuthProfile{
		ID:            u.SubjectID,
		Email:         email,
		EmailVerified: verified == "true",
	}, nil
}

// ForgotPassword asks the provider to send a reset code.
func (s *SessionService) ForgotPassword(ctx context.Context, email string) (err error) {
	defer s.record("forgot_password", &err)
	return s.IDP.ForgotPassword(ctx, normalizeEmail(email))
}

// ConfirmForgotPassword sets a new password with a reset code.
func (s *SessionService) ConfirmForgotPassword(ctx context.Context, in domain.ConfirmForgotPasswordInput) (err error) {
	defer s.record("confirm_forgot_password", &err)
	in.Email = normalizeEmail(in.Email)
	return s.IDP.ConfirmForgotPassword(ctx, in)
}

// checkTokens rejects provider responses with missing tokens instead of
// letting empty values reach a cookie.
func checkTokens(t domain.Tokens, needRefresh bool) error {
	if t.AccessToken == "" || t.ExpiresIn <= 0 || (needRefresh && t.RefreshToken == "") {
		return domain.NewInternalError(sessionService, domain.MsgTokensMissing, nil)
	}
	return nil
}
