package identity

import (
	"context"
	"strings"
	"time"

	"github.com/aussiebroadwan/chatauth/internal/auth/domain"
	"github.com/aussiebroadwan/chatauth/internal/auth/metrics"
	"github.com/aussiebroadwan/chatauth/pkg/slogx"
	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"golang.org/x/sync/singleflight"
)

// lookupTimeout bounds a shared email lookup, which runs detached from the
// request that started it.
const lookupTimeout = 10 * time.Second

// CognitoAPI is the subset of the user pool client the adapter calls.
// *cognitoidentityprovider.Client satisfies it, and so does localpool.Pool.
type CognitoAPI interface {
	SignUp(ctx context.Context, params *cip.SignUpInput, optFns ...func(*cip.Options)) (*cip.SignUpOutput, error)
	ConfirmSignUp(ctx context.Context, params *cip.ConfirmSignUpInput, optFns ...func(*cip.Options)) (*cip.ConfirmSignUpOutput, error)
	ResendConfirmationCode(ctx context.Context, params *cip.ResendConfirmationCodeInput, optFns ...func(*cip.Options)) (*cip.ResendConfirmationCodeOutput, error)
	InitiateAuth(ctx context.Context, params *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error)
	GlobalSignOut(ctx context.Context, params *cip.GlobalSignOutInput, optFns ...func(*cip.Options)) (*cip.GlobalSignOutOutput, error)
	ForgotPassword(ctx context.Context, params *cip.ForgotPasswordInput, optFns ...func(*cip.Options)) (*cip.ForgotPasswordOutput, error)
	ConfirmForgotPassword(ctx context.Context, params *cip.ConfirmForgotPasswordInput, optFns ...func(*cip.Options)) (*cip.ConfirmForgotPasswordOutput, error)
	GetUser(ctx context.Context, params *cip.GetUserInput, optFns ...func(*cip.Options)) (*cip.GetUserOutput, error)
	ListUsers(ctx context.Context, params *cip.ListUsersInput, optFns ...func(*cip.Options)) (*cip.ListUsersOutput, error)
}

// Config identifies the user pool and app client.
type Config struct {
	UserPoolID string
	ClientID   string
	// ClientSecret is optional; without it no SECRET_HASH is sent.
	ClientSecret string
}

// Adapter turns session-level calls into user pool API calls.
type Adapter struct {
	api     CognitoAPI
	cfg     Config
	metrics *metrics.Metrics
	lookups singleflight.Group
}

// NewAdapter wraps api. m may be nil.
func NewAdapter(api CognitoAPI, cfg Config, m *metrics.Metrics) *Adapter {
	return &Adapter{api: api, cfg: cfg, metrics: m}
}

func (a *Adapter) secretHash(username string) *string {
	if a.cfg.ClientSecret == "" {
		return nil
	}
	return aws.String(ComputeSecretHash(a.cfg.ClientSecret, username, a.cfg.ClientID))
}

// done records the call and maps err.
func (a *Adapter) done(ctx context.Context, op string, start time.Time, err error) error {
	a.metrics.ObserveProviderCall(op, start)
	if err == nil {
		return nil
	}

	appErr := mapProviderError(err)
	a.metrics.IncProviderError(op, string(appErr.Type))
	slogx.FromContext(ctx).Debug("identity provider call failed",
		"operation", op,
		"type", appErr.Type,
		"status", appErr.StatusCode(),
	)
	return appErr
}

// SignUpUser registers email with the provider.
func (a *Adapter) SignUpUser(ctx context.Context, in domain.SignUpInput) (domain.SignUpResult, error) {
	if in.Password != in.ConfirmPassword {
		return domain.SignUpResult{}, domain.NewValidationError(serviceName, "passwords do not match")
	}

	attrs := []types.AttributeType{{Name: aws.String("email"), Value: aws.String(in.Email)}}
	if in.GivenName != "" {
		attrs = append(attrs, types.AttributeType{Name: aws.String("given_name"), Value: aws.String(in.GivenName)})
	}
	if in.FamilyName != "" {
		attrs = append(attrs, types.AttributeType{Name: aws.String("family_name"), Value: aws.String(in.FamilyName)})
	}

	start := time.Now()
	out, err := a.api.SignUp(ctx, &cip.SignUpInput{
		ClientId:       aws.String(a.cfg.ClientID),
		Username:       aws.String(in.Email),
		Password:       aws.String(in.Password),
		SecretHash:     a.secretHash(in.Email),
		UserAttributes: attrs,
	})
	if err := a.done(ctx, "sign_up", start, err); err != nil {
		return domain.SignUpResult{}, err
	}

	return domain.SignUpResult{
		SubjectID: aws.ToString(out.UserSub),
		Confirmed: out.UserConfirmed,
	}, nil
}

// ConfirmSignUp confirms the registration of the user owning email.
func (a *Adapter) ConfirmSignUp(ctx context.Context, email, code string) error {
	u, err := a.FindUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	start := time.Now()
	_, err = a.api.ConfirmSignUp(ctx, &cip.ConfirmSignUpInput{
		ClientId:         aws.String(a.cfg.ClientID),
		Username:         aws.String(u.Username),
		ConfirmationCode: aws.String(code),
		SecretHash:       a.secretHash(u.Username),
	})
	return a.done(ctx, "confirm_sign_up", start, err)
}

// ResendConfirmationCode sends a new confirmation code to email.
func (a *Adapter) ResendConfirmationCode(ctx context.Context, email string) error {
	u, err := a.FindUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	start := time.Now()
	_, err = a.api.ResendConfirmationCode(ctx, &cip.ResendConfirmationCodeInput{
		ClientId:   aws.String(a.cfg.ClientID),
		Username:   aws.String(u.Username),
		SecretHash: a.secretHash(u.Username),
	})
	return a.done(ctx, "resend_confirmation_code", start, err)
}

// SignInUser runs the USER_PASSWORD_AUTH flow. Token presence is not checked
// here; the session layer treats missing tokens as an internal error.
func (a *Adapter) SignInUser(ctx context.Context, email, password string) (domain.SignInResult, error) {
	u, err := a.FindUserByEmail(ctx, email)
	if err != nil {
		return domain.SignInResult{}, err
	}

	params := map[string]string{
		"USERNAME": u.Username,
		"PASSWORD": password,
	}
	if h := a.secretHash(u.Username); h != nil {
		params["SECRET_HASH"] = *h
	}

	start := time.Now()
	out, err := a.api.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow:       types.AuthFlowTypeUserPasswordAuth,
		ClientId:       aws.String(a.cfg.ClientID),
		AuthParameters: params,
	})
	if err := a.done(ctx, "sign_in", start, err); err != nil {
		return domain.SignInResult{}, err
	}
	if out.ChallengeName != "" {
		return domain.SignInResult{}, &domain.AppError{
			Type:    domain.UnauthorizedError,
			Message: "additional authentication challenge required",
			Service: serviceName,
			Details: map[string]any{"challenge": string(out.ChallengeName)},
		}
	}

	sub, _ := u.Attributes.Get("sub")
	return domain.SignInResult{
		Tokens:    tokensFrom(out.AuthenticationResult),
		SubjectID: sub,
		Username:  u.Username,
	}, nil
}

// SignOutUser signs the token owner out of every device.
func (a *Adapter) SignOutUser(ctx context.Context, accessToken string) error {
	start := time.Now()
	_, err := a.api.GlobalSignOut(ctx, &cip.GlobalSignOutInput{
		AccessToken: aws.String(accessToken),
	})
	return a.done(ctx, "sign_out", start, err)
}

// RefreshToken runs the REFRESH_TOKEN_AUTH flow. The returned RefreshToken is
// empty when the provider did not rotate it.
func (a *Adapter) RefreshToken(ctx context.Context, refreshToken, username string) (domain.Tokens, error) {
	params := map[string]string{
		"REFRESH_TOKEN": refreshToken,
	}
	if h := a.secretHash(username); h != nil {
		params["SECRET_HASH"] = *h
	}

	start := time.Now()
	out, err := a.api.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow:       types.AuthFlowTypeRefreshTokenAuth,
		ClientId:       aws.String(a.cfg.ClientID),
		AuthParameters: params,
	})
	if err := a.done(ctx, "refresh", start, err); err != nil {
		return domain.Tokens{}, err
	}

	return tokensFrom(out.AuthenticationResult), nil
}

// ForgotPassword sends a password reset code to email.
func (a *Adapter) ForgotPassword(ctx context.Context, email string) error {
	u, err := a.FindUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	start := time.Now()
	_, err = a.api.ForgotPassword(ctx, &cip.ForgotPasswordInput{
		ClientId:   aws.String(a.cfg.ClientID),
		Username:   aws.String(u.Username),
		SecretHash: a.secretHash(u.Username),
	})
	return a.done(ctx, "forgot_password", start, err)
}

// ConfirmForgotPassword sets a new password using a reset code.
func (a *Adapter) ConfirmForgotPassword(ctx context.Context, in domain.ConfirmForgotPasswordInput) error {
	if in.NewPassword != in.ConfirmPassword {
		return domain.NewValidationError(serviceName, "passwords do not match")
	}

	u, err := a.FindUserByEmail(ctx, in.Email)
	if err != nil {
		return err
	}

	start := time.Now()
	_, err = a.api.ConfirmForgotPassword(ctx, &cip.ConfirmForgotPasswordInput{
		ClientId:         aws.String(a.cfg.ClientID),
		Username:         aws.String(u.Username),
		ConfirmationCode: aws.String(in.Code),
		Password:         aws.String(in.NewPassword),
		SecretHash:       a.secretHash(u.Username),
	})
	return a.done(ctx, "confirm_forgot_password", start, err)
}

// GetAuthUser returns the owner of accessToken.
func (a *Adapter) GetAuthUser(ctx context.Context, accessToken string) (domain.AuthUser, error) {
	start := time.Now()
	out, err := a.api.GetUser(ctx, &cip.GetUserInput{
		AccessToken: aws.String(accessToken),
	})
	if err := a.done(ctx, "get_user", start, err); err != nil {
		return domain.AuthUser{}, err
	}

	attrs := attributesFrom(out.UserAttributes)
	sub, _ := attrs.Get("sub")
	return domain.AuthUser{
		SubjectID:  sub,
		Username:   aws.ToString(out.Username),
		Attributes: attrs,
	}, nil
}

// FindUserByEmail looks a user up by email. The pool is keyed by username,
// so this is a filtered list. Concurrent lookups for the same email share
// one call; each caller still waits only as long as its own ctx allows.
func (a *Adapter) FindUserByEmail(ctx context.Context, email string) (domain.ProviderUser, error) {
	key := strings.ToLower(strings.TrimSpace(email))

	ch := a.lookups.DoChan(key, func() (any, error) {
		// The call outlives whichever caller started it.
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupTimeout)
		defer cancel()
		return a.listUserByEmail(callCtx, email)
	})

	select {
	case <-ctx.Done():
		return domain.ProviderUser{}, mapProviderError(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return domain.ProviderUser{}, res.Err
		}
		return res.Val.(domain.ProviderUser), nil
	}
}

func (a *Adapter) listUserByEmail(ctx context.Context, email string) (domain.ProviderUser, error) {
	start := time.Now()
	out, err := a.api.ListUsers(ctx, &cip.ListUsersInput{
		UserPoolId: aws.String(a.cfg.UserPoolID),
		Filter:     aws.String(EmailFilter(email)),
		Limit:      aws.Int32(1),
	})
	if err := a.done(ctx, "list_users", start, err); err != nil {
		return domain.ProviderUser{}, err
	}
	if len(out.Users) == 0 {
		return domain.ProviderUser{}, domain.NewNotFoundError(serviceName, "user not found")
	}

	u := out.Users[0]
	pu := domain.ProviderUser{
		Username:   aws.ToString(u.Username),
		Attributes: attributesFrom(u.Attributes),
	}
	if pu.Username == "" {
		return domain.ProviderUser{}, domain.NewNotFoundError(serviceName, "user record has no username")
	}
	if _, ok := pu.Attributes.Get("email"); !ok {
		return domain.ProviderUser{}, domain.NewNotFoundError(serviceName, "user record has no email")
	}
	return pu, nil
}

// EmailFilter builds a ListUsers filter matching email exactly.
func EmailFilter(email string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `email = "` + r.Replace(strings.TrimSpace(email)) + `"`
}

func tokensFrom(res *types.AuthenticationResultType) domain.Tokens {
	if res == nil {
		return domain.Tokens{}
	}
	return domain.Tokens{
		AccessToken:  aws.ToString(res.AccessToken),
		RefreshToken: aws.ToString(res.RefreshToken),
		ExpiresIn:    res.ExpiresIn,
	}
}

func attributesFrom(in []types.AttributeType) domain.Attributes {
	out := make(domain.Attributes, 0, len(in))
	for _, a := range in {
		out = append(out, domain.Attribute{Name: aws.ToString(a.Name), Value: aws.ToString(a.Value)})
	}
	return out
}
