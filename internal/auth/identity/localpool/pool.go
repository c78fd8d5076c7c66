// Package localpool is an in-memory user pool that speaks the same API
// subset as the managed identity provider. It backs dev, test and e2e runs.
package localpool

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/chatauth/internal/auth/identity"
	"github.com/aussiebroadwan/chatauth/pkg/cryptox"
	"github.com/aussiebroadwan/chatauth/pkg/jwtx"
	"github.com/aussiebroadwan/chatauth/pkg/slogx"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

const (
	DefaultRefreshTokenTTL     = 30 * 24 * time.Hour
	DefaultConfirmationCodeTTL = 24 * time.Hour
	DefaultResetCodeTTL        = time.Hour
	codeDigits                 = 6
	minPasswordLength          = 8
)

type Config struct {
	UserPoolID   string
	ClientID     string
	ClientSecret string

	// Issuer goes into minted access tokens. Defaults to "local://<pool id>".
	Issuer string

	// StaticCode, when set, is used for every confirmation and reset code.
	StaticCode string

	AccessTokenTTL      time.Duration
	RefreshTokenTTL     time.Duration
	ConfirmationCodeTTL time.Duration
	ResetCodeTTL        time.Duration

	// RotateRefreshTokens makes the refresh flow hand out a new refresh token
	// and retire the old one.
	RotateRefreshTokens bool
}

func (c *Config) applyDefaults() {
	if c.Issuer == "" {
		c.Issuer = "local://" + c.UserPoolID
	}
	if c.AccessTokenTTL <= 0 {
		c.AccessTokenTTL = jwtx.DefaultAccessTokenTTL
	}
	if c.RefreshTokenTTL <= 0 {
		c.RefreshTokenTTL = DefaultRefreshTokenTTL
	}
	if c.ConfirmationCodeTTL <= 0 {
		c.ConfirmationCodeTTL = DefaultConfirmationCodeTTL
	}
	if c.ResetCodeTTL <= 0 {
		c.ResetCodeTTL = DefaultResetCodeTTL
	}
}

type code struct {
	value   string
	expires time.Time
}

type user struct {
	username     string
	email        string
	passwordHash string
	status       types.UserStatusType
	enabled      bool
	attrs        map[string]string
	createdAt    time.Time
	updatedAt    time.Time
	confirmCode  *code
	resetCode    *code
}

type session struct {
	username string
	origin   string
	authTime time.Time
	expires  time.Time
}

var _ identity.CognitoAPI = (*Pool)(nil)

// passwordHasher is satisfied by *cryptox.PasswordHasher.
type passwordHasher interface {
	HashPassword(password string) (string, error)
	VerifyPassword(password, encodedHash string) error
}

// Pool is safe for concurrent use.
type Pool struct {
	mu  sync.Mutex
	cfg Config
	now func() time.Time

	hasher   passwordHasher
	signer   *jwtx.Signer
	verifier *jwtx.Verifier

	users   map[string]*user     // by username
	byEmail map[string]string    // lower(email) -> username
	refresh map[string]session   // refresh token fingerprint -> session
	revoked map[string]time.Time // origin jti -> when we can forget it
}

type Option func(*Pool)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Pool) { p.now = now }
}

// New builds an empty pool with a fresh signing key.
func New(cfg Config, opts ...Option) (*Pool, error) {
	if cfg.UserPoolID == "" || cfg.ClientID == "" {
		return nil, errors.New("localpool: user pool id and client id are required")
	}
	cfg.applyDefaults()

	hasher, err := cryptox.NewPasswordHasher()
	if err != nil {
		return nil, fmt.Errorf("localpool: password hasher: %w", err)
	}

	signer, err := jwtx.GenerateSigner()
	if err != nil {
		return nil, fmt.Errorf("localpool: signer: %w", err)
	}

	p := &Pool{
		cfg:      cfg,
		now:      time.Now,
		hasher:   hasher,
		signer:   signer,
		verifier: jwtx.NewVerifier(jwtx.NewKeySet(signer), cfg.Issuer, cfg.ClientID),
		users:    make(map[string]*user),
		byEmail:  make(map[string]string),
		refresh:  make(map[string]session),
		revoked:  make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Name identifies the pool in housekeeping logs.
func (p *Pool) Name() string { return "local_user_pool" }

// Sweep drops expired refresh tokens, codes and revocations. It returns the
// number of entries removed.
func (p *Pool) Sweep(now time.Time) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	removed := 0
	for fp, s := range p.refresh {
		if !now.Before(s.expires) {
			delete(p.refresh, fp)
			removed++
		}
	}
	for origin, until := range p.revoked {
		if !now.Before(until) {
			delete(p.revoked, origin)
			removed++
		}
	}
	for _, u := range p.users {
		if u.confirmCode != nil && !now.Before(u.confirmCode.expires) {
			u.confirmCode = nil
			removed++
		}
		if u.resetCode != nil && !now.Before(u.resetCode.expires) {
			u.resetCode = nil
			removed++
		}
	}
	return removed
}

// ConfirmationCode returns the pending sign-up code for email.
func (p *Pool) ConfirmationCode(email string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	u := p.lookup(email)
	if u == nil || u.confirmCode == nil {
		return "", false
	}
	return u.confirmCode.value, true
}

// ResetCode returns the pending password reset code for email.
func (p *Pool) ResetCode(email string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	u := p.lookup(email)
	if u == nil || u.resetCode == nil {
		return "", false
	}
	return u.resetCode.value, true
}

// lookup finds a user by username or email alias. Callers hold p.mu.
func (p *Pool) lookup(name string) *user {
	if u, ok := p.users[name]; ok {
		return u
	}
	if username, ok := p.byEmail[strings.ToLower(strings.TrimSpace(name))]; ok {
		return p.users[username]
	}
	return nil
}

func (p *Pool) checkClient(clientID *string) error {
	if aws.ToString(clientID) != p.cfg.ClientID {
		return &types.ResourceNotFoundException{
			Message: aws.String(fmt.Sprintf("User pool client %s does not exist.", aws.ToString(clientID))),
		}
	}
	return nil
}

func (p *Pool) checkSecretHash(username string, hash *string) error {
	if p.cfg.ClientSecret == "" {
		return nil
	}
	want := identity.ComputeSecretHash(p.cfg.ClientSecret, username, p.cfg.ClientID)
	if !cryptox.EqualTokens(want, aws.ToString(hash)) {
		return &types.NotAuthorizedException{
			Message: aws.String("Unable to verify secret hash for client " + p.cfg.ClientID),
		}
	}
	return nil
}

func (p *Pool) newCode(ctx context.Context, u *user, kind string, ttl time.Duration) (*code, error) {
	value := p.cfg.StaticCode
	if value == "" {
		var err error
		value, err = cryptox.GenerateNumericCode(codeDigits)
		if err != nil {
			return nil, &types.InternalErrorException{Message: aws.String(err.Error())}
		}
	}

	// Stands in for the email the managed provider would send.
	slogx.FromContext(ctx).Info("local pool code issued",
		"kind", kind,
		"username", u.username,
		"destination", maskEmail(u.email),
	)
	return &code{value: value, expires: p.now().Add(ttl)}, nil
}

// checkCode validates a one-time code and consumes it on success.
func checkCode(c **code, value string, now time.Time) error {
	if *c == nil || !now.Before((*c).expires) {
		return &types.ExpiredCodeException{
			Message: aws.String("Invalid code provided, please request a code again."),
		}
	}
	if !cryptox.EqualTokens((*c).value, value) {
		return &types.CodeMismatchException{
			Message: aws.String("Invalid verification code provided, please try again."),
		}
	}
	*c = nil
	return nil
}

func checkPasswordPolicy(pw string) error {
	if len(pw) < minPasswordLength {
		return &types.InvalidPasswordException{
			Message: aws.String("Password did not conform with policy: Password not long enough"),
		}
	}
	return nil
}

func (u *user) attributes() []types.AttributeType {
	// Stable order: sub first, then the rest as stored.
	out := []types.AttributeType{{Name: aws.String("sub"), Value: aws.String(u.attrs["sub"])}}
	for _, name := range []string{"email", "email_verified", "given_name", "family_name"} {
		if v, ok := u.attrs[name]; ok {
			out = append(out, types.AttributeType{Name: aws.String(name), Value: aws.String(v)})
		}
	}
	return out
}

func (u *user) deliveryDetails() *types.CodeDeliveryDetailsType {
	return &types.CodeDeliveryDetailsType{
		AttributeName:  aws.String("email"),
		DeliveryMedium: types.DeliveryMediumTypeEmail,
		Destination:    aws.String(maskEmail(u.email)),
	}
}

// maskEmail turns "alice@example.com" into "a***@e***".
func maskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" {
		return "***"
	}
	return local[:1] + "***@" + domain[:1] + "***"
}
