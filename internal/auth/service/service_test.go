package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/chatauth/internal/auth/domain"
	"github.com/aussiebroadwan/chatauth/internal/auth/identity"
	"github.com/aussiebroadwan/chatauth/internal/auth/identity/localpool"
	"github.com/aussiebroadwan/chatauth/internal/auth/metrics"
	"github.com/aussiebroadwan/chatauth/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/chatauth/pkg/cryptox"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const testPassword = "Pw1!aaaa"

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestCipher(t *testing.T) *cryptox.Cipher {
	t.Helper()

	c, err := cryptox.NewCipher([]byte("test-synchronize-secret"), "synchronize")
	require.NoError(t, err)
	return c
}

type harness struct {
	store   *sqlite.Store
	pool    *localpool.Pool
	users   *UserService
	session *SessionService
}

// newHarness wires the session service to a real store and the local pool.
func newHarness(t *testing.T) *harness {
	t.Helper()

	pool, err := localpool.New(localpool.Config{
		UserPoolID:   "pool",
		ClientID:     "client",
		ClientSecret: "secret",
	})
	require.NoError(t, err)

	m := metrics.New(prometheus.NewRegistry())
	st := newTestStore(t)
	users := &UserService{Store: st, Metrics: m}

	return &harness{
		store: st,
		pool:  pool,
		users: users,
		session: &SessionService{
			IDP: identity.NewAdapter(pool, identity.Config{
				UserPoolID:   "pool",
				ClientID:     "client",
				ClientSecret: "secret",
			}, m),
			Users:   users,
			Cipher:  newTestCipher(t),
			Metrics: m,
		},
	}
}

// fakeIDP returns canned results and counts calls.
type fakeIDP struct {
	calls int

	signUp     domain.SignUpResult
	signIn     domain.SignInResult
	tokens     domain.Tokens
	authUser   domain.AuthUser
	err        error
	lastUser   string
	lastRefTok string
}

func (f *fakeIDP) SignUpUser(_ context.Context, in domain.SignUpInput) (domain.SignUpResult, error) {
	f.calls++
	return f.signUp, f.err
}

func (f *fakeIDP) ConfirmSignUp(context.Context, string, string) error {
	f.calls++
	return f.err
}

func (f *fakeIDP) ResendConfirmationCode(context.Context, string) error {
	f.calls++
	return f.err
}

func (f *fakeIDP) SignInUser(context.Context, string, string) (domain.SignInResult, error) {
	f.calls++
	return f.signIn, f.err
}

func (f *fakeIDP) SignOutUser(context.Context, string) error {
	f.calls++
	return f.err
}

func (f *fakeIDP) RefreshToken(_ context.Context, refreshToken, username string) (domain.Tokens, error) {
	f.calls++
	f.lastRefTok = refreshToken
	f.lastUser = username
	return f.tokens, f.err
}

func (f *fakeIDP) ForgotPassword(context.Context, string) error {
	f.calls++
	return f.err
}

func (f *fakeIDP) ConfirmForgotPassword(context.Context, domain.ConfirmForgotPasswordInput) error {
	f.calls++
	return f.err
}

func (f *fakeIDP) GetAuthUser(context.Context, string) (domain.AuthUser, error) {
	f.calls++
	return f.authUser, f.err
}

func newFakeSession(t *testing.T, idp *fakeIDP) (*SessionService, *UserService) {
	t.Helper()

	users := &UserService{Store: newTestStore(t)}
	return &SessionService{IDP: idp, Users: users, Cipher: newTestCipher(t)}, users
}
