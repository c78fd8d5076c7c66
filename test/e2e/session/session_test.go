package session_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/chatauth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestSessionLifecycle walks a browser-like client through the whole cookie
// session.
func TestSessionLifecycle(t *testing.T) {
	baseURL := setupAuthContainer(t)
	client := authsdk.NewSDKClient(baseURL, cookiePrefix)
	ctx := t.Context()

	email := registerConfirmed(t, client)
	login := performLogin(t, client, email, userPassword)

	me, err := client.CurrentUser(ctx)
	require.NoError(t, err)
	require.Equal(t, email, me.Email)
	require.True(t, me.EmailVerified)

	sync, _ := client.Cookie(authsdk.SynchronizeCookie)
	refreshed, err := client.Refresh(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.Tokens.AccessToken)
	require.Equal(t, login.Tokens.RefreshToken, refreshed.Tokens.RefreshToken)

	newSync, ok := client.Cookie(authsdk.SynchronizeCookie)
	require.True(t, ok)
	require.Equal(t, sync, newSync, "refresh carries the synchronize value forward")

	require.NoError(t, client.Logout(ctx))
	_, ok = client.Cookie(authsdk.AccessTokenCookie)
	require.False(t, ok, "logout clears the access cookie")

	_, err = client.CurrentUser(ctx)
	require.True(t, authsdk.IsUnauthorized(err), "got %v", err)
}

func TestSessionSurvivesAcrossClients(t *testing.T) {
	baseURL := setupAuthContainer(t)
	first := authsdk.NewSDKClient(baseURL, cookiePrefix)
	email := registerConfirmed(t, first)
	performLogin(t, first, email, userPassword)

	// A second client holding the same cookies acts as the same session.
	second := authsdk.NewSDKClient(baseURL, cookiePrefix)
	for _, suffix := range []string{authsdk.AccessTokenCookie, authsdk.RefreshTokenCookie, authsdk.SynchronizeCookie} {
		v, _ := first.Cookie(suffix)
		require.NoError(t, second.SetCookie(suffix, v))
	}

	me, err := second.CurrentUser(t.Context())
	require.NoError(t, err)
	require.Equal(t, email, me.Email)
}

func TestRefreshRequiresSynchronizeCookie(t *testing.T) {
	baseURL := setupAuthContainer(t)
	client := authsdk.NewSDKClient(baseURL, cookiePrefix)
	ctx := t.Context()

	email := registerConfirmed(t, client)
	performLogin(t, client, email, userPassword)

	require.NoError(t, client.SetCookie(authsdk.SynchronizeCookie, "not-a-sealed-value"))
	_, err := client.Refresh(ctx)
	require.True(t, authsdk.IsUnauthorized(err), "got %v", err)

	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "Synchronize token not found or invalid", apiErr.Message)

	require.NoError(t, client.SetCookie(authsdk.SynchronizeCookie, ""))
	_, err = client.Refresh(ctx)
	require.True(t, authsdk.IsUnauthorized(err), "got %v", err)
}

func TestLoginFailures(t *testing.T) {
	baseURL := setupAuthContainer(t)
	client := authsdk.NewSDKClient(baseURL, cookiePrefix)
	ctx := t.Context()

	// Unconfirmed users cannot log in.
	email := uniqueEmail()
	_, err := client.Register(ctx, authsdk.RegisterRequest{
		Email:           email,
		Password:        userPassword,
		ConfirmPassword: userPassword,
	})
	require.NoError(t, err)

	_, err = client.Login(ctx, email, userPassword)
	require.Error(t, err)

	require.NoError(t, client.ConfirmRegistration(ctx, email, staticCode))

	_, err = client.Login(ctx, email, "Wrong123!")
	require.True(t, authsdk.IsUnauthorized(err), "got %v", err)

	_, ok := client.Cookie(authsdk.AccessTokenCookie)
	require.False(t, ok, "failed login sets no cookies")
}

func TestRegisterValidation(t *testing.T) {
	client := authsdk.NewSDKClient(setupAuthContainer(t), cookiePrefix)
	ctx := t.Context()

	_, err := client.Register(ctx, authsdk.RegisterRequest{
		Email:           uniqueEmail(),
		Password:        userPassword,
		ConfirmPassword: userPassword + "x",
	})
	require.True(t, authsdk.IsStatus(err, http.StatusBadRequest), "got %v", err)

	_, err = client.Register(ctx, authsdk.RegisterRequest{
		Email:           "not-an-email",
		Password:        userPassword,
		ConfirmPassword: userPassword,
	})
	require.True(t, authsdk.IsStatus(err, http.StatusBadRequest), "got %v", err)

	email := registerConfirmed(t, client)
	_, err = client.Register(ctx, authsdk.RegisterRequest{
		Email:           email,
		Password:        userPassword,
		ConfirmPassword: userPassword,
	})
	require.True(t, authsdk.IsStatus(err, http.StatusConflict), "got %v", err)
}

func TestPasswordReset(t *testing.T) {
	client := authsdk.NewSDKClient(setupAuthContainer(t), cookiePrefix)
	ctx := t.Context()

	email := registerConfirmed(t, client)
	require.NoError(t, client.ForgotPassword(ctx, email))

	const newPassword = "Reset123!"
	require.NoError(t, client.ConfirmForgotPassword(ctx, authsdk.ConfirmForgotPasswordRequest{
		Email:           email,
		Code:            staticCode,
		NewPassword:     newPassword,
		ConfirmPassword: newPassword,
	}))

	_, err := client.Login(ctx, email, userPassword)
	require.True(t, authsdk.IsUnauthorized(err), "old password is rejected, got %v", err)

	performLogin(t, client, email, newPassword)
}

func TestLogoutWithoutSession(t *testing.T) {
	client := authsdk.NewSDKClient(setupAuthContainer(t), cookiePrefix)

	err := client.Logout(t.Context())
	require.True(t, authsdk.IsUnauthorized(err), "got %v", err)
}
