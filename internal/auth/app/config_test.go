package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "PORT", "COOKIE_PREFIX", "COOKIE_DOMAIN", "ACCESS_TOKEN_COOKIE_BUFFER_SEC",
		"REFRESH_TOKEN_EXPIRY_DAYS", "SYNCHRONIZE_SECRET", "IDP_MODE", "COGNITO_REGION",
		"COGNITO_USER_POOL_ID", "COGNITO_CLIENT_ID", "COGNITO_CLIENT_SECRET",
		"LOCAL_IDP_STATIC_CODE", "HOUSEKEEPING_INTERVAL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg := LoadConfig()
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "chatauth", cfg.CookiePrefix)
	require.Equal(t, "localhost", cfg.CookieDomain)
	require.Equal(t, 60*time.Second, cfg.AccessTokenCookieBuffer)
	require.Equal(t, 30*24*time.Hour, cfg.RefreshTokenExpiry)
	require.Equal(t, time.Hour, cfg.HousekeepingInterval)
	require.Equal(t, IDPModeLocal, cfg.IDPMode, "development defaults to the local pool")

	require.NoError(t, cfg.Validate())
}

func TestLoadConfigOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "prod")
	t.Setenv("PORT", "9090")
	t.Setenv("COOKIE_PREFIX", "chat")
	t.Setenv("ACCESS_TOKEN_COOKIE_BUFFER_SEC", "30")
	t.Setenv("REFRESH_TOKEN_EXPIRY_DAYS", "7")
	t.Setenv("HOUSEKEEPING_INTERVAL", "15")

	cfg := LoadConfig()
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "chat", cfg.CookiePrefix)
	require.Equal(t, 30*time.Second, cfg.AccessTokenCookieBuffer)
	require.Equal(t, 7*24*time.Hour, cfg.RefreshTokenExpiry)
	require.Equal(t, 15*time.Minute, cfg.HousekeepingInterval, "bare integers are minutes")
	require.Equal(t, IDPModeCognito, cfg.IDPMode)
}

func TestValidateCognitoRequiresPoolSettings(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "prod")

	err := LoadConfig().Validate()
	require.Error(t, err)
	for _, key := range []string{"SYNCHRONIZE_SECRET", "COGNITO_REGION", "COGNITO_USER_POOL_ID", "COGNITO_CLIENT_ID", "COGNITO_CLIENT_SECRET"} {
		require.ErrorContains(t, err, key)
	}

	t.Setenv("SYNCHRONIZE_SECRET", "s3cret")
	t.Setenv("COGNITO_REGION", "ap-southeast-2")
	t.Setenv("COGNITO_USER_POOL_ID", "ap-southeast-2_abc")
	t.Setenv("COGNITO_CLIENT_ID", "client")
	t.Setenv("COGNITO_CLIENT_SECRET", "secret")
	require.NoError(t, LoadConfig().Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Config{
		Env:                "test",
		Port:               70000,
		CookiePrefix:       " ",
		RefreshTokenExpiry: 0,
		IDPMode:            "okta",
	}

	err := cfg.Validate()
	require.ErrorContains(t, err, "PORT")
	require.ErrorContains(t, err, "COOKIE_PREFIX")
	require.ErrorContains(t, err, "REFRESH_TOKEN_EXPIRY_DAYS")
	require.ErrorContains(t, err, "IDP_MODE")
}

func TestValidateLocalPoolOutsideProduction(t *testing.T) {
	cfg := Config{
		Env:                "prod",
		Port:               8080,
		CookiePrefix:       "chat",
		RefreshTokenExpiry: time.Hour,
		SynchronizeSecret:  "s3cret",
		IDPMode:            IDPModeLocal,
	}
	require.ErrorContains(t, cfg.Validate(), "IDP_MODE=local")

	cfg.Env = "staging"
	require.NoError(t, cfg.Validate())
}

func TestEnvironmentClasses(t *testing.T) {
	tests := []struct {
		env        string
		dev, prod  bool
		secureCook bool
	}{
		{"dev", true, false, true},
		{"local", true, false, false},
		{"test", true, false, false},
		{"staging", false, false, true},
		{"production", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := Config{Env: tt.env}
			require.Equal(t, tt.dev, cfg.IsDevelopment())
			require.Equal(t, tt.prod, cfg.IsProduction())
			require.Equal(t, tt.secureCook, cfg.SecureCookies())
		})
	}
}
