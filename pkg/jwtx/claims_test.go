package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/chatauth/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestValidateIssuer(t *testing.T) {
	c := &jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer: "local-pool",
		},
	}

	t.Run("matching issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer("local-pool"))
	})

	t.Run("empty expected issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer(""))
	})

	t.Run("mismatched issuer", func(t *testing.T) {
		require.ErrorIs(t, c.ValidateIssuer("other-pool"), jwtx.ErrIssuer)
	})
}

func TestValidateClient(t *testing.T) {
	c := &jwtx.Claims{ClientID: "client-a"}

	require.NoError(t, c.ValidateClient("client-a"))
	require.NoError(t, c.ValidateClient(""))
	require.ErrorIs(t, c.ValidateClient("client-b"), jwtx.ErrClient)
}

func TestValidateTokenUse(t *testing.T) {
	require.NoError(t, (&jwtx.Claims{TokenUse: "access"}).ValidateTokenUse())
	require.ErrorIs(t, (&jwtx.Claims{TokenUse: "id"}).ValidateTokenUse(), jwtx.ErrInvalidClaim)
	require.ErrorIs(t, (&jwtx.Claims{}).ValidateTokenUse(), jwtx.ErrInvalidClaim)
}

func TestValidateExpiryAt(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := &jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}

	require.NoError(t, c.ValidateExpiryAt(now.Add(30*time.Minute)))
	require.ErrorIs(t, c.ValidateExpiryAt(now.Add(2*time.Hour)), jwtx.ErrExpired)
	require.ErrorIs(t, c.ValidateExpiryAt(now.Add(-time.Minute)), jwtx.ErrNotYetValid)
}

func TestNewAccessClaims(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	c := jwtx.NewAccessClaims("sub", "user", "client", "origin", time.Hour, "iss", now, now)

	require.Equal(t, "sub", c.Subject)
	require.Equal(t, "iss", c.Issuer)
	require.Equal(t, jwtx.TokenUseAccess, c.TokenUse)
	require.Equal(t, now.Add(time.Hour), c.ExpiresAt.Time)
	require.NotEqual(t, c.ID, jwtx.NewAccessClaims("sub", "user", "client", "origin", time.Hour, "iss", now, now).ID)
}
