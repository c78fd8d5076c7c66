package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL matches the provider's default access token lifetime.
const DefaultAccessTokenTTL = time.Hour

// TokenUseAccess is the token_use value carried by every access token.
const TokenUseAccess = "access"

// Claims mirror the subset of a user pool access token that the session
// layer cares about. The provider is the source of truth for the format;
// we only add what we need to revoke tokens on global sign-out.
type Claims struct {
	jwt.RegisteredClaims

	// TokenUse is always "access" for tokens we mint.
	TokenUse string `json:"token_use,omitempty"`

	// ClientID is the app client the token was issued to.
	ClientID string `json:"client_id,omitempty"`

	// Username is the pool-internal username (not the email).
	Username string `json:"username,omitempty"`

	// Scope is space delimited, e.g. "aws.cognito.signin.user.admin".
	Scope string `json:"scope,omitempty"`

	// AuthTime is the unix time of the original sign-in.
	AuthTime int64 `json:"auth_time,omitempty"`

	// OriginJTI links every access token minted from the same sign-in,
	// including ones minted by refresh.
	OriginJTI string `json:"origin_jti,omitempty"`
}

// NewAccessClaims builds minimally-correct access claims.
func NewAccessClaims(
	subject, username, clientID, originJTI string,
	ttl time.Duration,
	issuer string,
	authTime, now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		TokenUse:  TokenUseAccess,
		ClientID:  clientID,
		Username:  username,
		Scope:     "aws.cognito.signin.user.admin",
		AuthTime:  authTime.Unix(),
		OriginJTI: originJTI,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateClient checks the token was issued to the expected app client.
func (c *Claims) ValidateClient(expected string) error {
	if expected == "" {
		return nil
	}

	if c.ClientID != expected {
		return ErrClient
	}

	return nil
}

// ValidateTokenUse rejects anything that isn't an access token.
func (c *Claims) ValidateTokenUse() error {
	if c.TokenUse != TokenUseAccess {
		return ErrInvalidClaim
	}
	return nil
}

// ValidateExpiryAt rejects tokens past exp or before nbf as of now.
func (c *Claims) ValidateExpiryAt(now time.Time) error {
	// Check expired (exp)
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}

	// Check if a valid token isn't used before it is valid (nbf)
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}
