package localpool

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/chatauth/pkg/cryptox"
	"github.com/aussiebroadwan/chatauth/pkg/jwtx"
	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

var errBadCredentials = &types.NotAuthorizedException{Message: aws.String("Incorrect username or password.")}

// InitiateAuth supports USER_PASSWORD_AUTH and REFRESH_TOKEN_AUTH.
func (p *Pool) InitiateAuth(ctx context.Context, in *cip.InitiateAuthInput, _ ...func(*cip.Options)) (*cip.InitiateAuthOutput, error) {
	if err := p.checkClient(in.ClientId); err != nil {
		return nil, err
	}

	switch in.AuthFlow {
	case types.AuthFlowTypeUserPasswordAuth:
		return p.passwordAuth(in.AuthParameters)
	case types.AuthFlowTypeRefreshTokenAuth, types.AuthFlowTypeRefreshToken:
		return p.refreshAuth(in.AuthParameters)
	default:
		return nil, &types.InvalidParameterException{
			Message: aws.String("Unsupported auth flow " + string(in.AuthFlow)),
		}
	}
}

func (p *Pool) passwordAuth(params map[string]string) (*cip.InitiateAuthOutput, error) {
	username := params["USERNAME"]

	// Snapshot under the lock; the hash is checked without it.
	p.mu.Lock()
	u := p.lookup(username)
	var (
		name, hash string
		enabled    bool
		status     types.UserStatusType
	)
	if u != nil {
		name, hash, enabled, status = u.username, u.passwordHash, u.enabled, u.status
	}
	p.mu.Unlock()

	if u == nil {
		return nil, errBadCredentials
	}
	if err := p.checkSecretHash(username, stringPtr(params["SECRET_HASH"])); err != nil {
		return nil, err
	}
	if err := p.hasher.VerifyPassword(params["PASSWORD"], hash); err != nil {
		return nil, errBadCredentials
	}
	if !enabled {
		return nil, &types.NotAuthorizedException{Message: aws.String("User is disabled.")}
	}
	if status != types.UserStatusTypeConfirmed {
		return nil, &types.UserNotConfirmedException{Message: aws.String("User is not confirmed.")}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	s := session{
		username: name,
		origin:   jwtx.NewJTI(),
		authTime: now,
		expires:  now.Add(p.cfg.RefreshTokenTTL),
	}

	access, err := p.mintAccess(s, now)
	if err != nil {
		return nil, err
	}
	refresh, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, &types.InternalErrorException{Message: aws.String(err.Error())}
	}
	p.refresh[cryptox.FingerprintToken(refresh)] = s

	return &cip.InitiateAuthOutput{
		AuthenticationResult: &types.AuthenticationResultType{
			AccessToken:  aws.String(access),
			RefreshToken: aws.String(refresh),
			ExpiresIn:    int32(p.cfg.AccessTokenTTL / time.Second),
			TokenType:    aws.String("Bearer"),
		},
	}, nil
}

func (p *Pool) refreshAuth(params map[string]string) (*cip.InitiateAuthOutput, error) {
	token := params["REFRESH_TOKEN"]
	fp := cryptox.FingerprintToken(token)

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	s, ok := p.refresh[fp]
	if !ok || !now.Before(s.expires) {
		return nil, &types.NotAuthorizedException{Message: aws.String("Invalid Refresh Token")}
	}
	u, ok := p.users[s.username]
	if !ok || !u.enabled {
		return nil, &types.NotAuthorizedException{Message: aws.String("Invalid Refresh Token")}
	}
	if err := p.checkSecretHash(u.username, stringPtr(params["SECRET_HASH"])); err != nil {
		return nil, err
	}

	access, err := p.mintAccess(s, now)
	if err != nil {
		return nil, err
	}

	res := &types.AuthenticationResultType{
		AccessToken: aws.String(access),
		ExpiresIn:   int32(p.cfg.AccessTokenTTL / time.Second),
		TokenType:   aws.String("Bearer"),
	}

	if p.cfg.RotateRefreshTokens {
		next, err := cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			return nil, &types.InternalErrorException{Message: aws.String(err.Error())}
		}
		delete(p.refresh, fp)
		s.expires = now.Add(p.cfg.RefreshTokenTTL)
		p.refresh[cryptox.FingerprintToken(next)] = s
		res.RefreshToken = aws.String(next)
	}

	return &cip.InitiateAuthOutput{AuthenticationResult: res}, nil
}

// GlobalSignOut revokes every refresh token of the token owner and makes
// their outstanding access tokens unusable.
func (p *Pool) GlobalSignOut(ctx context.Context, in *cip.GlobalSignOutInput, _ ...func(*cip.Options)) (*cip.GlobalSignOutOutput, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	claims, err := p.verifyAccess(aws.ToString(in.AccessToken))
	if err != nil {
		return nil, err
	}

	until := p.now().Add(p.cfg.AccessTokenTTL)
	p.revoked[claims.OriginJTI] = until
	for fp, s := range p.refresh {
		if s.username == claims.Username {
			p.revoked[s.origin] = until
			delete(p.refresh, fp)
		}
	}
	return &cip.GlobalSignOutOutput{}, nil
}

// GetUser returns the attributes of the access token owner.
func (p *Pool) GetUser(ctx context.Context, in *cip.GetUserInput, _ ...func(*cip.Options)) (*cip.GetUserOutput, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	claims, err := p.verifyAccess(aws.ToString(in.AccessToken))
	if err != nil {
		return nil, err
	}
	u, ok := p.users[claims.Username]
	if !ok {
		return nil, &types.UserNotFoundException{Message: aws.String("User does not exist.")}
	}

	return &cip.GetUserOutput{
		Username:       aws.String(u.username),
		UserAttributes: u.attributes(),
	}, nil
}

func (p *Pool) mintAccess(s session, now time.Time) (string, error) {
	claims := jwtx.NewAccessClaims(
		s.username, s.username, p.cfg.ClientID, s.origin,
		p.cfg.AccessTokenTTL, p.cfg.Issuer, s.authTime, now,
	)
	token, err := p.signer.Sign(claims)
	if err != nil {
		return "", &types.InternalErrorException{Message: aws.String(err.Error())}
	}
	return token, nil
}

// verifyAccess checks signature, expiry against the pool clock and
// revocation. Callers hold p.mu.
func (p *Pool) verifyAccess(token string) (jwtx.Claims, error) {
	claims, err := p.verifier.Verify(token, p.now())
	if err != nil {
		msg := "Invalid Access Token"
		if errors.Is(err, jwtx.ErrExpired) {
			msg = "Access Token has expired"
		}
		return jwtx.Claims{}, &types.NotAuthorizedException{Message: aws.String(msg)}
	}
	if _, revoked := p.revoked[claims.OriginJTI]; revoked {
		return jwtx.Claims{}, &types.NotAuthorizedException{Message: aws.String("Access Token has been revoked")}
	}
	return claims, nil
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
