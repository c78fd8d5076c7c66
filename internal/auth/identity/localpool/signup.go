package localpool

import (
	"context"
	"strings"

	"github.com/aussiebroadwan/chatauth/pkg/idx"
	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// SignUp creates an unconfirmed user. The pool uses email as an alias, so
// the internal username is a fresh id rather than the email.
func (p *Pool) SignUp(ctx context.Context, in *cip.SignUpInput, _ ...func(*cip.Options)) (*cip.SignUpOutput, error) {
	if err := p.checkClient(in.ClientId); err != nil {
		return nil, err
	}
	if err := p.checkSecretHash(aws.ToString(in.Username), in.SecretHash); err != nil {
		return nil, err
	}

	attrs := make(map[string]string, len(in.UserAttributes)+2)
	for _, a := range in.UserAttributes {
		attrs[aws.ToString(a.Name)] = aws.ToString(a.Value)
	}
	email := strings.TrimSpace(attrs["email"])
	if email == "" {
		email = strings.TrimSpace(aws.ToString(in.Username))
	}
	if !strings.Contains(email, "@") {
		return nil, &types.InvalidParameterException{Message: aws.String("Invalid email address format.")}
	}
	if err := checkPasswordPolicy(aws.ToString(in.Password)); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.lookup(email) != nil {
		return nil, &types.UsernameExistsException{
			Message: aws.String("An account with the given email already exists."),
		}
	}

	hash, err := p.hasher.HashPassword(aws.ToString(in.Password))
	if err != nil {
		return nil, &types.InternalErrorException{Message: aws.String(err.Error())}
	}

	now := p.now()
	sub := idx.NewAt(now).String()
	attrs["sub"] = sub
	attrs["email"] = email
	attrs["email_verified"] = "false"

	u := &user{
		username:     sub,
		email:        email,
		passwordHash: hash,
		status:       types.UserStatusTypeUnconfirmed,
		enabled:      true,
		attrs:        attrs,
		createdAt:    now,
		updatedAt:    now,
	}
	if u.confirmCode, err = p.newCode(ctx, u, "confirm_sign_up", p.cfg.ConfirmationCodeTTL); err != nil {
		return nil, err
	}

	p.users[u.username] = u
	p.byEmail[strings.ToLower(email)] = u.username

	return &cip.SignUpOutput{
		UserConfirmed:       false,
		UserSub:             aws.String(sub),
		CodeDeliveryDetails: u.deliveryDetails(),
	}, nil
}

// ConfirmSignUp confirms a user with the code sent at sign-up.
func (p *Pool) ConfirmSignUp(ctx context.Context, in *cip.ConfirmSignUpInput, _ ...func(*cip.Options)) (*cip.ConfirmSignUpOutput, error) {
	if err := p.checkClient(in.ClientId); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	u := p.lookup(aws.ToString(in.Username))
	if u == nil {
		return nil, &types.UserNotFoundException{Message: aws.String("Username/client id combination not found.")}
	}
	if err := p.checkSecretHash(aws.ToString(in.Username), in.SecretHash); err != nil {
		return nil, err
	}
	if u.status == types.UserStatusTypeConfirmed {
		return nil, &types.NotAuthorizedException{
			Message: aws.String("User cannot be confirmed. Current status is CONFIRMED"),
		}
	}
	if err := checkCode(&u.confirmCode, aws.ToString(in.ConfirmationCode), p.now()); err != nil {
		return nil, err
	}

	u.status = types.UserStatusTypeConfirmed
	u.attrs["email_verified"] = "true"
	u.updatedAt = p.now()
	return &cip.ConfirmSignUpOutput{}, nil
}

// ResendConfirmationCode issues a new sign-up code.
func (p *Pool) ResendConfirmationCode(ctx context.Context, in *cip.ResendConfirmationCodeInput, _ ...func(*cip.Options)) (*cip.ResendConfirmationCodeOutput, error) {
	if err := p.checkClient(in.ClientId); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	u := p.lookup(aws.ToString(in.Username))
	if u == nil {
		return nil, &types.UserNotFoundException{Message: aws.String("Username/client id combination not found.")}
	}
	if err := p.checkSecretHash(aws.ToString(in.Username), in.SecretHash); err != nil {
		return nil, err
	}
	if u.status == types.UserStatusTypeConfirmed {
		return nil, &types.InvalidParameterException{Message: aws.String("User is already confirmed.")}
	}

	c, err := p.newCode(ctx, u, "confirm_sign_up", p.cfg.ConfirmationCodeTTL)
	if err != nil {
		return nil, err
	}
	u.confirmCode = c

	return &cip.ResendConfirmationCodeOutput{CodeDeliveryDetails: u.deliveryDetails()}, nil
}
