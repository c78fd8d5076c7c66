package localpool

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// ForgotPassword issues a password reset code.
func (p *Pool) ForgotPassword(ctx context.Context, in *cip.ForgotPasswordInput, _ ...func(*cip.Options)) (*cip.ForgotPasswordOutput, error) {
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
	if !u.enabled {
		return nil, &types.NotAuthorizedException{Message: aws.String("User is disabled.")}
	}

	c, err := p.newCode(ctx, u, "reset_password", p.cfg.ResetCodeTTL)
	if err != nil {
		return nil, err
	}
	u.resetCode = c

	return &cip.ForgotPasswordOutput{CodeDeliveryDetails: u.deliveryDetails()}, nil
}

// ConfirmForgotPassword sets a new password using a reset code.
func (p *Pool) ConfirmForgotPassword(ctx context.Context, in *cip.ConfirmForgotPasswordInput, _ ...func(*cip.Options)) (*cip.ConfirmForgotPasswordOutput, error) {
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
	if err := checkPasswordPolicy(aws.ToString(in.Password)); err != nil {
		return nil, err
	}
	if err := checkCode(&u.resetCode, aws.ToString(in.ConfirmationCode), p.now()); err != nil {
		return nil, err
	}

	hash, err := p.hasher.HashPassword(aws.ToString(in.Password))
	if err != nil {
		return nil, &types.InternalErrorException{Message: aws.String(err.Error())}
	}
	u.passwordHash = hash
	u.updatedAt = p.now()

	// A reset proves ownership of the email.
	if u.status == types.UserStatusTypeUnconfirmed {
		u.status = types.UserStatusTypeConfirmed
		u.attrs["email_verified"] = "true"
	}

	return &cip.ConfirmForgotPasswordOutput{}, nil
}
