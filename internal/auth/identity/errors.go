package identity

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/chatauth/internal/auth/domain"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
)

const serviceName = "identity"

// providerStatus maps provider exception codes to the HTTP status we answer
// with. The exception name itself becomes the AppError type.
var providerStatus = map[string]int{
	"NotAuthorizedException":         http.StatusUnauthorized,
	"UsernameExistsException":        http.StatusConflict,
	"AliasExistsException":           http.StatusConflict,
	"CodeMismatchException":          http.StatusBadRequest,
	"ExpiredCodeException":           http.StatusBadRequest,
	"InvalidPasswordException":       http.StatusBadRequest,
	"InvalidParameterException":      http.StatusBadRequest,
	"UserNotConfirmedException":      http.StatusForbidden,
	"PasswordResetRequiredException": http.StatusForbidden,
	"LimitExceededException":         http.StatusTooManyRequests,
	"TooManyRequestsException":       http.StatusTooManyRequests,
	"TooManyFailedAttemptsException": http.StatusTooManyRequests,
	"CodeDeliveryFailureException":   http.StatusBadGateway,
}

// publicProviderCodes are exceptions whose provider message is written for
// end users. Every other provider message stays out of the response body.
var publicProviderCodes = map[string]bool{
	"NotAuthorizedException":         true,
	"UsernameExistsException":        true,
	"AliasExistsException":           true,
	"CodeMismatchException":          true,
	"ExpiredCodeException":           true,
	"InvalidPasswordException":       true,
	"UserNotConfirmedException":      true,
	"PasswordResetRequiredException": true,
	"LimitExceededException":         true,
	"TooManyRequestsException":       true,
	"TooManyFailedAttemptsException": true,
}

const (
	msgProviderRejected = "identity provider rejected the request"
	msgProviderFailed   = "identity provider request failed"
)

// mapProviderError converts anything the provider client returns into an
// AppError. Known exceptions pass through with their own name and status.
func mapProviderError(err error) *domain.AppError {
	if appErr, ok := domain.AsAppError(err); ok {
		return appErr
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return domain.NewInternalError(serviceName, "identity provider request cancelled", err)
	}

	var notFound *types.UserNotFoundException
	if errors.As(err, &notFound) {
		e := domain.NewNotFoundError(serviceName, "user not found")
		e.Cause = err
		return e
	}

	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return domain.NewInternalError(serviceName, msgProviderFailed, err)
	}

	code := apiErr.ErrorCode()
	status, ok := providerStatus[code]
	if !ok {
		if apiErr.ErrorFault() == smithy.FaultClient {
			status = http.StatusBadRequest
		} else {
			status = http.StatusInternalServerError
		}
	}

	// A rejected SECRET_HASH is our misconfiguration, not the caller's.
	msg := apiErr.ErrorMessage()
	if code == "NotAuthorizedException" && strings.Contains(strings.ToLower(msg), "secret hash") {
		status = http.StatusInternalServerError
	}

	appErr := &domain.AppError{
		Type:    domain.ErrorType(code),
		Status:  status,
		Service: serviceName,
		Cause:   err,
	}

	switch {
	case status >= http.StatusInternalServerError:
		appErr.Message = msgProviderFailed
	case publicProviderCodes[code] && msg != "":
		appErr.Message = msg
	default:
		appErr.Message = msgProviderRejected
	}
	return appErr
}

// IsNotAuthorized reports whether err is the provider rejecting a token or
// credentials.
func IsNotAuthorized(err error) bool {
	var nae *types.NotAuthorizedException
	if errors.As(err, &nae) {
		return true
	}
	return domain.IsType(err, "NotAuthorizedException")
}
