// AngelaMos | 2026
// errors.go

package identity

import (
	"errors"
	"strings"

	"github.com/aws/smithy-go"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

type flowKind int

const (
	credentialFlow flowKind = iota
	tokenFlow
)

// mapError folds provider error names into core sentinels. Nothing
// provider specific leaves this package.
func mapError(err error, flow flowKind) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return core.ErrUpstream
	}

	switch apiErr.ErrorCode() {
	case "UsernameExistsException", "AliasExistsException":
		return core.ErrUserExists
	case "InvalidPasswordException":
		return core.BadRequestError("password does not meet the password policy")
	case "InvalidParameterException":
		return core.ErrInvalidInput
	case "CodeMismatchException":
		return core.ErrCodeMismatch
	case "ExpiredCodeException":
		return core.ErrCodeExpired
	case "UserNotFoundException":
		return core.ErrNotFound
	case "UserNotConfirmedException":
		return core.ErrUserNotConfirmed
	case "NotAuthorizedException":
		if flow == tokenFlow {
			if strings.Contains(strings.ToLower(apiErr.ErrorMessage()), "expired") {
				return core.ErrTokenExpired
			}
			return core.ErrTokenInvalid
		}
		return core.ErrInvalidCredentials
	case "PasswordResetRequiredException":
		return core.ErrInvalidCredentials
	default:
		return core.ErrUpstream
	}
}

func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
