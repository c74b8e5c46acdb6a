package domain

import "errors"

// ErrNotFound is returned by repositories when no row matches. Services map it
// to the coded error appropriate for the operation.
var ErrNotFound = errors.New("resource not found")

// CodedError pairs a stable machine-readable code with a human-readable message.
// Code and message are returned verbatim to API clients.
type CodedError struct {
	Code    string
	Message string
}

func (e *CodedError) Error() string { return e.Message }

var (
	ErrUnknownOAuthProvider = &CodedError{
		Code:    "unknown_oauth_provider",
		Message: "The requested OAuth provider is not supported",
	}
	ErrInvalidAuthorizationCode = &CodedError{
		Code:    "invalid_authorization_code",
		Message: "The authorization code was rejected by the OAuth provider",
	}
	ErrMissingAccessToken = &CodedError{
		Code:    "missing_access_token",
		Message: "An access token is required",
	}
	ErrInvalidAccessToken = &CodedError{
		Code:    "invalid_access_token",
		Message: "The access token is invalid",
	}
	ErrUserNotFound = &CodedError{
		Code:    "user_not_found",
		Message: "No user exists for the presented token",
	}
	ErrInvalidRefreshToken = &CodedError{
		Code:    "invalid_refresh_token",
		Message: "The refresh token is invalid",
	}
	ErrRefreshTokenNotFound = &CodedError{
		Code:    "refresh_token_not_found",
		Message: "The refresh token is not registered",
	}
	ErrAccessTokenStillValid = &CodedError{
		Code:    "already_validated_access_token",
		Message: "The current access token is still valid",
	}
	ErrNotGuestUser = &CodedError{
		Code:    "not_guest_user",
		Message: "Social login users do not have a guest password",
	}
	ErrProfileImageUpload = &CodedError{
		Code:    "profile_image_upload_failed",
		Message: "The profile image could not be stored",
	}
)

// ValidationError represents a field-level validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
