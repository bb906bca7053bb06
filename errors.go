package auth

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
)

// ErrUnknownUser is returned when no identity matches a username
var ErrUnknownUser = errors.New("unknown user")

// ErrBadCredential is returned when a password does not match the stored hash
var ErrBadCredential = errors.New("bad credential")

// ErrDuplicateUser is returned when registering a username that already exists
var ErrDuplicateUser = errors.New("duplicate user")

// ErrMalformedToken is returned for tokens that cannot be parsed or whose
// signature does not verify
var ErrMalformedToken = errors.New("token is malformed")

// ErrTokenExpired is returned for tokens verified at or after their expiry
var ErrTokenExpired = errors.New("token is expired")

// ErrInactiveIdentity is returned when a disabled identity tries to authenticate
var ErrInactiveIdentity = errors.New("identity is inactive")

// ErrNoEmptyString is returned when hashing an empty password
var ErrNoEmptyString = errors.New("password must not be empty")

// ErrInvalidTTL is returned when a negative token lifetime is requested
var ErrInvalidTTL = errors.New("token TTL must be non-negative")

var unauthorizedErrors = []error{
	ErrUnknownUser,
	ErrBadCredential,
	ErrMalformedToken,
	ErrTokenExpired,
	ErrInactiveIdentity,
}

// IsUnauthorized reports whether err belongs to the authentication path and
// must be surfaced to callers as a generic "unauthorized" outcome.
func IsUnauthorized(err error) bool {
	if err == nil {
		return false
	}
	for _, target := range unauthorizedErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// FailureKind returns a stable label for err, meant for logs and metrics.
// It must never be sent to clients.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrUnknownUser):
		return "unknown_user"
	case errors.Is(err, ErrBadCredential):
		return "bad_credential"
	case errors.Is(err, ErrDuplicateUser):
		return "duplicate_user"
	case errors.Is(err, ErrMalformedToken):
		return "malformed_token"
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrInactiveIdentity):
		return "inactive_identity"
	case IsValidationError(err):
		return "invalid_input"
	default:
		return "internal"
	}
}

// IsValidationError reports whether err carries field validation errors
func IsValidationError(err error) bool {
	var verrs validation.Errors
	return errors.As(err, &verrs)
}
