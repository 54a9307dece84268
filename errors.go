package community

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// ErrTokenMissing is returned when a request carries no usable bearer credential.
var ErrTokenMissing = goerrors.New("access denied, no token provided", goerrors.CategoryAuth).
	WithTextCode("MISSING_TOKEN").
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenInvalid covers malformed, badly signed, expired, and
// unknown-subject tokens alike. Callers must not be able to tell
// these apart from the error they receive.
var ErrTokenInvalid = goerrors.New("invalid token", goerrors.CategoryAuth).
	WithTextCode("INVALID_TOKEN").
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidCredentials is the single error for both unknown email and
// wrong password, so a login response never reveals account existence.
var ErrInvalidCredentials = goerrors.New("invalid email or password", goerrors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIALS").
	WithCode(goerrors.CodeUnauthorized)

// ErrAlreadyExists signals a uniqueness conflict on insert.
var ErrAlreadyExists = goerrors.New("record already exists", goerrors.CategoryConflict).
	WithTextCode("ALREADY_EXISTS").
	WithCode(goerrors.CodeConflict)

// ErrUnauthenticated is the authorizer's defensive check for a missing
// authenticated context. A correct middleware chain never produces it.
var ErrUnauthenticated = goerrors.New("access denied, user not authenticated", goerrors.CategoryAuth).
	WithTextCode("UNAUTHENTICATED").
	WithCode(goerrors.CodeUnauthorized)

// ErrForbidden is returned when the authenticated role is not in the
// allowed set for a route.
var ErrForbidden = goerrors.New("access denied, insufficient permissions", goerrors.CategoryAuthz).
	WithTextCode("FORBIDDEN").
	WithCode(goerrors.CodeForbidden)

// ErrIdentityNotFound is the internal error for lookups that come up empty.
var ErrIdentityNotFound = goerrors.New("identity not found", goerrors.CategoryNotFound).
	WithTextCode("IDENTITY_NOT_FOUND").
	WithCode(goerrors.CodeNotFound)

// ErrTooManyLoginAttempts is returned while an account is cooling down.
var ErrTooManyLoginAttempts = goerrors.New("too many login attempts", goerrors.CategoryRateLimit).
	WithTextCode("TOO_MANY_ATTEMPTS").
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidPayload is returned when a request body cannot be parsed
// into its typed payload.
var ErrInvalidPayload = goerrors.New("failed to parse request body", goerrors.CategoryBadInput).
	WithTextCode("INVALID_PAYLOAD").
	WithCode(goerrors.CodeBadRequest)

// ErrNoEmptyString rejects empty secrets before they reach bcrypt.
var ErrNoEmptyString = goerrors.New("value must not be empty", goerrors.CategoryBadInput).
	WithCode(goerrors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the internal bcrypt comparison failure;
// the auth pipeline translates it to ErrInvalidCredentials before it can
// reach a response.
var ErrMismatchedHashAndPassword = goerrors.New("hash and password mismatch", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized)

// IsUniqueViolation reports whether err looks like a unique constraint
// failure surfaced by the database driver. Both sqlite and postgres are
// matched by message since bun does not normalize driver errors.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "constraint failed: UNIQUE")
}
