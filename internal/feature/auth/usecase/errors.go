// Package usecase implements the business logic for the auth feature.
package usecase

import (
	"errors"
	"strings"
)

var (
	// ErrDuplicateIdentity is returned when the email or Google ID is already bound to a user.
	ErrDuplicateIdentity = errors.New("identity already registered")

	// ErrWeakPassword is returned when a password does not satisfy the password policy.
	// The concrete error is a *WeakPasswordError carrying every violation.
	ErrWeakPassword = errors.New("password does not meet requirements")

	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountDisabled is returned when an inactive user tries to authenticate.
	ErrAccountDisabled = errors.New("account disabled")

	// ErrInvalidToken is returned for a malformed, tampered or wrong-class token.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned for a correctly signed token past its expiry.
	ErrExpiredToken = errors.New("token expired")

	// ErrInvalidAssertion is returned when a Google ID token cannot be verified.
	ErrInvalidAssertion = errors.New("invalid identity assertion")

	// ErrNoPasswordSet is returned when a password change is attempted on a Google-only account.
	ErrNoPasswordSet = errors.New("no password set")

	// ErrUserNotFound is returned when a user cannot be found by email, Google ID or ID.
	ErrUserNotFound = errors.New("user not found")
)

// WeakPasswordError lists every password policy violation.
type WeakPasswordError struct {
	Violations []string
}

func (e *WeakPasswordError) Error() string {
	return ErrWeakPassword.Error() + ": " + strings.Join(e.Violations, "; ")
}

// Is makes errors.Is(err, ErrWeakPassword) hold for a *WeakPasswordError.
func (e *WeakPasswordError) Is(target error) bool {
	return target == ErrWeakPassword
}

// ErrorKind is the stable name of a failure reported at the API boundary.
type ErrorKind string

const (
	KindDuplicateIdentity  ErrorKind = "duplicate_identity"
	KindWeakPassword       ErrorKind = "weak_password"
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindAccountDisabled    ErrorKind = "account_disabled"
	KindInvalidToken       ErrorKind = "invalid_token"
	KindExpiredToken       ErrorKind = "expired_token"
	KindInvalidAssertion   ErrorKind = "invalid_assertion"
	KindNoPasswordSet      ErrorKind = "no_password_set"
	KindUserNotFound       ErrorKind = "user_not_found"
	KindInternal           ErrorKind = "internal"

	// KindValidation is reported for request bodies rejected before reaching a usecase.
	KindValidation ErrorKind = "validation"
)

var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrDuplicateIdentity, KindDuplicateIdentity},
	{ErrWeakPassword, KindWeakPassword},
	{ErrInvalidCredentials, KindInvalidCredentials},
	{ErrAccountDisabled, KindAccountDisabled},
	{ErrExpiredToken, KindExpiredToken},
	{ErrInvalidToken, KindInvalidToken},
	{ErrInvalidAssertion, KindInvalidAssertion},
	{ErrNoPasswordSet, KindNoPasswordSet},
	{ErrUserNotFound, KindUserNotFound},
}

// KindOf classifies err. Anything outside the taxonomy is KindInternal.
func KindOf(err error) ErrorKind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}
