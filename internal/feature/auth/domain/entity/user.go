// Package entity defines the domain entities for the auth feature.
package entity

import (
	"errors"
	"strings"
	"time"
)

// ErrIdentityRequired is returned when a NewUser carries both or neither of Password and GoogleID.
var ErrIdentityRequired = errors.New("new user needs exactly one of password or google id")

// User represents a registered user in the system.
// A user is created either with a password or with a Google identity,
// and may later have both bound to the same record.
type User struct {
	// ID is the unique identifier for the user.
	ID uint

	// Email is the canonical local identity. Always stored normalized.
	Email string

	// PasswordHash is the bcrypt hash of the user's password.
	// Empty for accounts created through Google sign-in.
	PasswordHash string

	// GoogleID is the Google subject identifier. Empty until a Google identity is linked.
	GoogleID string

	// Snapshot of the last Google profile seen for this user.
	GoogleEmail   string
	GoogleName    string
	GooglePicture string

	FirstName string
	LastName  string

	// IsActive gates every login path.
	IsActive bool

	// IsVerified is set from the email_verified claim of a trusted OAuth provider.
	IsVerified bool

	CreatedAt time.Time
	UpdatedAt time.Time

	// LastLogin is nil until the first successful authentication.
	LastLogin *time.Time
}

// HasPassword reports whether the user can authenticate with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// HasGoogleAccount reports whether a Google identity is linked to the user.
func (u *User) HasGoogleAccount() bool {
	return u.GoogleID != ""
}

// MarkLoggedIn stamps LastLogin with the given time.
func (u *User) MarkLoggedIn(at time.Time) {
	t := at.UTC()
	u.LastLogin = &t
}

// NewUser holds the fields accepted when creating a user.
// Password is plaintext and is hashed by the store before it is persisted.
type NewUser struct {
	Email    string
	Password string

	GoogleID      string
	GoogleEmail   string
	GoogleName    string
	GooglePicture string

	FirstName  string
	LastName   string
	IsVerified bool
	LastLogin  *time.Time
}

// Validate reports whether exactly one identity is set.
// A Google account gains a password later only through an update of the stored user.
func (nu NewUser) Validate() error {
	if (nu.Password == "") == (strings.TrimSpace(nu.GoogleID) == "") {
		return ErrIdentityRequired
	}
	return nil
}

// Profile holds the optional profile fields supplied at registration.
type Profile struct {
	FirstName string
	LastName  string
}

// ProfileUpdate lists the user-editable profile fields.
// A nil field is left unchanged.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
