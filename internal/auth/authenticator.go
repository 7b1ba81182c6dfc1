package auth

import (
	"context"

	"github.com/mmynk/splitshare/internal/models"
)

var _ Authenticator = (*PasswordAuthenticator)(nil)

// Authenticator creates and verifies email/password accounts. Services and
// the demo seed depend on this interface, tests swap in a cheap bcrypt cost.
type Authenticator interface {
	// Register normalizes the email, enforces the password policy and stores
	// a bcrypt hash. A blank display name becomes the email's local part.
	// Fails with ErrInvalidEmail, ErrWeakPassword or ErrEmailExists.
	Register(ctx context.Context, email, displayName, password string) (*models.User, error)

	// Authenticate returns the account for a matching email and password,
	// or ErrInvalidCredentials without saying which one was wrong.
	Authenticate(ctx context.Context, email, password string) (*models.User, error)

	// ValidateCredential reports ErrWeakPassword for passwords under the minimum length.
	ValidateCredential(password string) error
}
