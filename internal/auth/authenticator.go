// Package auth resolves callers to ledger users. Everything past this
// package sees only a user ID.
package auth

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
)

// Authenticator turns a credential into a ledger user.
// Implementations may back onto passwords or an external identity provider;
// the services only depend on this interface.
type Authenticator interface {
	// Register creates a user account for email with the given credential.
	Register(ctx context.Context, email, name, credential string) (*models.User, error)

	// Authenticate verifies the credential and returns the matching user.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks the credential before it is stored.
	ValidateCredential(credential string) error
}
