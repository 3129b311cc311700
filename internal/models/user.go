package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name, synced from the identity provider.
	Name string

	// Email is the user's email address (unique).
	Email string

	// AvatarURL is an optional profile picture reference.
	AvatarURL string

	// PasswordHash is the bcrypt hash used by the password authenticator.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last profile sync.
	UpdatedAt int64
}

// NewUser creates a user with a fresh ID and timestamps.
func NewUser(email, name, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Profile is the public view of a user shown to counterparties.
type Profile struct {
	ID        string
	Name      string
	Email     string
	AvatarURL string
}

// Profile returns the public fields of u.
func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name, Email: u.Email, AvatarURL: u.AvatarURL}
}
