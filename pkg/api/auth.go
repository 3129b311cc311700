package api

// User is the public profile of an account.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
	CreatedAt int64  `json:"created_at,omitempty"`
}

// RegisterRequest creates a password account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// RegisterResponse returns the new user and a signed session token.
type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// LoginRequest exchanges credentials for a session token.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse returns the user and a signed session token.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// GetCurrentUserRequest fetches the caller's profile.
type GetCurrentUserRequest struct{}

// GetCurrentUserResponse returns the caller's profile.
type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// UpdateProfileRequest syncs profile fields from the identity provider.
// Empty fields are left unchanged.
type UpdateProfileRequest struct {
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// UpdateProfileResponse returns the profile after the update.
type UpdateProfileResponse struct {
	User *User `json:"user"`
}
