package models

import "time"

// SignInRequest is the input for credential sign-in
type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignInResponse carries the bearer token issued on successful sign-in
type SignInResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CreateUserRequest is the input for registering a user by plaintext password
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ImportCredentialRequest registers a user by precomputed digest, as
// exported by the hash endpoint or an external tool
type ImportCredentialRequest struct {
	Username string `json:"username"`
	Digest   string `json:"digest"` // Hex encoded digest
}

// ChangePasswordRequest is the input for replacing a user's password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UserListResponse is the snapshot of registered usernames
type UserListResponse struct {
	Users []string `json:"users"`
}
