package service

import (
	"context"
	"time"
)

// TokenGenerator handles bearer-token issuance for the admin API.
type TokenGenerator interface {
	GenerateToken(username string) (string, time.Time, error)
	ValidateToken(tokenString string) (string, error)
}

// CredentialManager is the surface the HTTP layer consumes: the
// request-authentication side (SignIn, VerifyPassword) and the
// administration side (everything else).
type CredentialManager interface {
	// SignIn verifies the credentials and issues a bearer token.
	// It returns ErrInvalidCredentials when verification fails.
	SignIn(ctx context.Context, username, password string) (token string, expiresAt time.Time, err error)

	// VerifyPassword reports whether the credentials verify. It never
	// returns an error; bad credentials are simply false.
	VerifyPassword(username, password string) bool

	// RegisterUser adds a user by plaintext password and persists the digest.
	RegisterUser(ctx context.Context, username, password string) error

	// ImportCredential adds a user by hex-encoded precomputed digest and
	// persists it.
	ImportCredential(ctx context.Context, username, digestHex string) error

	// RemoveUser deletes the user from durable storage and the store.
	RemoveUser(ctx context.Context, username string) error

	// ChangePassword verifies the current password, replaces the digest and
	// persists the change.
	ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error

	// Users returns a snapshot of the registered usernames.
	Users() []string

	// PasswordHash exports the stored digest as uppercase hex.
	PasswordHash(username string) (string, error)
}
