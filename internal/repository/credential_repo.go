package repository

import (
	"context"

	"github.com/SimpnicServerTeam/scs-credstore/internal/models"
)

// CredentialRepository defines durable storage for (username, hex digest)
// pairs. The in-memory store is the source of truth at runtime; a repository
// only loads it at startup and mirrors every mutation.
type CredentialRepository interface {
	// SaveCredential stores the digest for the username, replacing any
	// previous digest.
	SaveCredential(ctx context.Context, username, digestHex string) error

	// DeleteCredential removes the stored credential. Deleting an unknown
	// username is not an error.
	DeleteCredential(ctx context.Context, username string) error

	// ListCredentials returns every persisted credential.
	ListCredentials(ctx context.Context) ([]models.Credential, error)
}
