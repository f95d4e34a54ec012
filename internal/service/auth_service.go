package service

import (
	"context"
	"fmt"
	"time"

	"github.com/SimpnicServerTeam/scs-credstore/internal/credstore"
	"github.com/SimpnicServerTeam/scs-credstore/internal/repository"
	"github.com/rs/zerolog/log"
)

var _ CredentialManager = (*AuthService)(nil)

// ErrInvalidCredentials is returned by SignIn when the username or password
// does not verify. The store itself only ever answers with a boolean; the
// error form exists so the HTTP layer can map failures to 401.
var ErrInvalidCredentials = fmt.Errorf("invalid username or password")

// AuthService composes the in-memory credential store with durable storage
// and token issuance. The store is authoritative at runtime; every mutation
// is written through to the repository, and a failed write rolls the
// in-memory change back so both sides stay aligned.
type AuthService struct {
	store    *credstore.Store
	creds    repository.CredentialRepository
	tokenSvc TokenGenerator
}

func NewAuthService(store *credstore.Store, creds repository.CredentialRepository, tokenSvc TokenGenerator) *AuthService {
	return &AuthService{
		store:    store,
		creds:    creds,
		tokenSvc: tokenSvc,
	}
}

// Load pulls every persisted credential into the store. Call once at
// startup, before the server starts answering requests.
func (s *AuthService) Load(ctx context.Context) error {
	creds, err := s.creds.ListCredentials(ctx)
	if err != nil {
		return fmt.Errorf("failed to list persisted credentials: %w", err)
	}
	for _, c := range creds {
		if err := s.store.AddUserHashHex(c.Username, c.Digest); err != nil {
			return fmt.Errorf("failed to load credential for %q: %w", c.Username, err)
		}
	}
	log.Info().Int("users", s.store.Len()).Msg("Credential store loaded")
	return nil
}

func (s *AuthService) SignIn(ctx context.Context, username, password string) (string, time.Time, error) {
	if !s.store.Authenticate(username, password) {
		return "", time.Time{}, ErrInvalidCredentials
	}

	token, expiry, err := s.tokenSvc.GenerateToken(username)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to issue token: %w", err)
	}
	return token, expiry, nil
}

func (s *AuthService) VerifyPassword(username, password string) bool {
	return s.store.Authenticate(username, password)
}

func (s *AuthService) RegisterUser(ctx context.Context, username, password string) error {
	if err := s.store.AddUser(username, password); err != nil {
		return err
	}
	return s.persistNewUser(ctx, username)
}

func (s *AuthService) ImportCredential(ctx context.Context, username, digestHex string) error {
	if err := s.store.AddUserHashHex(username, digestHex); err != nil {
		return err
	}
	return s.persistNewUser(ctx, username)
}

func (s *AuthService) RemoveUser(ctx context.Context, username string) error {
	// Durable storage first: if the delete fails nothing has changed.
	if err := s.creds.DeleteCredential(ctx, username); err != nil {
		return fmt.Errorf("failed to delete persisted credential: %w", err)
	}
	s.store.RemoveUser(username)
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	oldDigest, _ := s.store.PasswordHash(username)

	if err := s.store.ChangePassword(username, currentPassword, newPassword); err != nil {
		return err
	}

	newDigest, err := s.store.PasswordHash(username)
	if err != nil {
		return err
	}
	if err := s.creds.SaveCredential(ctx, username, newDigest); err != nil {
		// Roll the in-memory digest back to what durable storage still holds.
		s.store.RemoveUser(username)
		if restoreErr := s.store.AddUserHashHex(username, oldDigest); restoreErr != nil {
			log.Error().Err(restoreErr).Str("username", username).Msg("Failed to restore credential after persist error")
		}
		return fmt.Errorf("failed to persist credential: %w", err)
	}
	return nil
}

func (s *AuthService) Users() []string {
	return s.store.Users()
}

func (s *AuthService) PasswordHash(username string) (string, error) {
	return s.store.PasswordHash(username)
}

// persistNewUser mirrors a freshly added user to durable storage, undoing
// the in-memory add when the write fails.
func (s *AuthService) persistNewUser(ctx context.Context, username string) error {
	digestHex, err := s.store.PasswordHash(username)
	if err != nil {
		return err
	}
	if err := s.creds.SaveCredential(ctx, username, digestHex); err != nil {
		s.store.RemoveUser(username)
		return fmt.Errorf("failed to persist credential: %w", err)
	}
	return nil
}
