package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SimpnicServerTeam/scs-credstore/internal/credstore"
	"github.com/SimpnicServerTeam/scs-credstore/internal/mocks"
	"github.com/SimpnicServerTeam/scs-credstore/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// md5("password"), uppercase hex
const passwordDigest = "5F4DCC3B5AA765D61D8327DEB882CF99"

type authServiceTestDeps struct {
	store     *credstore.Store
	mockRepo  *mocks.MockCredentialRepository
	mockToken *mocks.MockTokenService
	service   *AuthService
}

func setupAuthServiceTest(t *testing.T) authServiceTestDeps {
	t.Helper()
	deps := authServiceTestDeps{
		store:     credstore.New(),
		mockRepo:  new(mocks.MockCredentialRepository),
		mockToken: new(mocks.MockTokenService),
	}
	deps.service = NewAuthService(deps.store, deps.mockRepo, deps.mockToken)
	return deps
}

func TestAuthService_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		deps := setupAuthServiceTest(t)
		deps.mockRepo.On("ListCredentials", ctx).Return([]models.Credential{
			{Username: "alice", Digest: passwordDigest},
			{Username: "bob", Digest: "D41D8CD98F00B204E9800998ECF8427E"},
		}, nil).Once()

		require.NoError(t, deps.service.Load(ctx))
		assert.True(t, deps.store.Authenticate("alice", "password"))
		assert.Equal(t, []string{"alice", "bob"}, deps.store.Users())
		deps.mockRepo.AssertExpectations(t)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		deps := setupAuthServiceTest(t)
		deps.mockRepo.On("ListCredentials", ctx).Return(nil, errors.New("storage down")).Once()

		require.Error(t, deps.service.Load(ctx))
	})

	t.Run("CorruptDigest", func(t *testing.T) {
		deps := setupAuthServiceTest(t)
		deps.mockRepo.On("ListCredentials", ctx).Return([]models.Credential{
			{Username: "alice", Digest: "not-hex"},
		}, nil).Once()

		err := deps.service.Load(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, credstore.ErrMalformedHash)
	})
}

func TestAuthService_SignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		deps := setupAuthServiceTest(t)
		require.NoError(t, deps.store.AddUser("alice", "password"))
		expiry := time.Now().Add(time.Hour)
		deps.mockToken.On("GenerateToken", "alice").Return("a.jwt.token", expiry, nil).Once()

		token, expiresAt, err := deps.service.SignIn(ctx, "alice", "password")
		require.NoError(t, err)
		assert.Equal(t, "a.jwt.token", token)
		assert.Equal(t, expiry, expiresAt)
		deps.mockToken.AssertExpectations(t)
	})

	t.Run("InvalidCredentials", func(t *testing.T) {
		deps := setupAuthServiceTest(t)
		require.NoError(t, deps.store.AddUser("alice", "password"))

		_, _, err := deps.service.SignIn(ctx, "alice", "wrong")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		deps.mockToken.AssertNotCalled(t, "GenerateToken", mock.Anything)
	})

	t.Run("TokenError", func(t *testing.T) {
		deps := setupAuthServiceTest(t)
		require.NoError(t, deps.store.AddUser("alice", "password"))
		deps.mockToken.On("GenerateToken", "alice").
			Return("", time.Time{}, errors.New("signing failed")).Once()

		_, _, err := deps.service.SignIn(ctx, "alice", "password")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_RegisterUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		deps := setupAuthServiceTest(t)
		deps.mockRepo.On("SaveCredential", ctx, "alice", passwordDigest).Return(nil).Once()

		require.NoError(t, deps.service.RegisterUser(ctx, "alice", "password"))
		assert.True(t, deps.store.Authenticate("alice", "password"))
		deps.mockRepo.AssertExpectations(t)
	})

	t.Run("Duplicate", func(t *testing.T) {
		deps := setupAuthServiceTest(t)
		deps.mockRepo.On("SaveCredential", ctx, "alice", passwordDigest).Return(nil).Once()
		require.NoError(t, deps.service.RegisterUser(ctx, "alice", "password"))

		err := deps.service.RegisterUser(ctx, "alice", "other")
		require.Error(t, err)
		assert.ErrorIs(t, err, credstore.ErrDuplicateUser)
		// Only the first registration reached the repository.
		deps.mockRepo.AssertNumberOfCalls(t, "SaveCredential", 1)
	})

	t.Run("PersistFailureRollsBack", func(t *testing.T) {
		deps := setupAuthServiceTest(t)
		deps.mockRepo.On("SaveCredential", ctx, "alice", passwordDigest).
			Return(errors.New("storage down")).Once()

		err := deps.service.RegisterUser(ctx, "alice", "password")
		require.Error(t, err)
		assert.False(t, deps.store.Exists("alice"), "failed persist must undo the in-memory add")
	})
}

func TestAuthService_ImportCredential(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		deps := setupAuthServiceTest(t)
		deps.mockRepo.On("SaveCredential", ctx, "alice", passwordDigest).Return(nil).Once()

		// Lowercase input is normalized to uppercase before persisting.
		require.NoError(t, deps.service.ImportCredential(ctx, "alice", "5f4dcc3b5aa765d61d8327deb882cf99"))
		assert.True(t, deps.store.Authenticate("alice", "password"))
		deps.mockRepo.AssertExpectations(t)
	})

	t.Run("MalformedDigest", func(t *testing.T) {
		deps := setupAuthServiceTest(t)

		err := deps.service.ImportCredential(ctx, "alice", "1G")
		require.Error(t, err)
		assert.ErrorIs(t, err, credstore.ErrMalformedHash)
		deps.mockRepo.AssertNotCalled(t, "SaveCredential", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthService_RemoveUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		deps := setupAuthServiceTest(t)
		require.NoError(t, deps.store.AddUser("alice", "password"))
		deps.mockRepo.On("DeleteCredential", ctx, "alice").Return(nil).Once()

		require.NoError(t, deps.service.RemoveUser(ctx, "alice"))
		assert.False(t, deps.store.Exists("alice"))
		deps.mockRepo.AssertExpectations(t)
	})

	t.Run("PersistFailureKeepsUser", func(t *testing.T) {
		deps := setupAuthServiceTest(t)
		require.NoError(t, deps.store.AddUser("alice", "password"))
		deps.mockRepo.On("DeleteCredential", ctx, "alice").
			Return(errors.New("storage down")).Once()

		require.Error(t, deps.service.RemoveUser(ctx, "alice"))
		assert.True(t, deps.store.Exists("alice"))
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		deps := setupAuthServiceTest(t)
		require.NoError(t, deps.store.AddUser("alice", "old"))
		deps.mockRepo.On("SaveCredential", ctx, "alice", mock.AnythingOfType("string")).Return(nil).Once()

		require.NoError(t, deps.service.ChangePassword(ctx, "alice", "old", "new"))
		assert.True(t, deps.store.Authenticate("alice", "new"))
		assert.False(t, deps.store.Authenticate("alice", "old"))
		deps.mockRepo.AssertExpectations(t)
	})

	t.Run("WrongCurrentPassword", func(t *testing.T) {
		deps := setupAuthServiceTest(t)
		require.NoError(t, deps.store.AddUser("alice", "old"))

		err := deps.service.ChangePassword(ctx, "alice", "wrong", "new")
		require.Error(t, err)
		assert.ErrorIs(t, err, credstore.ErrAuthentication)
		assert.True(t, deps.store.Authenticate("alice", "old"))
		deps.mockRepo.AssertNotCalled(t, "SaveCredential", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("PersistFailureRestoresOldDigest", func(t *testing.T) {
		deps := setupAuthServiceTest(t)
		require.NoError(t, deps.store.AddUser("alice", "old"))
		deps.mockRepo.On("SaveCredential", ctx, "alice", mock.AnythingOfType("string")).
			Return(errors.New("storage down")).Once()

		require.Error(t, deps.service.ChangePassword(ctx, "alice", "old", "new"))
		assert.True(t, deps.store.Authenticate("alice", "old"))
		assert.False(t, deps.store.Authenticate("alice", "new"))
	})
}

func TestAuthService_VerifyPassword(t *testing.T) {
	deps := setupAuthServiceTest(t)
	require.NoError(t, deps.store.AddUser("alice", "password"))

	assert.True(t, deps.service.VerifyPassword("alice", "password"))
	assert.False(t, deps.service.VerifyPassword("alice", "wrong"))
	assert.False(t, deps.service.VerifyPassword("nobody", "password"))
}

func TestAuthService_PasswordHash(t *testing.T) {
	deps := setupAuthServiceTest(t)
	require.NoError(t, deps.store.AddUser("alice", "password"))

	digest, err := deps.service.PasswordHash("alice")
	require.NoError(t, err)
	assert.Equal(t, passwordDigest, digest)

	_, err = deps.service.PasswordHash("nobody")
	assert.ErrorIs(t, err, credstore.ErrUserNotFound)
}
