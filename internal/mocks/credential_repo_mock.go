package mocks

import (
	"context"

	"github.com/SimpnicServerTeam/scs-credstore/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) SaveCredential(ctx context.Context, username, digestHex string) error {
	args := m.Called(ctx, username, digestHex)
	return args.Error(0)
}

func (m *MockCredentialRepository) DeleteCredential(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockCredentialRepository) ListCredentials(ctx context.Context) ([]models.Credential, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Credential), args.Error(1)
}
