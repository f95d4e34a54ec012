package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockCredentialManager struct {
	mock.Mock
}

func (m *MockCredentialManager) SignIn(ctx context.Context, username, password string) (string, time.Time, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockCredentialManager) VerifyPassword(username, password string) bool {
	args := m.Called(username, password)
	return args.Bool(0)
}

func (m *MockCredentialManager) RegisterUser(ctx context.Context, username, password string) error {
	args := m.Called(ctx, username, password)
	return args.Error(0)
}

func (m *MockCredentialManager) ImportCredential(ctx context.Context, username, digestHex string) error {
	args := m.Called(ctx, username, digestHex)
	return args.Error(0)
}

func (m *MockCredentialManager) RemoveUser(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockCredentialManager) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	args := m.Called(ctx, username, currentPassword, newPassword)
	return args.Error(0)
}

func (m *MockCredentialManager) Users() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockCredentialManager) PasswordHash(username string) (string, error) {
	args := m.Called(username)
	return args.String(0), args.Error(1)
}
