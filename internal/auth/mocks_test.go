package auth

import (
	"context"

	"github.com/stretchr/testify/mock"

	"streamly/internal/domain"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) FindUserByID(ctx context.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserStore) FindUserByEmail(ctx context.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserStore) CreateUser(ctx context.Context, email, username, passwordHash string, role domain.Role) (domain.User, error) {
	args := m.Called(ctx, email, username, passwordHash, role)
	return args.Get(0).(domain.User), args.Error(1)
}
