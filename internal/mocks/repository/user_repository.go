// Package repository provides testify mocks for the domain repository interfaces.
package repository

import (
	"context"

	"mycv/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock of repository.UserRepository. It also satisfies
// repository.CredentialStore.
type MockUserRepository struct {
	mock.Mock
}

// NewMockUserRepository creates a mock and asserts its expectations at test cleanup.
func NewMockUserRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUserRepository {
	m := &MockUserRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockUserRepository) Find(ctx context.Context, email string) ([]*entity.User, error) {
	ret := m.Called(ctx, email)

	var users []*entity.User
	if v := ret.Get(0); v != nil {
		users = v.([]*entity.User)
	}

	return users, ret.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, email, storedSecret string) (*entity.User, error) {
	ret := m.Called(ctx, email, storedSecret)

	if rf, ok := ret.Get(0).(func(context.Context, string, string) (*entity.User, error)); ok {
		return rf(ctx, email, storedSecret)
	}

	var user *entity.User
	if v := ret.Get(0); v != nil {
		user = v.(*entity.User)
	}

	return user, ret.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	ret := m.Called(ctx, id)

	var user *entity.User
	if v := ret.Get(0); v != nil {
		user = v.(*entity.User)
	}

	return user, ret.Error(1)
}

func (m *MockUserRepository) UpdateEmail(ctx context.Context, id uuid.UUID, email string) (*entity.User, error) {
	ret := m.Called(ctx, id, email)

	var user *entity.User
	if v := ret.Get(0); v != nil {
		user = v.(*entity.User)
	}

	return user, ret.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
