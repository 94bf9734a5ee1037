package usecase

import (
	"context"

	"mycv/internal/domain/entity"
	"mycv/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserUsecase is a mock of usecase.UserUsecase.
type MockUserUsecase struct {
	mock.Mock
}

// NewMockUserUsecase creates a mock and asserts its expectations at test cleanup.
func NewMockUserUsecase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUserUsecase {
	m := &MockUserUsecase{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockUserUsecase) FindUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	ret := m.Called(ctx, id)

	return userAt(ret, 0), ret.Error(1)
}

func (m *MockUserUsecase) FindUsers(ctx context.Context, email string) ([]*entity.User, error) {
	ret := m.Called(ctx, email)

	var users []*entity.User
	if v := ret.Get(0); v != nil {
		users = v.([]*entity.User)
	}

	return users, ret.Error(1)
}

func (m *MockUserUsecase) UpdateUser(ctx context.Context, id uuid.UUID, input *usecase.UpdateUserInput) (*entity.User, error) {
	ret := m.Called(ctx, id, input)

	return userAt(ret, 0), ret.Error(1)
}

func (m *MockUserUsecase) RemoveUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	ret := m.Called(ctx, id)

	return userAt(ret, 0), ret.Error(1)
}

func userAt(ret mock.Arguments, i int) *entity.User {
	if v := ret.Get(i); v != nil {
		return v.(*entity.User)
	}

	return nil
}
