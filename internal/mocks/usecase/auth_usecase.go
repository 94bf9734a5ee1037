package usecase

import (
	"context"

	"mycv/internal/domain/entity"
	"mycv/internal/usecase"

	"github.com/stretchr/testify/mock"
)

// MockAuthUsecase is a mock of usecase.AuthUsecase.
type MockAuthUsecase struct {
	mock.Mock
}

// NewMockAuthUsecase creates a mock and asserts its expectations at test cleanup.
func NewMockAuthUsecase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAuthUsecase {
	m := &MockAuthUsecase{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockAuthUsecase) Signup(ctx context.Context, input *usecase.SignupInput) (*entity.Identity, error) {
	ret := m.Called(ctx, input)

	return identityAt(ret, 0), ret.Error(1)
}

func (m *MockAuthUsecase) Signin(ctx context.Context, input *usecase.SigninInput) (*entity.Identity, error) {
	ret := m.Called(ctx, input)

	return identityAt(ret, 0), ret.Error(1)
}

func identityAt(ret mock.Arguments, i int) *entity.Identity {
	if v := ret.Get(i); v != nil {
		return v.(*entity.Identity)
	}

	return nil
}
