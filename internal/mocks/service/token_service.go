package service

import (
	"time"

	"mycv/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTokenService is a mock of service.TokenService.
type MockTokenService struct {
	mock.Mock
}

// NewMockTokenService creates a mock and asserts its expectations at test cleanup.
func NewMockTokenService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTokenService {
	m := &MockTokenService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTokenService) GenerateAccessToken(userID uuid.UUID, admin bool) (string, error) {
	ret := m.Called(userID, admin)

	return ret.String(0), ret.Error(1)
}

func (m *MockTokenService) ValidateAccessToken(tokenString string) (*service.Claims, error) {
	ret := m.Called(tokenString)

	var claims *service.Claims
	if v := ret.Get(0); v != nil {
		claims = v.(*service.Claims)
	}

	return claims, ret.Error(1)
}

func (m *MockTokenService) AccessTokenDuration() time.Duration {
	return m.Called().Get(0).(time.Duration)
}
