// Package service provides testify mocks for the domain service interfaces.
package service

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPasswordHasher is a mock of service.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

// NewMockPasswordHasher creates a mock and asserts its expectations at test cleanup.
func NewMockPasswordHasher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockPasswordHasher) GenerateSalt() (string, error) {
	ret := m.Called()

	return ret.String(0), ret.Error(1)
}

func (m *MockPasswordHasher) DeriveKey(ctx context.Context, password, salt string) ([]byte, error) {
	ret := m.Called(ctx, password, salt)

	var key []byte
	if v := ret.Get(0); v != nil {
		key = v.([]byte)
	}

	return key, ret.Error(1)
}

func (m *MockPasswordHasher) Encode(salt string, derivedKey []byte) string {
	return m.Called(salt, derivedKey).String(0)
}

func (m *MockPasswordHasher) Decode(storedSecret string) (string, []byte, error) {
	ret := m.Called(storedSecret)

	var key []byte
	if v := ret.Get(1); v != nil {
		key = v.([]byte)
	}

	return ret.String(0), key, ret.Error(2)
}
