package repository

import (
	"context"

	"mycv/internal/domain/repository"

	"github.com/stretchr/testify/mock"
)

// MockTransactionManager is a mock of repository.TransactionManager.
type MockTransactionManager struct {
	mock.Mock
}

// NewMockTransactionManager creates a mock and asserts its expectations at test cleanup.
func NewMockTransactionManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTransactionManager {
	m := &MockTransactionManager{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Execute returns the configured error, or delegates when the return value is a function.
func (m *MockTransactionManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	ret := m.Called(ctx, fn)

	if rf, ok := ret.Get(0).(func(context.Context, func(repository.RepositoryFactory) error) error); ok {
		return rf(ctx, fn)
	}

	return ret.Error(0)
}

// RunWith returns an Execute implementation that runs fn against factory.
func RunWith(factory repository.RepositoryFactory) func(context.Context, func(repository.RepositoryFactory) error) error {
	return func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
		return fn(factory)
	}
}

// StaticFactory is a RepositoryFactory returning fixed repositories.
type StaticFactory struct {
	Users   repository.UserRepository
	Reports repository.ReportRepository
}

func (f *StaticFactory) NewUserRepository() repository.UserRepository {
	return f.Users
}

func (f *StaticFactory) NewReportRepository() repository.ReportRepository {
	return f.Reports
}
