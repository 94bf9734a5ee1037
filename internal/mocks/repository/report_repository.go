package repository

import (
	"context"

	"mycv/internal/domain/entity"
	"mycv/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockReportRepository is a mock of repository.ReportRepository.
type MockReportRepository struct {
	mock.Mock
}

// NewMockReportRepository creates a mock and asserts its expectations at test cleanup.
func NewMockReportRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockReportRepository {
	m := &MockReportRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockReportRepository) Create(ctx context.Context, report *entity.Report) error {
	return m.Called(ctx, report).Error(0)
}

func (m *MockReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Report, error) {
	ret := m.Called(ctx, id)

	var report *entity.Report
	if v := ret.Get(0); v != nil {
		report = v.(*entity.Report)
	}

	return report, ret.Error(1)
}

func (m *MockReportRepository) SetApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	return m.Called(ctx, id, approved).Error(0)
}

func (m *MockReportRepository) AveragePrice(ctx context.Context, query repository.EstimateQuery) (float64, int, error) {
	ret := m.Called(ctx, query)

	return ret.Get(0).(float64), ret.Int(1), ret.Error(2)
}
