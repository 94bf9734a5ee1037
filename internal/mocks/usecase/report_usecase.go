package usecase

import (
	"context"

	"mycv/internal/domain/entity"
	"mycv/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockReportUsecase is a mock of usecase.ReportUsecase.
type MockReportUsecase struct {
	mock.Mock
}

// NewMockReportUsecase creates a mock and asserts its expectations at test cleanup.
func NewMockReportUsecase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockReportUsecase {
	m := &MockReportUsecase{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockReportUsecase) CreateReport(ctx context.Context, owner uuid.UUID, input *usecase.CreateReportInput) (*entity.Report, error) {
	ret := m.Called(ctx, owner, input)

	return reportAt(ret, 0), ret.Error(1)
}

func (m *MockReportUsecase) ApproveReport(ctx context.Context, id uuid.UUID, approved bool) (*entity.Report, error) {
	ret := m.Called(ctx, id, approved)

	return reportAt(ret, 0), ret.Error(1)
}

func (m *MockReportUsecase) EstimatePrice(ctx context.Context, input *usecase.EstimateInput) (*usecase.EstimateOutput, error) {
	ret := m.Called(ctx, input)

	var out *usecase.EstimateOutput
	if v := ret.Get(0); v != nil {
		out = v.(*usecase.EstimateOutput)
	}

	return out, ret.Error(1)
}

func reportAt(ret mock.Arguments, i int) *entity.Report {
	if v := ret.Get(i); v != nil {
		return v.(*entity.Report)
	}

	return nil
}
