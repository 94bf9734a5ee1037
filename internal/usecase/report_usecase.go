package usecase

import (
	"context"

	"mycv/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateReportInput describes one observed sale.
type CreateReportInput struct {
	Make    string
	Model   string
	Year    int
	Mileage int
	Lng     float64
	Lat     float64
	Price   int
}

// EstimateInput describes the vehicle to price.
type EstimateInput struct {
	Make    string
	Model   string
	Year    int
	Mileage int
	Lng     float64
	Lat     float64
}

// EstimateOutput is the averaged price and the number of reports behind it.
type EstimateOutput struct {
	Price   int
	Samples int
}

// ReportUsecase defines price report operations.
type ReportUsecase interface {
	CreateReport(ctx context.Context, owner uuid.UUID, input *CreateReportInput) (*entity.Report, error)
	ApproveReport(ctx context.Context, id uuid.UUID, approved bool) (*entity.Report, error)
	EstimatePrice(ctx context.Context, input *EstimateInput) (*EstimateOutput, error)
}
