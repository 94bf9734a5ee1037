package repository

import (
	"context"
	"errors"

	"mycv/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// ErrReportNotFound is returned when no report has the given ID.
var ErrReportNotFound = errors.New("report not found")

// EstimateQuery selects the approved reports comparable to a vehicle.
type EstimateQuery struct {
	Make       string
	Model      string
	Year       int
	YearWindow int
	Mileage    int
	Area       orb.Bound
	SampleSize int
}

// ReportRepository persists price reports.
type ReportRepository interface {
	Create(ctx context.Context, report *entity.Report) error

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Report, error)

	// SetApproved changes the approval flag of a report.
	SetApproved(ctx context.Context, id uuid.UUID, approved bool) error

	// AveragePrice returns the mean price of the SampleSize reports closest in
	// mileage matching the query, plus how many reports were averaged.
	AveragePrice(ctx context.Context, query EstimateQuery) (float64, int, error)
}
