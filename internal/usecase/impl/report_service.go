package impl

import (
	"context"
	"log/slog"
	"math"

	"mycv/config"
	deliverycontext "mycv/internal/delivery/context"
	"mycv/internal/domain/entity"
	domainerrors "mycv/internal/domain/errors"
	"mycv/internal/domain/repository"
	"mycv/internal/usecase"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// reportService implements the ReportUsecase interface.
type reportService struct {
	txManager  repository.TransactionManager
	reportRepo repository.ReportRepository
	radius     float64
	yearWindow int
	sampleSize int
	logger     *slog.Logger
}

// ReportServiceParams holds dependencies for ReportService, injected by Fx.
type ReportServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	ReportRepo repository.ReportRepository
	Config     *config.Config
	Logger     *slog.Logger
}

// NewReportService is the constructor for reportService.
func NewReportService(params ReportServiceParams) usecase.ReportUsecase {
	return &reportService{
		txManager:  params.TxManager,
		reportRepo: params.ReportRepo,
		radius:     params.Config.Report.SearchRadiusDeg,
		yearWindow: params.Config.Report.YearWindow,
		sampleSize: params.Config.Report.SampleSize,
		logger:     params.Logger,
	}
}

func (srv *reportService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateReport stores an unapproved report owned by owner.
func (srv *reportService) CreateReport(ctx context.Context, owner uuid.UUID, input *usecase.CreateReportInput) (*entity.Report, error) {
	report := &entity.Report{
		ID:       uuid.New(),
		UserID:   owner,
		Approved: false,
		Price:    input.Price,
		Make:     input.Make,
		Model:    input.Model,
		Year:     input.Year,
		Mileage:  input.Mileage,
		Location: orb.Point{input.Lng, input.Lat},
	}

	if err := srv.reportRepo.Create(ctx, report); err != nil {
		return nil, errors.Wrap(err, "failed to create report")
	}

	srv.log(ctx).Debug("Report created", slog.Any("reportID", report.ID), slog.Any("userID", owner))

	return report, nil
}

// ApproveReport sets the approval flag and returns the updated report.
func (srv *reportService) ApproveReport(ctx context.Context, id uuid.UUID, approved bool) (*entity.Report, error) {
	var updated *entity.Report
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		reportRepo := repoFactory.NewReportRepository()

		if err := reportRepo.SetApproved(ctx, id, approved); err != nil {
			return err
		}

		report, err := reportRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		updated = report

		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			return nil, domainerrors.ErrReportNotFound.WrapMessage("failed to approve report")
		}

		return nil, errors.Wrap(err, "failed to approve report")
	}

	srv.log(ctx).Info("Report approval changed", slog.Any("reportID", id), slog.Bool("approved", approved))

	return updated, nil
}

// EstimatePrice averages the closest approved reports for the same vehicle near the given point.
func (srv *reportService) EstimatePrice(ctx context.Context, input *usecase.EstimateInput) (*usecase.EstimateOutput, error) {
	query := repository.EstimateQuery{
		Make:       input.Make,
		Model:      input.Model,
		Year:       input.Year,
		YearWindow: srv.yearWindow,
		Mileage:    input.Mileage,
		Area:       orb.Point{input.Lng, input.Lat}.Bound().Pad(srv.radius),
		SampleSize: srv.sampleSize,
	}

	avg, samples, err := srv.reportRepo.AveragePrice(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to estimate price")
	}
	if samples == 0 {
		return nil, domainerrors.ErrNoEstimate.WrapMessage("no approved reports match")
	}

	return &usecase.EstimateOutput{
		Price:   int(math.Round(avg)),
		Samples: samples,
	}, nil
}
