package postgres

import (
	"context"
	"database/sql"

	"mycv/internal/domain/entity"
	domainerrors "mycv/internal/domain/errors"
	"mycv/internal/domain/repository"
	"mycv/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// reportRepository implements repository.ReportRepository using GORM.
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository is the constructor for reportRepository.
func NewReportRepository(db *gorm.DB) repository.ReportRepository {
	return &reportRepository{db: db}
}

type estimateRow struct {
	Price   sql.NullFloat64
	Samples int
}

// Create persists a report, assigning an ID when the caller left it empty.
func (repo *reportRepository) Create(ctx context.Context, report *entity.Report) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	reportM := fromReportDomain(report)

	if err := repo.db.WithContext(ctx).Create(reportM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("report owner does not exist")
		}
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("report values out of range")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create report")
	}

	report.CreatedAt = reportM.CreatedAt
	report.UpdatedAt = reportM.UpdatedAt

	return nil
}

// FindByID retrieves a report by ID.
func (repo *reportRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Report, error) {
	var reportM model.ReportModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&reportM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrReportNotFound
		}

		return nil, errors.Wrap(err, "failed to find report by id")
	}

	return toReportDomain(&reportM), nil
}

// SetApproved updates the approval flag.
func (repo *reportRepository) SetApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ReportModel{}).
		Where("id = ?", id).
		Update("approved", approved)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update report")
	}
	if result.RowsAffected == 0 {
		return repository.ErrReportNotFound
	}

	return nil
}

// AveragePrice averages the SampleSize approved reports nearest in mileage
// that match make, model, year window and area.
func (repo *reportRepository) AveragePrice(ctx context.Context, q repository.EstimateQuery) (float64, int, error) {
	nearest := repo.db.
		Model(&model.ReportModel{}).
		Select("price").
		Where("make = ? AND model = ?", q.Make, q.Model).
		Where("approved = ?", true).
		Where("year BETWEEN ? AND ?", q.Year-q.YearWindow, q.Year+q.YearWindow).
		Where("lng BETWEEN ? AND ?", q.Area.Min.Lon(), q.Area.Max.Lon()).
		Where("lat BETWEEN ? AND ?", q.Area.Min.Lat(), q.Area.Max.Lat()).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                "ABS(mileage - ?)",
			Vars:               []any{q.Mileage},
			WithoutParentheses: true,
		}}).
		Limit(q.SampleSize)

	var row estimateRow
	if err := repo.db.WithContext(ctx).
		Table("(?) AS nearest", nearest).
		Select("AVG(price) AS price, COUNT(*) AS samples").
		Scan(&row).Error; err != nil {
		return 0, 0, domainerrors.NewDatabaseExecuteError(err, "failed to estimate price")
	}

	if !row.Price.Valid {
		return 0, 0, nil
	}

	return row.Price.Float64, row.Samples, nil
}

func toReportDomain(data *model.ReportModel) *entity.Report {
	if data == nil {
		return nil
	}

	return &entity.Report{
		ID:        data.ID,
		UserID:    data.UserID,
		Approved:  data.Approved,
		Price:     data.Price,
		Make:      data.Make,
		Model:     data.Model,
		Year:      data.Year,
		Mileage:   data.Mileage,
		Location:  orb.Point{data.Lng, data.Lat},
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

func fromReportDomain(data *entity.Report) *model.ReportModel {
	return &model.ReportModel{
		ID:       data.ID,
		UserID:   data.UserID,
		Approved: data.Approved,
		Price:    data.Price,
		Make:     data.Make,
		Model:    data.Model,
		Year:     data.Year,
		Mileage:  data.Mileage,
		Lng:      data.Location.Lon(),
		Lat:      data.Location.Lat(),
	}
}
