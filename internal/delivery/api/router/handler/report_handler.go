package handler

import (
	"log/slog"
	"net/http"

	"mycv/internal/delivery/api/response"
	deliverycontext "mycv/internal/delivery/context"
	"mycv/internal/domain/entity"
	domainerrors "mycv/internal/domain/errors"
	"mycv/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ReportHandlerParams holds dependencies for ReportHandler, injected by Fx.
type ReportHandlerParams struct {
	fx.In

	ReportUC usecase.ReportUsecase
	Logger   *slog.Logger
}

// ReportHandler serves price reports and estimates.
type ReportHandler struct {
	reportUC usecase.ReportUsecase
	logger   *slog.Logger
}

// NewReportHandler is the constructor for ReportHandler
func NewReportHandler(params ReportHandlerParams) *ReportHandler {
	return &ReportHandler{
		reportUC: params.ReportUC,
		logger:   params.Logger,
	}
}

// CreateReportRequest represents the request body for submitting a sale
type CreateReportRequest struct {
	Make    string  `json:"make" validate:"required"`
	Model   string  `json:"model" validate:"required"`
	Year    int     `json:"year" validate:"gte=1930,lte=2050"`
	Mileage int     `json:"mileage" validate:"gte=0,lte=1000000"`
	Lng     float64 `json:"lng" validate:"gte=-180,lte=180"`
	Lat     float64 `json:"lat" validate:"gte=-90,lte=90"`
	Price   int     `json:"price" validate:"gte=0,lte=1000000"`
}

// ApproveReportRequest represents the request body for moderating a report
type ApproveReportRequest struct {
	Approved *bool `json:"approved" validate:"required"`
}

// EstimateQuery lists the query parameters of a price estimate
type EstimateQuery struct {
	Make    string  `query:"make" json:"make" validate:"required"`
	Model   string  `query:"model" json:"model" validate:"required"`
	Year    int     `query:"year" json:"year" validate:"gte=1930,lte=2050"`
	Mileage int     `query:"mileage" json:"mileage" validate:"gte=0,lte=1000000"`
	Lng     float64 `query:"lng" json:"lng" validate:"gte=-180,lte=180"`
	Lat     float64 `query:"lat" json:"lat" validate:"gte=-90,lte=90"`
}

// ReportResponse is the public view of a report
type ReportResponse struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	Approved bool      `json:"approved"`
	Price    int       `json:"price"`
	Make     string    `json:"make"`
	Model    string    `json:"model"`
	Year     int       `json:"year"`
	Mileage  int       `json:"mileage"`
	Lng      float64   `json:"lng"`
	Lat      float64   `json:"lat"`
}

// EstimateResponse is the averaged price of comparable reports
type EstimateResponse struct {
	Price   int `json:"price"`
	Samples int `json:"samples"`
}

// CreateReport stores a report owned by the current user.
func (h *ReportHandler) CreateReport(c echo.Context) error {
	user, ok := deliverycontext.GetCurrentUser(c)
	if !ok {
		return response.HandleAppError(c, domainerrors.ErrForbidden)
	}

	var req CreateReportRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid report input")
	}

	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	report, err := h.reportUC.CreateReport(c.Request().Context(), user.ID, &usecase.CreateReportInput{
		Make:    req.Make,
		Model:   req.Model,
		Year:    req.Year,
		Mileage: req.Mileage,
		Lng:     req.Lng,
		Lat:     req.Lat,
		Price:   req.Price,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, toReportResponse(report))
}

// ApproveReport sets the approval flag of a report.
func (h *ReportHandler) ApproveReport(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid report ID")
	}

	var req ApproveReportRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid approval input")
	}

	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	report, err := h.reportUC.ApproveReport(c.Request().Context(), id, *req.Approved)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toReportResponse(report))
}

// GetEstimate prices a vehicle from approved comparable reports.
func (h *ReportHandler) GetEstimate(c echo.Context) error {
	var q EstimateQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid estimate query")
	}

	if err := c.Validate(&q); err != nil {
		return response.HandleAppError(c, err)
	}

	estimate, err := h.reportUC.EstimatePrice(c.Request().Context(), &usecase.EstimateInput{
		Make:    q.Make,
		Model:   q.Model,
		Year:    q.Year,
		Mileage: q.Mileage,
		Lng:     q.Lng,
		Lat:     q.Lat,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, EstimateResponse{
		Price:   estimate.Price,
		Samples: estimate.Samples,
	})
}

func toReportResponse(report *entity.Report) ReportResponse {
	return ReportResponse{
		ID:       report.ID,
		UserID:   report.UserID,
		Approved: report.Approved,
		Price:    report.Price,
		Make:     report.Make,
		Model:    report.Model,
		Year:     report.Year,
		Mileage:  report.Mileage,
		Lng:      report.Location.Lon(),
		Lat:      report.Location.Lat(),
	}
}
