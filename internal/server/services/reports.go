package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/techreport/internal/common"
	"github.com/dmitrijs2005/techreport/internal/logging"
	"github.com/dmitrijs2005/techreport/internal/server/models"
	"github.com/dmitrijs2005/techreport/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
)

// ReportService stores and lists technician reports. Every authenticated
// user sees every report.
type ReportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	validate    *validator.Validate
	logger      logging.Logger
}

func NewReportService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *ReportService {
	return &ReportService{
		db:          db,
		repomanager: m,
		validate:    validator.New(),
		logger:      logger,
	}
}

// Save validates and stores a report. Any empty field yields
// common.ErrorValidation and nothing is written.
func (s *ReportService) Save(ctx context.Context, report *models.Report) (*models.Report, error) {
	if err := s.validate.Struct(report); err != nil {
		return nil, validationError(err)
	}

	saved, err := s.repomanager.Reports(s.db).Create(ctx, report)
	if err != nil {
		s.logger.Error(ctx, "report insert failed", "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	s.logger.Info(ctx, "report saved", "report_id", saved.ID)
	return saved, nil
}

// List returns all reports ordered by id.
func (s *ReportService) List(ctx context.Context, order models.SortOrder) ([]models.Report, error) {
	list, err := s.repomanager.Reports(s.db).List(ctx, order)
	if err != nil {
		s.logger.Error(ctx, "report list failed", "order", order, "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return list, nil
}
