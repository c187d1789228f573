package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/dmitrijs2005/techreport/internal/common"
	"github.com/dmitrijs2005/techreport/internal/filex"
	"github.com/dmitrijs2005/techreport/internal/logging"
	"github.com/dmitrijs2005/techreport/internal/server/export"
	"github.com/dmitrijs2005/techreport/internal/server/models"
	"github.com/dmitrijs2005/techreport/internal/server/repositories/repomanager"
)

// archiveTimeout bounds one upload of an export to object storage.
const archiveTimeout = 2 * time.Minute

// Archiver keeps a copy of a finished export somewhere durable.
type Archiver interface {
	Archive(ctx context.Context, filePath string) (string, error)
}

// ExportService renders all reports into the spreadsheet at a fixed path.
// Each export replaces the previous one.
type ExportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	path        string
	archiver    Archiver
	logger      logging.Logger

	mu sync.Mutex
}

// NewExportService writes exports to dir/export.FileName. archiver may be nil.
func NewExportService(db *sql.DB, m repomanager.RepositoryManager, dir string, archiver Archiver, logger logging.Logger) *ExportService {
	return &ExportService{
		db:          db,
		repomanager: m,
		path:        filepath.Join(dir, export.FileName),
		archiver:    archiver,
		logger:      logger,
	}
}

// Export writes header plus one row per report in ascending id order and
// returns the file path. With no reports it returns common.ErrorNoData and
// leaves any earlier file in place.
func (s *ExportService) Export(ctx context.Context) (string, error) {
	list, err := s.repomanager.Reports(s.db).List(ctx, models.OrderAsc)
	if err != nil {
		s.logger.Error(ctx, "export read failed", "error", err)
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if len(list) == 0 {
		return "", common.ErrorNoData
	}

	if err := s.write(list); err != nil {
		s.logger.Error(ctx, "export write failed", "path", s.path, "error", err)
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	s.logger.Info(ctx, "reports exported", "rows", len(list), "path", s.path)

	if s.archiver != nil {
		s.archive(ctx)
	}

	return s.path, nil
}

func (s *ExportService) write(list []models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return filex.ReplaceFile(s.path, func(w io.Writer) error {
		return export.WriteWorkbook(w, list)
	})
}

// archive uploads the current artifact outside the export lock. It outlives
// the request that triggered it, bounded by archiveTimeout.
func (s *ExportService) archive(ctx context.Context) {
	actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()

	key, err := s.archiver.Archive(actx, s.path)
	if err != nil {
		s.logger.Warn(actx, "export archive failed", "error", err)
		return
	}
	s.logger.Info(actx, "export archived", "key", key)
}
