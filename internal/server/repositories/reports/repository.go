// Package reports persists technician service reports.
package reports

import (
	"context"

	"github.com/dmitrijs2005/techreport/internal/server/models"
)

type Repository interface {
	// Create inserts the report and fills in its ID and CreatedAt.
	Create(ctx context.Context, report *models.Report) (*models.Report, error)

	// List returns every report ordered by id in the given direction.
	List(ctx context.Context, order models.SortOrder) ([]models.Report, error)
}
