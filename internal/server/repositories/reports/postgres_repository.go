package reports

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/techreport/internal/dbx"
	"github.com/dmitrijs2005/techreport/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, report *models.Report) (*models.Report, error) {
	query :=
		`INSERT INTO reports (location, date, machine_number, technician_name, problem_solved)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		report.Location, report.Date, report.MachineNumber, report.TechnicianName, report.ProblemSolved,
	).Scan(&report.ID, &report.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return report, nil
}

// listQueries keeps the ORDER BY direction out of string formatting.
var listQueries = map[models.SortOrder]string{
	models.OrderAsc: `SELECT id, location, date, machine_number, technician_name, problem_solved, created_at
		 FROM reports ORDER BY id ASC`,
	models.OrderDesc: `SELECT id, location, date, machine_number, technician_name, problem_solved, created_at
		 FROM reports ORDER BY id DESC`,
}

func (r *PostgresRepository) List(ctx context.Context, order models.SortOrder) ([]models.Report, error) {
	query, ok := listQueries[order]
	if !ok {
		return nil, fmt.Errorf("unknown sort order %q", order)
	}

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Report, 0)
	for rows.Next() {
		var rep models.Report
		if err := rows.Scan(&rep.ID, &rep.Location, &rep.Date, &rep.MachineNumber,
			&rep.TechnicianName, &rep.ProblemSolved, &rep.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
