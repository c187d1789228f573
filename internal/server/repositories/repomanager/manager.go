package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/techreport/internal/dbx"
	"github.com/dmitrijs2005/techreport/internal/server/repositories/reports"
	"github.com/dmitrijs2005/techreport/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/techreport/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to a DB handle or an open
// transaction, so services can compose them inside dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Reports(db dbx.DBTX) reports.Repository
}
