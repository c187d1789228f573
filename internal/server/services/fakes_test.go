package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/techreport/internal/common"
	"github.com/dmitrijs2005/techreport/internal/dbx"
	"github.com/dmitrijs2005/techreport/internal/logging"
	"github.com/dmitrijs2005/techreport/internal/server/config"
	"github.com/dmitrijs2005/techreport/internal/server/models"
	"github.com/dmitrijs2005/techreport/internal/server/repositories/reports"
	"github.com/dmitrijs2005/techreport/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/techreport/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BcryptCost = 4
	return cfg
}

// fakeUsersRepo keeps users in memory and enforces unique username/email.
type fakeUsersRepo struct {
	mu        sync.Mutex
	byName    map[string]*models.User
	createErr error
	getErr    error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byName: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.byName {
		if existing.UserName == u.UserName || existing.Email == u.Email {
			return nil, common.ErrorConflict
		}
	}
	u.CreatedAt = time.Now()
	f.byName[u.UserName] = u
	return u, nil
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byName[userName]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type fakeSessionsRepo struct {
	mu       sync.Mutex
	rows     map[string]*models.Session
	names    map[string]string
	deleted  []string
	purgedAt time.Time

	createErr error
	findErr   error
	delErr    error
	purgeOut  int64
	purgeErr  error
}

func newFakeSessionsRepo() *fakeSessionsRepo {
	return &fakeSessionsRepo{rows: map[string]*models.Session{}, names: map[string]string{}}
}

func (f *fakeSessionsRepo) Create(ctx context.Context, s *models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.rows[s.Token] = s
	return nil
}

func (f *fakeSessionsRepo) Find(ctx context.Context, token string) (*models.Session, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, "", f.findErr
	}
	s, ok := f.rows[token]
	if !ok {
		return nil, "", common.ErrorNotFound
	}
	return s, f.names[s.UserID], nil
}

func (f *fakeSessionsRepo) Delete(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, token)
	delete(f.rows, token)
	return nil
}

func (f *fakeSessionsRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purgedAt = now
	return f.purgeOut, f.purgeErr
}

type fakeReportsRepo struct {
	mu      sync.Mutex
	rows    []models.Report
	created int

	createErr error
	listErr   error
	lastOrder models.SortOrder
}

func (f *fakeReportsRepo) Create(ctx context.Context, r *models.Report) (*models.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created++
	r.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, *r)
	return r, nil
}

func (f *fakeReportsRepo) List(ctx context.Context, order models.SortOrder) ([]models.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastOrder = order
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Report, len(f.rows))
	copy(out, f.rows)
	if order == models.OrderDesc {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	s *fakeSessionsRepo
	r *fakeReportsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsersRepo(), s: newFakeSessionsRepo(), r: &fakeReportsRepo{}}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository          { return m.u }
func (m *fakeRepoManager) Sessions(db dbx.DBTX) sessions.Repository    { return m.s }
func (m *fakeRepoManager) Reports(db dbx.DBTX) reports.Repository      { return m.r }

func nopLogger() logging.Logger { return logging.Nop() }
