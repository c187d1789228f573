package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/techreport/internal/common"
	"github.com/dmitrijs2005/techreport/internal/dbx"
	"github.com/dmitrijs2005/techreport/internal/logging"
	"github.com/dmitrijs2005/techreport/internal/server/config"
	"github.com/dmitrijs2005/techreport/internal/server/models"
	"github.com/dmitrijs2005/techreport/internal/server/repositories/repomanager"
)

// SessionService issues, resolves and revokes server-side sessions.
type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	ttl         time.Duration
	logger      logging.Logger
	now         func() time.Time
}

func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *SessionService {
	return &SessionService{
		db:          db,
		repomanager: m,
		ttl:         cfg.SessionTTL,
		logger:      logger,
		now:         time.Now,
	}
}

// Create stores a new session for userID through db, which may be an open
// transaction, and returns it.
func (s *SessionService) Create(ctx context.Context, db dbx.DBTX, userID string) (*models.Session, error) {
	token, err := common.MakeRandHexString(common.SessionTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: session token: %v", common.ErrorInternal, err)
	}

	now := s.now()
	session := &models.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.repomanager.Sessions(db).Create(ctx, session); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return session, nil
}

// Resolve returns the identity bound to token. Unknown, empty and expired
// tokens all yield common.ErrorUnauthorized; an expired row is deleted.
func (s *SessionService) Resolve(ctx context.Context, token string) (*models.UserIdentity, error) {
	if token == "" {
		return nil, common.ErrorUnauthorized
	}

	repo := s.repomanager.Sessions(s.db)
	session, userName, err := repo.Find(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if session.Expired(s.now()) {
		if err := repo.Delete(ctx, token); err != nil {
			s.logger.Warn(ctx, "failed to delete expired session", "error", err)
		}
		return nil, common.ErrorUnauthorized
	}

	return &models.UserIdentity{UserID: session.UserID, UserName: userName}, nil
}

// Destroy removes the session. An empty or unknown token is not an error.
func (s *SessionService) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.repomanager.Sessions(s.db).Delete(ctx, token); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return nil
}

// PurgeExpired deletes every expired session.
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.repomanager.Sessions(s.db).DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return n, nil
}

// RunJanitor purges expired sessions every interval until ctx is done.
func (s *SessionService) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.PurgeExpired(ctx)
			if err != nil {
				s.logger.Error(ctx, "session cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				s.logger.Info(ctx, "expired sessions removed", "count", n)
			}
		}
	}
}
