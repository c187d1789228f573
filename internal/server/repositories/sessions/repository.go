// Package sessions stores server-side login sessions keyed by an opaque token.
package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/techreport/internal/server/models"
)

// Repository defines operations for issuing, resolving and revoking sessions.
type Repository interface {
	// Create stores a session for s.UserID that expires at s.ExpiresAt.
	Create(ctx context.Context, s *models.Session) error

	// Find returns the session for token together with the owner's username.
	// Implementations return common.ErrorNotFound when the token is absent.
	// Expiry is not checked here.
	Find(ctx context.Context, token string) (*models.Session, string, error)

	// Delete removes a session. Deleting a non-existent token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes every session that expired at or before now and
	// returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
