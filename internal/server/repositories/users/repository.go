// Package users stores user credentials.
package users

import (
	"context"

	"github.com/dmitrijs2005/techreport/internal/server/models"
)

type Repository interface {
	// Create inserts the user and fills CreatedAt. A username or email that
	// is already taken yields common.ErrorConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetUserByLogin returns common.ErrorNotFound for an unknown username.
	GetUserByLogin(ctx context.Context, userName string) (*models.User, error)
}
