// Package users stores accounts.
package users

import (
	"context"

	"github.com/goodnightlabs/goodnight/internal/server/models"
)

type Repository interface {
	// Create inserts a new account. Returns common.ErrUserAlreadyExists when
	// the username is taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUsername returns the account, or (nil, nil) when none exists.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}
