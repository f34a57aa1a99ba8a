// Package users holds the credential store: persistence of user identity
// records keyed by id and by unique username.
package users

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills in its generated id. A taken username
	// yields common.ErrDuplicateUsername.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, userName string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	// UpdatePassword stores a new hash and bumps token_version, returning it.
	UpdatePassword(ctx context.Context, id int64, passwordHash string) (int64, error)
	IncrementTokenVersion(ctx context.Context, id int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}
