// Package todos persists todo items. Every operation except Create takes the
// owner's id and filters on it, so one user can never address another
// user's rows.
package todos

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, userID int64) ([]*models.Todo, error)
	Get(ctx context.Context, userID, id int64) (*models.Todo, error)
	Create(ctx context.Context, todo *models.Todo) (*models.Todo, error)
	// Update overwrites task and completed; common.ErrorNotFound when the
	// row is absent or owned by someone else.
	Update(ctx context.Context, todo *models.Todo) error
	Delete(ctx context.Context, userID, id int64) error
	DeleteByUser(ctx context.Context, userID int64) error
	Stats(ctx context.Context, userID int64) (models.TodoStats, error)
}
