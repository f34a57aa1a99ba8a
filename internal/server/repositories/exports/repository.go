package exports

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// Repository keeps the history of uploaded exports.
type Repository interface {
	Create(ctx context.Context, userID int64, storageKey string, sizeBytes int64) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.ExportRecord, error)
	DeleteByUser(ctx context.Context, userID int64) error
}
