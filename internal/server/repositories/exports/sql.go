package exports

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// SQLRepository implements export bookkeeping over a dbx.DBTX (*sql.DB or *sql.Tx).
type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

// Create records an uploaded object and returns the new row id.
func (r *SQLRepository) Create(ctx context.Context, userID int64, storageKey string, sizeBytes int64) (int64, error) {
	query := `
		INSERT INTO exports (user_id, storage_key, size_bytes)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	var id int64
	if err := r.db.QueryRowContext(ctx, query, userID, storageKey, sizeBytes).Scan(&id); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

// ListByUser returns the user's exports, newest first.
func (r *SQLRepository) ListByUser(ctx context.Context, userID int64) ([]*models.ExportRecord, error) {
	query := `
		SELECT id, user_id, storage_key, size_bytes, created_at
		FROM exports
		WHERE user_id = $1
		ORDER BY id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.ExportRecord, 0)
	for rows.Next() {
		var item models.ExportRecord
		if err := rows.Scan(&item.ID, &item.UserID, &item.StorageKey, &item.SizeBytes, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLRepository) DeleteByUser(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM exports WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
