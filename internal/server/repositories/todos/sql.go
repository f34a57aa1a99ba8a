package todos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

// completed is stored as 0/1 on both backends.
func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(row scanner) (*models.Todo, error) {
	todo := &models.Todo{}
	var completed int
	if err := row.Scan(&todo.ID, &todo.UserID, &todo.Task, &completed, &todo.CreatedAt); err != nil {
		return nil, err
	}
	todo.Completed = completed != 0
	return todo, nil
}

func (r *SQLRepository) List(ctx context.Context, userID int64) ([]*models.Todo, error) {
	query := `
		SELECT id, user_id, task, completed, created_at
		FROM todos
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLRepository) Get(ctx context.Context, userID, id int64) (*models.Todo, error) {
	query := `
		SELECT id, user_id, task, completed, created_at
		FROM todos
		WHERE id = $1 AND user_id = $2
	`
	todo, err := scanTodo(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return todo, nil
}

func (r *SQLRepository) Create(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	query := `
		INSERT INTO todos (user_id, task, completed)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	if err := r.db.QueryRowContext(ctx, query, todo.UserID, todo.Task, flag(todo.Completed)).Scan(&todo.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return todo, nil
}

func (r *SQLRepository) Update(ctx context.Context, todo *models.Todo) error {
	query := `
		UPDATE todos SET task = $1, completed = $2
		WHERE id = $3 AND user_id = $4
	`
	res, err := r.db.ExecContext(ctx, query, todo.Task, flag(todo.Completed), todo.ID, todo.UserID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *SQLRepository) Delete(ctx context.Context, userID, id int64) error {
	query := `
		DELETE FROM todos
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *SQLRepository) DeleteByUser(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) Stats(ctx context.Context, userID int64) (models.TodoStats, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(completed), 0)
		FROM todos
		WHERE user_id = $1
	`
	var stats models.TodoStats
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&stats.Total, &stats.Completed); err != nil {
		return models.TodoStats{}, fmt.Errorf("db error: %w", err)
	}
	return stats, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
