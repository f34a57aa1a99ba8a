package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/validation"
)

// TodoPatch holds the fields a PATCH may change; nil means keep.
type TodoPatch struct {
	Task      *string
	Completed *bool
}

// TodoService scopes every call by the owner id taken from the request
// identity. A row owned by someone else is reported as not found.
type TodoService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTodoService(db *sql.DB, m repomanager.RepositoryManager) *TodoService {
	return &TodoService{db: db, repomanager: m}
}

func (s *TodoService) List(ctx context.Context, userID int64) ([]*models.Todo, error) {
	todos, err := s.repomanager.Todos(s.db).List(ctx, userID)
	if err != nil {
		return nil, wrapInternal(err)
	}
	return todos, nil
}

func (s *TodoService) Add(ctx context.Context, userID int64, task string, completed bool) (*models.Todo, error) {
	if err := validation.Task(task); err != nil {
		return nil, err
	}
	todo, err := s.repomanager.Todos(s.db).Create(ctx, &models.Todo{UserID: userID, Task: task, Completed: completed})
	if err != nil {
		return nil, wrapInternal(err)
	}
	return todo, nil
}

// Replace overwrites both fields of an existing todo.
func (s *TodoService) Replace(ctx context.Context, userID, id int64, task string, completed bool) (*models.Todo, error) {
	if err := validation.Task(task); err != nil {
		return nil, err
	}
	todo := &models.Todo{ID: id, UserID: userID, Task: task, Completed: completed}
	if err := s.repomanager.Todos(s.db).Update(ctx, todo); err != nil {
		return nil, wrapInternal(err)
	}
	return todo, nil
}

func (s *TodoService) Patch(ctx context.Context, userID, id int64, patch TodoPatch) (*models.Todo, error) {
	repo := s.repomanager.Todos(s.db)

	todo, err := repo.Get(ctx, userID, id)
	if err != nil {
		return nil, wrapInternal(err)
	}

	if patch.Task != nil {
		if err := validation.Task(*patch.Task); err != nil {
			return nil, err
		}
		todo.Task = *patch.Task
	}
	if patch.Completed != nil {
		todo.Completed = *patch.Completed
	}

	if err := repo.Update(ctx, todo); err != nil {
		return nil, wrapInternal(err)
	}
	return todo, nil
}

func (s *TodoService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repomanager.Todos(s.db).Delete(ctx, userID, id); err != nil {
		return wrapInternal(err)
	}
	return nil
}

// wrapInternal passes not-found through and marks anything else internal.
func wrapInternal(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return err
	}
	return fmt.Errorf("%w: %w", common.ErrorInternal, err)
}
