package todos

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLRepository(db), mock
}

var todoCols = []string{"id", "user_id", "task", "completed", "created_at"}

const (
	listQ   = `(?s)^\s*SELECT\s+id,\s*user_id,\s*task,\s*completed,\s*created_at\s+FROM\s+todos\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+id\s*$`
	getQ    = `(?s)^\s*SELECT\s+id,\s*user_id,\s*task,\s*completed,\s*created_at\s+FROM\s+todos\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s*$`
	insertQ = `(?s)^\s*INSERT\s+INTO\s+todos\s*\(user_id,\s*task,\s*completed\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id\s*$`
	updateQ = `(?s)^\s*UPDATE\s+todos\s+SET\s+task\s*=\s*\$1,\s*completed\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$3\s+AND\s+user_id\s*=\s*\$4\s*$`
	deleteQ = `(?s)^\s*DELETE\s+FROM\s+todos\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s*$`
)

func TestList_ScansRows(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(listQ).WithArgs(int64(1)).WillReturnRows(
		sqlmock.NewRows(todoCols).
			AddRow(int64(10), int64(1), "buy milk", 0, now).
			AddRow(int64(11), int64(1), "call mom", 1, now),
	)

	got, err := repo.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "buy milk", got[0].Task)
	assert.False(t, got[0].Completed)
	assert.True(t, got[1].Completed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_EmptyIsNotNil(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(listQ).WithArgs(int64(1)).WillReturnRows(sqlmock.NewRows(todoCols))

	got, err := repo.List(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList_RowError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(listQ).WithArgs(int64(1)).WillReturnRows(
		sqlmock.NewRows(todoCols).
			AddRow(int64(10), int64(1), "a", 0, time.Now()).
			RowError(0, errors.New("broken row")),
	)

	_, err := repo.List(context.Background(), 1)
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*broken row`), err.Error())
}

func TestGet(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(getQ).WithArgs(int64(10), int64(1)).
		WillReturnRows(sqlmock.NewRows(todoCols).AddRow(int64(10), int64(1), "a", 1, time.Now()))
	mock.ExpectQuery(getQ).WithArgs(int64(10), int64(2)).WillReturnError(sql.ErrNoRows)

	got, err := repo.Get(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	_, err = repo.Get(context.Background(), 2, 10)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(insertQ).WithArgs(int64(1), "buy milk", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))
	mock.ExpectQuery(insertQ).WithArgs(int64(1), "boom", 0).
		WillReturnError(errors.New("db down"))

	got, err := repo.Create(context.Background(), &models.Todo{UserID: 1, Task: "buy milk", Completed: true})
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.ID)

	_, err = repo.Create(context.Background(), &models.Todo{UserID: 1, Task: "boom"})
	assert.Regexp(t, `db error: .*db down`, err.Error())
}

func TestUpdate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectExec(updateQ).WithArgs("x", 1, int64(10), int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(updateQ).WithArgs("x", 0, int64(10), int64(2)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Update(context.Background(), &models.Todo{ID: 10, UserID: 1, Task: "x", Completed: true}))

	err := repo.Update(context.Background(), &models.Todo{ID: 10, UserID: 2, Task: "x"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectExec(deleteQ).WithArgs(int64(10), int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deleteQ).WithArgs(int64(10), int64(1)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 1, 10))
	assert.ErrorIs(t, repo.Delete(context.Background(), 1, 10), common.ErrorNotFound)
}

func TestDeleteByUser(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+todos\s+WHERE\s+user_id\s*=\s*\$1$`).WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.DeleteByUser(context.Background(), 1))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStats(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	q := `(?s)^\s*SELECT\s+COUNT\(\*\),\s*COALESCE\(SUM\(completed\),\s*0\)\s+FROM\s+todos\s+WHERE\s+user_id\s*=\s*\$1\s*$`
	mock.ExpectQuery(q).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum"}).AddRow(int64(5), int64(2)))

	got, err := repo.Stats(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.TodoStats{Total: 5, Completed: 2}, got)
	assert.Equal(t, 3, got.Pending())
}
