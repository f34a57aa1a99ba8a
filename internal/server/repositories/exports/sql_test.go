package exports

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewSQLRepository(db), mock, db
}

func TestCreate(t *testing.T) {
	q := `(?s)^\s*INSERT\s+INTO\s+exports\s*\(user_id,\s*storage_key,\s*size_bytes\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id\s*$`

	t.Run("success", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(q).
			WithArgs(int64(7), "exports/7/a.json", int64(120)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

		id, err := repo.Create(context.Background(), 7, "exports/7/a.json", 120)
		require.NoError(t, err)
		assert.Equal(t, int64(3), id)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(`INSERT\s+INTO\s+exports`).WillReturnError(errors.New("db down"))

		_, err := repo.Create(context.Background(), 7, "k", 1)
		if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
			t.Fatalf("expected wrapped db error, got %v", err)
		}
	})
}

func TestListByUser(t *testing.T) {
	q := `(?s)^\s*SELECT\s+id,\s*user_id,\s*storage_key,\s*size_bytes,\s*created_at\s+FROM\s+exports\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+id\s+DESC\s*$`
	at := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	t.Run("rows", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(q).WithArgs(int64(7)).WillReturnRows(
			sqlmock.NewRows([]string{"id", "user_id", "storage_key", "size_bytes", "created_at"}).
				AddRow(int64(2), int64(7), "exports/7/b.json", int64(90), at).
				AddRow(int64(1), int64(7), "exports/7/a.json", int64(80), at.Add(-time.Hour)),
		)

		got, err := repo.ListByUser(context.Background(), 7)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "exports/7/b.json", got[0].StorageKey)
		assert.Equal(t, int64(90), got[0].SizeBytes)
		assert.Equal(t, at, got[0].CreatedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(q).WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "storage_key", "size_bytes", "created_at"}))

		got, err := repo.ListByUser(context.Background(), 7)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("scan error", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(q).WithArgs(int64(7)).WillReturnRows(
			sqlmock.NewRows([]string{"id", "user_id", "storage_key", "size_bytes", "created_at"}).
				AddRow("not-a-number", int64(7), "k", int64(1), at),
		)

		_, err := repo.ListByUser(context.Background(), 7)
		assert.Error(t, err)
	})
}

func TestDeleteByUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+exports\s+WHERE\s+user_id\s*=\s*\$1$`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.DeleteByUser(context.Background(), 7))
	require.NoError(t, mock.ExpectationsWereMet())
}
