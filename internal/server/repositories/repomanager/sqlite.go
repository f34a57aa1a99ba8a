package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/taskkeeper/internal/server/migrations"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager runs the sqlite migration set. The pool it is used
// with must be limited to one connection.
type SQLiteRepositoryManager struct {
	sqlRepositories
}

func NewSQLiteRepositoryManager() *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{}
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, db, "sqlite3", migrations.SQLiteDir)
}
