// Package repomanager opens the configured database, applies the embedded
// goose migrations for its dialect and vends repositories bound to either
// the pool or a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/exports"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/todos"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Todos(db dbx.DBTX) todos.Repository
	Exports(db dbx.DBTX) exports.Repository
}

// sqlRepositories is shared by both managers: the queries are portable.
type sqlRepositories struct{}

func (sqlRepositories) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db)
}

func (sqlRepositories) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewSQLRepository(db)
}

func (sqlRepositories) Todos(db dbx.DBTX) todos.Repository {
	return todos.NewSQLRepository(db)
}

func (sqlRepositories) Exports(db dbx.DBTX) exports.Repository {
	return exports.NewSQLRepository(db)
}
