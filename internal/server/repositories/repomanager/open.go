package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Backend is the storage engine selected from a DSN.
type Backend struct {
	Driver  string
	Source  string
	Manager RepositoryManager
}

// ParseDSN maps postgres:// and postgresql:// to pgx and everything else to
// a SQLite file, with an optional sqlite:// prefix.
func ParseDSN(dsn string) Backend {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return Backend{Driver: "pgx", Source: dsn, Manager: NewPostgresRepositoryManager()}
	}

	path := strings.TrimPrefix(dsn, "sqlite://")
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	source := path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	return Backend{Driver: "sqlite", Source: source, Manager: NewSQLiteRepositoryManager()}
}

// Open connects to dsn, checks the connection and migrates the schema.
func Open(ctx context.Context, dsn string) (*sql.DB, RepositoryManager, error) {
	b := ParseDSN(dsn)

	db, err := sql.Open(b.Driver, b.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", b.Driver, err)
	}
	if b.Driver == "sqlite" {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping %s: %w", b.Driver, err)
	}

	if err := b.Manager.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}

	return db, b.Manager, nil
}
