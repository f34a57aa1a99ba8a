package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// SQLRepository works unchanged on PostgreSQL and SQLite.
type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

const userColumns = `id, first_name, middle_name, last_name, username, password, token_version, created_at`

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*models.User, error) {
	user := &models.User{}
	var middle sql.NullString
	err := row.Scan(&user.ID, &user.FirstName, &middle, &user.LastName, &user.UserName,
		&user.PasswordHash, &user.TokenVersion, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	user.MiddleName = middle.String
	return user, nil
}

func (r *SQLRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (first_name, middle_name, last_name, username, password)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.FirstName, nullable(user.MiddleName), user.LastName, user.UserName, user.PasswordHash).Scan(&user.ID)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *SQLRepository) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		 WHERE username = $1
		 `
	return scanUser(r.db.QueryRowContext(ctx, query, userName))
}

func (r *SQLRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		 WHERE id = $1
		 `
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query :=
		`UPDATE users SET first_name = $1, middle_name = $2, last_name = $3
		 WHERE id = $4
		 `

	res, err := r.db.ExecContext(ctx, query, user.FirstName, nullable(user.MiddleName), user.LastName, user.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *SQLRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) (int64, error) {
	query :=
		`UPDATE users SET password = $1, token_version = token_version + 1
		 WHERE id = $2
		 RETURNING token_version
		 `
	return r.returnVersion(ctx, query, passwordHash, id)
}

func (r *SQLRepository) IncrementTokenVersion(ctx context.Context, id int64) (int64, error) {
	query :=
		`UPDATE users SET token_version = token_version + 1
		 WHERE id = $1
		 RETURNING token_version
		 `
	return r.returnVersion(ctx, query, id)
}

func (r *SQLRepository) returnVersion(ctx context.Context, query string, args ...any) (int64, error) {
	var version int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&version)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return version, nil
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
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
