package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/cryptox"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/validation"
)

// ProfileService backs the profile, dashboard and settings endpoints.
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      cryptox.PasswordHasher
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, hasher cryptox.PasswordHasher) *ProfileService {
	return &ProfileService{db: db, repomanager: m, hasher: hasher}
}

func (s *ProfileService) Profile(ctx context.Context, userID int64) (*models.Profile, error) {
	user, err := s.user(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	p := user.Profile()
	return &p, nil
}

func (s *ProfileService) Dashboard(ctx context.Context, userID int64) (*models.Profile, models.TodoStats, error) {
	profile, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, models.TodoStats{}, err
	}
	stats, err := s.repomanager.Todos(s.db).Stats(ctx, userID)
	if err != nil {
		return nil, models.TodoStats{}, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return profile, stats, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID int64, first, middle, last string) (*models.Profile, error) {
	if first == "" || last == "" {
		return nil, common.NewValidationError("fields", validation.MsgProfileRequired)
	}
	if err := validation.Names(first, middle, last); err != nil {
		return nil, err
	}

	user, err := s.user(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	user.FirstName, user.MiddleName, user.LastName = first, middle, last

	if err := s.repomanager.Users(s.db).UpdateProfile(ctx, user); err != nil {
		return nil, wrapInternal(err)
	}

	p := user.Profile()
	return &p, nil
}

// ChangePassword checks the current password, stores the new hash and, in
// the same transaction, bumps token_version and drops every refresh token.
// All sessions, including the caller's, have to log in again.
func (s *ProfileService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return common.NewValidationError("fields", validation.MsgPasswordsNeeded)
	}
	if err := validation.Password("newPassword", newPassword); err != nil {
		return err
	}

	user, err := s.user(ctx, s.db, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(oldPassword, user.PasswordHash) {
		return common.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Users(tx).UpdatePassword(ctx, userID, hash); err != nil {
			return wrapInternal(err)
		}
		if err := s.repomanager.RefreshTokens(tx).DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("%w: %w", common.ErrorInternal, err)
		}
		return nil
	})
}

// DeleteAccount removes the user's todos, refresh tokens, export records and
// the user row in one transaction. Uploaded export objects are left to the
// bucket's lifecycle rules.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Todos(tx).DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("%w: %w", common.ErrorInternal, err)
		}
		if err := s.repomanager.RefreshTokens(tx).DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("%w: %w", common.ErrorInternal, err)
		}
		if err := s.repomanager.Exports(tx).DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("%w: %w", common.ErrorInternal, err)
		}
		if err := s.repomanager.Users(tx).Delete(ctx, userID); err != nil {
			return wrapInternal(err)
		}
		return nil
	})
}

func (s *ProfileService) user(ctx context.Context, db dbx.DBTX, userID int64) (*models.User, error) {
	user, err := s.repomanager.Users(db).GetUserByID(ctx, userID)
	if err != nil {
		return nil, wrapInternal(err)
	}
	return user, nil
}
