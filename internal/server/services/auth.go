// Package services contains server-side business logic. AuthService handles
// signup, login, refresh-token rotation, logout, and the bearer-token check
// the HTTP access guard relies on.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/cryptox"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/validation"
)

// SignupInput carries the registration form. MiddleName may be empty.
type SignupInput struct {
	FirstName  string
	MiddleName string
	LastName   string
	UserName   string
	Password   string
}

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	Tokens models.TokenPair
	User   models.Profile
}

type AuthService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	hasher                       cryptox.PasswordHasher
	issuer                       *auth.TokenIssuer
	logger                       logging.Logger
	refreshTokenValidityDuration time.Duration
	now                          func() time.Time
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, hasher cryptox.PasswordHasher,
	issuer *auth.TokenIssuer, logger logging.Logger, refreshTokenValidity time.Duration) *AuthService {
	return &AuthService{
		db:                           db,
		repomanager:                  m,
		hasher:                       hasher,
		issuer:                       issuer,
		logger:                       logger,
		refreshTokenValidityDuration: refreshTokenValidity,
		now:                          time.Now,
	}
}

// Signup validates the form, hashes the password and stores the user.
// Nothing is written when validation fails.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if err := validation.Signup(in.FirstName, in.MiddleName, in.LastName, in.UserName, in.Password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	user := &models.User{
		FirstName:    in.FirstName,
		MiddleName:   in.MiddleName,
		LastName:     in.LastName,
		UserName:     in.UserName,
		PasswordHash: hash,
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return u, nil
}

// Login returns common.ErrorNotFound for an unknown username and
// common.ErrInvalidCredentials for a wrong password.
func (s *AuthService) Login(ctx context.Context, userName, password string) (*LoginResult, error) {
	if err := validation.Login(userName, password); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	pair, err := s.generateTokenPair(ctx, user, s.db)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Tokens: *pair, User: user.Profile()}, nil
}

// Refresh validates a refresh token, rotates it transactionally, and returns
// a fresh pair. Expired tokens yield common.ErrRefreshTokenExpired; unknown or
// already rotated ones yield common.ErrorUnauthorized.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	if refreshToken == "" {
		return nil, common.NewValidationError("token", "Refresh token is required")
	}

	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	if !token.Expires.After(s.now()) {
		if err := repo.Delete(ctx, refreshToken); err != nil && !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "deleting expired refresh token", "user_id", token.UserID, "error", err)
		}
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *models.TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorUnauthorized
			}
			return fmt.Errorf("%w: %w", common.ErrorInternal, err)
		}

		user, err := s.repomanager.Users(tx).GetUserByID(ctx, token.UserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorUnauthorized
			}
			return fmt.Errorf("%w: %w", common.ErrorInternal, err)
		}

		pair, err = s.generateTokenPair(ctx, user, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout forgets the refresh token. Unknown tokens are not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	err := s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return nil
}

// Authenticate verifies an access token and checks it against the stored
// token_version, so tokens die with a password change or account deletion.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*models.Identity, error) {
	claims, err := s.issuer.Verify(accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	if user.TokenVersion != claims.Version {
		return nil, common.ErrorUnauthorized
	}

	return &models.Identity{ID: user.ID, Username: user.UserName}, nil
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *models.User, db dbx.DBTX) (*models.TokenPair, error) {
	access, err := s.issuer.Issue(user.ID, user.UserName, user.TokenVersion)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	expires := s.now().Add(s.refreshTokenValidityDuration)
	if err := s.repomanager.RefreshTokens(db).Create(ctx, user.ID, refresh, expires); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
