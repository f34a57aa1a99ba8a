// Package refreshtokens declares the server-side repository contract for
// managing refresh tokens in persistent storage.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking refresh tokens.
type Repository interface {
	// Create stores a new refresh token for userID that stops being accepted at expiresAt.
	Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error

	// Find looks up a refresh token by its opaque token string.
	// It returns common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a refresh token by its token string and reports
	// common.ErrorNotFound when no row matched, so concurrent rotations of
	// the same token have exactly one winner.
	Delete(ctx context.Context, token string) error

	// DeleteByUser revokes every refresh token the user holds.
	DeleteByUser(ctx context.Context, userID int64) error
}
