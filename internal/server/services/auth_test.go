package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingHasher struct{}

func (failingHasher) Hash(string) (string, error) { return "", errors.New("no entropy") }
func (failingHasher) Verify(string, string) bool  { return false }

func TestSignup_CreatesOneRecordAndRejectsDuplicate(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	u := e.signup(t, ann)
	assert.NotZero(t, u.ID)
	assert.NotEqual(t, ann.Password, u.PasswordHash)
	assert.Equal(t, 1, e.countUsers(t))

	_, err := e.auth.Signup(ctx, SignupInput{FirstName: "Other", LastName: "Person", UserName: "ann_lee1", Password: "Another#99"})
	assert.ErrorIs(t, err, common.ErrDuplicateUsername)
	assert.Equal(t, 1, e.countUsers(t))

	stored, err := e.m.Users(e.db).GetUserByLogin(ctx, "ann_lee1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", stored.FirstName)
	assert.Equal(t, u.PasswordHash, stored.PasswordHash)
}

func TestSignup_ConcurrentSameUsername(t *testing.T) {
	e := newTestEnv(t)

	const n = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok, dup int
		other   []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.auth.Signup(context.Background(), ann)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, common.ErrDuplicateUsername):
				dup++
			default:
				other = append(other, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, other)
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, dup)
	assert.Equal(t, 1, e.countUsers(t))
}

func TestSignup_PasswordOverBcryptLimit(t *testing.T) {
	e := newTestEnv(t)

	in := ann
	in.Password = "Secret#1" + strings.Repeat("a", 65)
	_, err := e.auth.Signup(context.Background(), in)

	var ve *common.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.NotErrorIs(t, err, common.ErrorInternal)
	assert.Equal(t, "password", ve.Field)
	assert.Equal(t, validation.MsgPasswordTooLong, ve.Message)
	assert.Equal(t, 0, e.countUsers(t))

	in.Password = "Secret#1" + strings.Repeat("a", 64)
	e.signup(t, in)
	assert.Equal(t, 1, e.countUsers(t))
}

func TestSignup_ValidationTouchesNothing(t *testing.T) {
	e := newTestEnv(t)

	in := ann
	in.Password = "weak"
	_, err := e.auth.Signup(context.Background(), in)

	var ve *common.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "password", ve.Field)
	assert.Equal(t, 0, e.countUsers(t))
}

func TestSignup_HashFailureIsInternal(t *testing.T) {
	e := newTestEnv(t)
	e.auth.hasher = failingHasher{}

	_, err := e.auth.Signup(context.Background(), ann)
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.Equal(t, 0, e.countUsers(t))
}

func TestLogin(t *testing.T) {
	e := newTestEnv(t)
	u := e.signup(t, ann)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		res := e.login(t, "ann_lee1", "Secret#123")
		assert.NotEmpty(t, res.Tokens.AccessToken)
		assert.Len(t, res.Tokens.RefreshToken, 64)
		assert.Equal(t, u.ID, res.User.ID)
		assert.Equal(t, "Lee", res.User.LastName)

		claims, err := e.auth.issuer.Verify(res.Tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, u.ID, claims.UserID)
		assert.Equal(t, "ann_lee1", claims.Username)
		assert.Equal(t, e.now.Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := e.auth.Login(ctx, "nobody", "Secret#123")
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := e.auth.Login(ctx, "ann_lee1", "Wrong#1234")
		assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	})

	t.Run("bad format", func(t *testing.T) {
		_, err := e.auth.Login(ctx, "ann_lee1", "short")
		assert.ErrorIs(t, err, common.ErrValidation)
	})
}

func TestRefresh_RotatesToken(t *testing.T) {
	e := newTestEnv(t)
	u := e.signup(t, ann)
	res := e.login(t, "ann_lee1", "Secret#123")
	ctx := context.Background()

	pair, err := e.auth.Refresh(ctx, res.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, res.Tokens.RefreshToken, pair.RefreshToken)
	assert.Equal(t, 1, e.countRefreshTokens(t, u.ID))

	id, err := e.auth.Authenticate(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id.ID)

	_, err = e.auth.Refresh(ctx, res.Tokens.RefreshToken)
	assert.ErrorIs(t, err, common.ErrorUnauthorized, "a rotated token cannot be reused")
}

func TestRefresh_Expired(t *testing.T) {
	e := newTestEnv(t)
	e.signup(t, ann)
	res := e.login(t, "ann_lee1", "Secret#123")

	e.now = e.now.Add(e.cfg.RefreshTokenValidityDuration + time.Minute)

	_, err := e.auth.Refresh(context.Background(), res.Tokens.RefreshToken)
	assert.ErrorIs(t, err, common.ErrRefreshTokenExpired)
}

type brokenDeleteManager struct {
	repomanager.RepositoryManager
}

func (m brokenDeleteManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return brokenDeleteRepo{m.RepositoryManager.RefreshTokens(db)}
}

type brokenDeleteRepo struct {
	refreshtokens.Repository
}

func (brokenDeleteRepo) Delete(context.Context, string) error {
	return errors.New("disk I/O error")
}

func TestRefresh_ExpiredCleanupFailureIsLogged(t *testing.T) {
	e := newTestEnv(t)
	e.signup(t, ann)
	res := e.login(t, "ann_lee1", "Secret#123")

	var buf bytes.Buffer
	e.auth.logger = logging.NewJSONLogger(&buf, "info")
	e.auth.repomanager = brokenDeleteManager{e.m}
	e.now = e.now.Add(e.cfg.RefreshTokenValidityDuration + time.Minute)

	_, err := e.auth.Refresh(context.Background(), res.Tokens.RefreshToken)
	assert.ErrorIs(t, err, common.ErrRefreshTokenExpired)
	assert.Contains(t, buf.String(), "deleting expired refresh token")
	assert.Contains(t, buf.String(), "disk I/O error")
}

func TestRefresh_UnknownAndEmpty(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.auth.Refresh(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = e.auth.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestLogout_IsIdempotent(t *testing.T) {
	e := newTestEnv(t)
	u := e.signup(t, ann)
	res := e.login(t, "ann_lee1", "Secret#123")
	ctx := context.Background()

	require.NoError(t, e.auth.Logout(ctx, res.Tokens.RefreshToken))
	assert.Equal(t, 0, e.countRefreshTokens(t, u.ID))
	require.NoError(t, e.auth.Logout(ctx, res.Tokens.RefreshToken))
	require.NoError(t, e.auth.Logout(ctx, ""))

	_, err := e.auth.Refresh(ctx, res.Tokens.RefreshToken)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestAuthenticate(t *testing.T) {
	e := newTestEnv(t)
	u := e.signup(t, ann)
	res := e.login(t, "ann_lee1", "Secret#123")
	ctx := context.Background()

	id, err := e.auth.Authenticate(ctx, res.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id.ID)
	assert.Equal(t, "ann_lee1", id.Username)

	t.Run("garbage", func(t *testing.T) {
		_, err := e.auth.Authenticate(ctx, "garbage")
		assert.ErrorIs(t, err, common.ErrTokenMalformed)
	})

	t.Run("expired", func(t *testing.T) {
		saved := e.now
		defer func() { e.now = saved }()
		e.now = e.now.Add(24 * time.Hour)

		_, err := e.auth.Authenticate(ctx, res.Tokens.AccessToken)
		assert.ErrorIs(t, err, common.ErrTokenExpired)
	})

	t.Run("revoked by version bump", func(t *testing.T) {
		_, err := e.m.Users(e.db).IncrementTokenVersion(ctx, u.ID)
		require.NoError(t, err)

		_, err = e.auth.Authenticate(ctx, res.Tokens.AccessToken)
		assert.ErrorIs(t, err, common.ErrorUnauthorized)

		fresh := e.login(t, "ann_lee1", "Secret#123")
		_, err = e.auth.Authenticate(ctx, fresh.Tokens.AccessToken)
		assert.NoError(t, err)
	})

	t.Run("user deleted", func(t *testing.T) {
		fresh := e.login(t, "ann_lee1", "Secret#123")
		require.NoError(t, e.profile.DeleteAccount(ctx, u.ID))

		_, err := e.auth.Authenticate(ctx, fresh.Tokens.AccessToken)
		assert.ErrorIs(t, err, common.ErrorUnauthorized)
	})
}
