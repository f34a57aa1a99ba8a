package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/cryptox"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// testEnv wires the services over a migrated temp-file SQLite database.
type testEnv struct {
	db      *sql.DB
	m       repomanager.RepositoryManager
	now     time.Time
	cfg     *config.Config
	auth    *AuthService
	profile *ProfileService
	todos   *TodoService
	export  *ExportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, m, err := repomanager.Open(context.Background(), "sqlite://"+filepath.Join(t.TempDir(), "svc.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{}
	cfg.LoadDefaults()

	e := &testEnv{db: db, m: m, cfg: cfg, now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	clock := func() time.Time { return e.now }

	hasher := cryptox.NewBcryptHasher(bcrypt.MinCost)
	issuer := auth.NewTokenIssuer([]byte(cfg.SecretKey), cfg.AccessTokenValidityDuration).WithClock(clock)

	e.auth = NewAuthService(db, m, hasher, issuer, logging.Nop{}, cfg.RefreshTokenValidityDuration)
	e.auth.now = clock
	e.profile = NewProfileService(db, m, hasher)
	e.todos = NewTodoService(db, m)
	e.export = NewExportService(db, m, cfg)
	e.export.now = clock
	return e
}

var ann = SignupInput{FirstName: "Ann", LastName: "Lee", UserName: "ann_lee1", Password: "Secret#123"}

func (e *testEnv) signup(t *testing.T, in SignupInput) *models.User {
	t.Helper()
	u, err := e.auth.Signup(context.Background(), in)
	require.NoError(t, err)
	return u
}

func (e *testEnv) login(t *testing.T, username, password string) *LoginResult {
	t.Helper()
	res, err := e.auth.Login(context.Background(), username, password)
	require.NoError(t, err)
	return res
}

func (e *testEnv) countUsers(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n))
	return n
}

func (e *testEnv) countRefreshTokens(t *testing.T, userID int64) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.QueryRow(`SELECT COUNT(*) FROM refresh_tokens WHERE user_id = $1`, userID).Scan(&n))
	return n
}
