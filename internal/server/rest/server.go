// Package rest serves the JSON API consumed by the single-page front end and
// the command-line client.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
)

type AuthService interface {
	Signup(ctx context.Context, in services.SignupInput) (*models.User, error)
	Login(ctx context.Context, userName, password string) (*services.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Authenticate(ctx context.Context, accessToken string) (*models.Identity, error)
}

type ProfileService interface {
	Profile(ctx context.Context, userID int64) (*models.Profile, error)
	Dashboard(ctx context.Context, userID int64) (*models.Profile, models.TodoStats, error)
	UpdateProfile(ctx context.Context, userID int64, first, middle, last string) (*models.Profile, error)
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
	DeleteAccount(ctx context.Context, userID int64) error
}

type TodoService interface {
	List(ctx context.Context, userID int64) ([]*models.Todo, error)
	Add(ctx context.Context, userID int64, task string, completed bool) (*models.Todo, error)
	Replace(ctx context.Context, userID, id int64, task string, completed bool) (*models.Todo, error)
	Patch(ctx context.Context, userID, id int64, patch services.TodoPatch) (*models.Todo, error)
	Delete(ctx context.Context, userID, id int64) error
}

type ExportService interface {
	Export(ctx context.Context, userID int64) (*models.ExportLink, error)
	History(ctx context.Context, userID int64) ([]*models.ExportRecord, error)
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps bundles what the handlers call into.
type Deps struct {
	Auth    AuthService
	Profile ProfileService
	Todos   TodoService
	Export  ExportService
	DB      Pinger
}

type HTTPServer struct {
	address         string
	logger          logging.Logger
	deps            Deps
	shutdownTimeout time.Duration
}

func NewHTTPServer(address string, l logging.Logger, deps Deps, shutdownTimeout time.Duration) *HTTPServer {
	return &HTTPServer{
		address:         address,
		logger:          l.With("module", "http_server"),
		deps:            deps,
		shutdownTimeout: shutdownTimeout,
	}
}

// Handler returns the full middleware-wrapped router.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/signup", s.signup)
	mux.HandleFunc("POST /api/auth/login", s.login)
	mux.HandleFunc("POST /api/auth/refresh", s.refresh)
	mux.HandleFunc("POST /api/auth/logout", s.logout)

	mux.Handle("GET /api/todos", s.guard(s.listTodos))
	mux.Handle("POST /api/todos", s.guard(s.addTodo))
	mux.Handle("PUT /api/todos/{id}", s.guard(s.replaceTodo))
	mux.Handle("PATCH /api/todos/{id}", s.guard(s.patchTodo))
	mux.Handle("DELETE /api/todos/{id}", s.guard(s.deleteTodo))

	mux.Handle("GET /api/user/profile", s.guard(s.profile))
	mux.Handle("GET /api/user/dashboard", s.guard(s.dashboard))
	mux.Handle("POST /api/user/settings/update-profile", s.guard(s.updateProfile))
	mux.Handle("POST /api/user/settings/change-password", s.guard(s.changePassword))
	mux.Handle("POST /api/user/settings/delete-account", s.guard(s.deleteAccount))
	mux.Handle("POST /api/user/export", s.guard(s.export))
	mux.Handle("GET /api/user/exports", s.guard(s.exportHistory))

	mux.HandleFunc("GET /healthz", s.health)

	return s.requestLog(mux)
}

func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-done
	return nil
}
