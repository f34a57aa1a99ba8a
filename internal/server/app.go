// Package server wires configuration, storage, services and transports
// together and runs them until the process is asked to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/taskkeeper/internal/cryptox"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/rest"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"

	gs "github.com/dmitrijs2005/taskkeeper/internal/server/grpc"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *rest.HTTPServer
	health *gs.HealthServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, m, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	hasher := cryptox.NewBcryptHasher(c.BcryptCost)
	issuer := auth.NewTokenIssuer([]byte(c.SecretKey), c.AccessTokenValidityDuration)

	deps := rest.Deps{
		Auth:    services.NewAuthService(db, m, hasher, issuer, logger, c.RefreshTokenValidityDuration),
		Profile: services.NewProfileService(db, m, hasher),
		Todos:   services.NewTodoService(db, m),
		Export:  services.NewExportService(db, m, c),
		DB:      db,
	}

	app := &App{
		config: c,
		logger: logger,
		db:     db,
		http:   rest.NewHTTPServer(c.HTTPAddr, logger, deps, c.ShutdownTimeout),
	}
	if c.GRPCHealthAddr != "" {
		app.health = gs.NewHealthServer(c.GRPCHealthAddr, logger, db)
	}

	return app, nil
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "exports_enabled", app.config.ExportsEnabled())

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.http.Run(ctx); err != nil {
			app.logger.Error(ctx, "HTTP server failed", "error", err)
			cancelFunc()
		}
	}()

	if app.health != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := app.health.Run(ctx); err != nil {
				app.logger.Error(ctx, "gRPC health server failed", "error", err)
				cancelFunc()
			}
		}()
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "closing database", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
