// Package app provides application initialization and dependency injection.
package app

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/label-service/config"
	"github.com/guttosm/label-service/internal/http"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// App is the wired label service.
type App struct {
	Router   *gin.Engine
	Server   *Server
	Services *ServiceComponents
	Janitor  *Janitor

	db *DatabaseComponents
}

// InitializeApp creates and wires all application dependencies.
func InitializeApp(ctx context.Context, cfg config.Config) (*App, error) {
	// Initialize logger first (needed by other components)
	InitializeLogger(cfg.Log)

	db, err := InitializeDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	services, err := InitializeServices(cfg, db)
	if err != nil {
		_ = db.Close(ctx)
		return nil, err
	}

	rc := InitializeRouter(services, db, cfg)
	router := http.NewRouter(rc.Handler, rc.SessionHandler, rc.HealthHandler, rc.Config)

	log.Info().
		Str("store", cfg.Database.Driver).
		Str("output_dir", services.Documents.Dir()).
		Bool("auth", cfg.Auth.Enabled).
		Bool("operator_tokens", services.Operators.Enabled()).
		Bool("audit", services.Audit != nil).
		Msg("Label service initialized")

	return &App{
		Router:   router,
		Server:   NewServer(router, cfg.Server.Port, cfg.Server.RequestTimeout, cfg.Printing.Timeout),
		Services: services,
		Janitor: NewJanitor(services.Documents, cfg.Labels.Retention, cfg.Labels.PruneInterval,
			WithAuditPruning(db.AuditPruner, cfg.Database.AuditRetention)),
		db:       db,
	}, nil
}

// Run serves HTTP and runs the background workers until ctx is done or the
// server fails, then releases the stores.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Services.Sessions.Run(gctx)
		return nil
	})
	g.Go(func() error {
		a.Janitor.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return a.Server.Serve(gctx)
	})

	err := g.Wait()
	if closeErr := a.Close(context.Background()); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	return err
}

// Close drains the audit queue, then releases the stores.
func (a *App) Close(ctx context.Context) error {
	a.Services.Close()
	return a.db.Close(ctx)
}
