// Package server wires the filekeeper application together: configuration,
// logging, database, migrations, the file service and the drift audit.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/filekeeper/internal/logging"
	"github.com/dmitrijs2005/filekeeper/internal/server/config"
	"github.com/dmitrijs2005/filekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filekeeper/internal/server/services"
	"github.com/dmitrijs2005/filekeeper/internal/server/storage"
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	db           *sql.DB
	fileService  *services.FileService
	auditService *services.AuditService
	repos        repomanager.RepositoryManager
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	store := storage.NewLocal(c.StorageRoot)

	fs := services.NewFileService(db, rm, store, logger)
	as := services.NewAuditService(db, rm, store, logger)

	return &App{
		config:       c,
		logger:       logger,
		db:           db,
		fileService:  fs,
		auditService: as,
		repos:        rm,
	}, nil
}

// Files exposes the file service to whatever transport sits in front of
// the application.
func (app *App) Files() *services.FileService {
	return app.fileService
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// RunAudit runs the drift audit for one user, or for every known user when
// username is empty. It returns an error when any audited namespace is
// inconsistent so operator tooling can alert on the exit code.
func (app *App) RunAudit(ctx context.Context, username string) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	usernames := []string{username}
	if username == "" {
		var err error
		usernames, err = app.repos.Users(app.db).ListUserNames(ctx)
		if err != nil {
			return fmt.Errorf("user listing error: %w", err)
		}
	}

	dirty := 0
	for _, u := range usernames {
		report, err := app.auditService.Run(ctx, u)
		if err != nil {
			return fmt.Errorf("audit of %q: %w", u, err)
		}
		if !report.Clean() {
			dirty++
		}
	}

	if dirty > 0 {
		return fmt.Errorf("audit found inconsistencies in %d of %d namespaces", dirty, len(usernames))
	}

	app.logger.Info(ctx, "audit complete", "namespaces", len(usernames))
	return nil
}

func (app *App) Close() error {
	return app.db.Close()
}
