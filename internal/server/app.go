// Package server assembles the Goodnight server from its parts: database,
// migrations, repositories, services and the HTTP endpoint.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/goodnightlabs/goodnight/internal/logging"
	"github.com/goodnightlabs/goodnight/internal/server/config"
	serverhttp "github.com/goodnightlabs/goodnight/internal/server/http"
	"github.com/goodnightlabs/goodnight/internal/server/migrations"
	"github.com/goodnightlabs/goodnight/internal/server/repositories/documents"
	"github.com/goodnightlabs/goodnight/internal/server/repositories/users"
	"github.com/goodnightlabs/goodnight/internal/server/services"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// App owns the server's long-lived resources.
type App struct {
	config *config.Config
	db     *sql.DB
	server *serverhttp.Server
	logger logging.Logger
}

// NewApp opens the database, runs pending migrations and wires the service
// stack.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	userService := services.NewUserService(users.NewPostgresRepository(db), cfg)
	documentService := services.NewDocumentService(documents.NewPostgresRepository(db))
	backupService := services.NewBackupService(cfg)

	handler := serverhttp.NewHandler(userService, documentService, backupService, logger)
	router := serverhttp.NewRouter(handler, []byte(cfg.SecretKey))
	srv := serverhttp.NewServer(cfg.EndpointAddr, router, logger)

	return &App{config: cfg, db: db, server: srv, logger: logger}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

func (a *App) Close() {
	if err := a.db.Close(); err != nil {
		a.logger.Error(context.Background(), "closing database", "error", err)
	}
}
