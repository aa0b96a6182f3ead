package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goodnightlabs/goodnight/internal/client/migrations"
	"github.com/goodnightlabs/goodnight/internal/client/repositories/entries"
	"github.com/goodnightlabs/goodnight/internal/client/repositories/settings"
	"github.com/pressly/goose/v3"
)

// Repositories groups the local stores backed by one SQLite database.
type Repositories struct {
	Entries  entries.Repository
	Settings settings.Repository
	DB       *sql.DB
}

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (or creates) the local SQLite database at dsn, applies
// migrations, and returns the repository set.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Single writer avoids SQLITE_BUSY; all local mutations are serialized.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		Entries:  entries.NewSQLiteRepository(db),
		Settings: settings.NewSQLiteRepository(db),
		DB:       db,
	}, nil
}
