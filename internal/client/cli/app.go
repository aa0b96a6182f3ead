// Package cli implements the interactive Goodnight prompt: a small REPL over
// the journal and auth services, with background sync driven by the
// connectivity monitor.
package cli

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/goodnightlabs/goodnight/internal/client/client"
	"github.com/goodnightlabs/goodnight/internal/client/config"
	"github.com/goodnightlabs/goodnight/internal/client/connectivity"
	"github.com/goodnightlabs/goodnight/internal/client/services"
	"github.com/goodnightlabs/goodnight/internal/client/syncer"
	"github.com/goodnightlabs/goodnight/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config  *config.Config
	repos   *client.Repositories
	remote  client.Remote
	auth    *services.AuthService
	journal *services.JournalService
	engine  *syncer.Engine
	monitor *connectivity.Monitor
	logger  logging.Logger
	reader  *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewRotatingFileLogger(c.LogFile)

	repos, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "initializing database", "error", err)
		return nil, err
	}

	remote := client.NewHTTPRemote(c.ServerEndpointAddr)

	auth := services.NewAuthService(remote, repos.Settings, logger)
	if err := auth.Restore(ctx); err != nil {
		logger.Error(ctx, "restoring session", "error", err)
		return nil, err
	}

	engine := syncer.NewEngine(repos.Entries, remote, repos.Settings, auth, logger)
	journal := services.NewJournalService(repos.Entries, remote, engine, auth, logger)
	monitor := connectivity.NewMonitor(remote, c.OnlineCheckInterval, logger)

	return &App{
		config:  c,
		repos:   repos,
		remote:  remote,
		auth:    auth,
		journal: journal,
		engine:  engine,
		monitor: monitor,
		logger:  logger,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

// Run starts the background monitor and sync loop, then blocks in the REPL
// until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	go a.monitor.Run(ctx)
	go a.engine.Run(ctx, a.monitor.Events())

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

// Close releases the database and transport.
func (a *App) Close() {
	_ = a.remote.Close()
	_ = a.repos.DB.Close()
}

func (a *App) isLoggedIn() bool {
	_, ok := a.auth.CurrentUserID()
	return ok
}

func (a *App) status() string {
	var parts []string
	if name := a.auth.Username(); name != "" {
		parts = append(parts, name)
	}
	if a.monitor.Reachable() {
		parts = append(parts, "online")
	} else {
		parts = append(parts, "offline")
	}
	return "(" + strings.Join(parts, " ") + ")"
}
