// Package http wires the document API routes and runs the public HTTP
// server.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goodnightlabs/goodnight/internal/api"
	"github.com/goodnightlabs/goodnight/internal/logging"
	"github.com/goodnightlabs/goodnight/internal/server/models"
)

// UserService is the authentication surface the handlers need.
type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, string, error)
}

// DocumentService is the per-user document surface the handlers need.
type DocumentService interface {
	Upsert(ctx context.Context, userID, day string, doc api.Document) error
	Get(ctx context.Context, userID, day string) (*api.Document, error)
	ListCompletedSince(ctx context.Context, userID string, since *time.Time) ([]api.Document, error)
	Delete(ctx context.Context, userID, day string) error
}

// BackupService issues presigned snapshot upload URLs.
type BackupService interface {
	GetPresignedPutUrl(ctx context.Context, userID string) (string, string, error)
}

// NewRouter builds the gin engine with all document API routes.
func NewRouter(handler *Handler, secretKey []byte) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET(api.RouteHealth, handler.Health)
	router.POST(api.RouteRegister, handler.Register)
	router.POST(api.RouteLogin, handler.Login)

	authed := router.Group("/", authMiddleware(secretKey))
	{
		authed.GET(api.RouteEntries, handler.ListEntries)
		authed.PUT(api.RouteEntries+"/:day", handler.UpsertEntry)
		authed.GET(api.RouteEntries+"/:day", handler.GetEntry)
		authed.DELETE(api.RouteEntries+"/:day", handler.DeleteEntry)
		authed.POST(api.RouteBackupPresign, handler.PresignBackup)
	}

	return router
}

// Server runs the HTTP endpoint with graceful shutdown on context cancel.
type Server struct {
	srv    *http.Server
	logger logging.Logger
}

func NewServer(addr string, router *gin.Engine, logger logging.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Run serves until ctx is cancelled, then shuts down draining in-flight
// requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	s.logger.Info(ctx, "http server listening", "addr", s.srv.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
