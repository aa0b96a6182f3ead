package services

import (
	"context"
	"sync"

	"github.com/goodnightlabs/goodnight/internal/client/client"
	"github.com/goodnightlabs/goodnight/internal/client/repositories/settings"
	"github.com/goodnightlabs/goodnight/internal/logging"
)

// AuthService owns the signed-in identity. The access token and user id are
// persisted in the settings store so a restarted client keeps its session,
// including fully offline restarts where no fresh login is possible.
//
// It is the engine's identity provider: CurrentUserID reports the cached
// session without touching the database.
type AuthService struct {
	remote   client.Remote
	settings settings.Repository
	logger   logging.Logger

	mu       sync.RWMutex
	userID   string
	username string
}

func NewAuthService(remote client.Remote, settingsRepo settings.Repository, logger logging.Logger) *AuthService {
	return &AuthService{
		remote:   remote,
		settings: settingsRepo,
		logger:   logger,
	}
}

// Restore loads a persisted session, if any, and installs its token on the
// remote. Called once at startup, before the sync engine runs.
func (s *AuthService) Restore(ctx context.Context) error {
	token, err := s.settings.Get(ctx, settings.KeyToken)
	if err != nil {
		return err
	}
	userID, err := s.settings.Get(ctx, settings.KeyUserID)
	if err != nil {
		return err
	}
	username, err := s.settings.Get(ctx, settings.KeyUsername)
	if err != nil {
		return err
	}
	if token == nil || userID == nil {
		return nil
	}

	s.remote.SetToken(string(token))
	s.mu.Lock()
	s.userID = string(userID)
	s.username = string(username)
	s.mu.Unlock()

	s.logger.Debug(ctx, "session restored", "user", string(username))
	return nil
}

// Register creates an account on the server. It does not sign in.
func (s *AuthService) Register(ctx context.Context, username, password string) error {
	return s.remote.Register(ctx, username, password)
}

// Login authenticates and persists the session for later restarts.
func (s *AuthService) Login(ctx context.Context, username, password string) error {
	userID, err := s.remote.Login(ctx, username, password)
	if err != nil {
		return err
	}

	if err := s.settings.Set(ctx, settings.KeyToken, []byte(s.remote.Token())); err != nil {
		return err
	}
	if err := s.settings.Set(ctx, settings.KeyUserID, []byte(userID)); err != nil {
		return err
	}
	if err := s.settings.Set(ctx, settings.KeyUsername, []byte(username)); err != nil {
		return err
	}

	s.mu.Lock()
	s.userID = userID
	s.username = username
	s.mu.Unlock()
	return nil
}

// Logout forgets the session locally. Entries stay on the device.
func (s *AuthService) Logout(ctx context.Context) error {
	for _, key := range []string{settings.KeyToken, settings.KeyUserID, settings.KeyUsername} {
		if err := s.settings.Delete(ctx, key); err != nil {
			return err
		}
	}

	s.remote.SetToken("")
	s.mu.Lock()
	s.userID = ""
	s.username = ""
	s.mu.Unlock()
	return nil
}

// CurrentUserID reports the signed-in user id, if any.
func (s *AuthService) CurrentUserID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID, s.userID != ""
}

// Username returns the signed-in username, or "" when signed out.
func (s *AuthService) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}
