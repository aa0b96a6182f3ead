// Package services contains the server-side business logic behind the
// document API handlers.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnightlabs/goodnight/internal/common"
	"github.com/goodnightlabs/goodnight/internal/server/auth"
	"github.com/goodnightlabs/goodnight/internal/server/config"
	"github.com/goodnightlabs/goodnight/internal/server/models"
	"github.com/goodnightlabs/goodnight/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles registration and login.
type UserService struct {
	users                       users.Repository
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewUserService(repo users.Repository, cfg *config.Config) *UserService {
	return &UserService{
		users:                       repo,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates an account with a bcrypt password hash.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{Username: username, PasswordHash: hash}
	return s.users.Create(ctx, user)
}

// Login verifies the credentials and mints an access token. Unknown users
// and wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (string, string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", "", common.ErrInternal
	}
	if user == nil {
		return "", "", common.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", "", common.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", "", common.ErrInternal
	}
	return token, user.ID, nil
}
