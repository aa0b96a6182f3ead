// Package client talks to the Goodnight document API and owns the local
// database bootstrap.
package client

import (
	"context"
	"time"

	"github.com/goodnightlabs/goodnight/internal/client/models"
)

// Remote is the cloud document collection, keyed per user by calendar day.
// All operations may fail with common.ErrRemoteUnavailable (transport or
// server failure) or common.ErrNotAuthenticated (missing/expired token); the
// caller decides whether to retry, which for background sync means "wait for
// the next trigger".
type Remote interface {
	// Ping reports server reachability. Does not require authentication.
	Ping(ctx context.Context) error

	// Register creates an account.
	Register(ctx context.Context, username, password string) error

	// Login authenticates and installs the access token for subsequent
	// calls. Returns the server-side user id.
	Login(ctx context.Context, username, password string) (string, error)

	// SetToken installs a previously saved access token (offline restart).
	SetToken(token string)

	// Token returns the currently installed access token, if any.
	Token() string

	// Upsert writes a merge-style update of the entry's document, keyed by
	// (user, day key). Idempotent for unchanged entries.
	Upsert(ctx context.Context, entry *models.Entry) error

	// Fetch returns the document for the given day key, or (nil, nil) when
	// no document exists.
	Fetch(ctx context.Context, day string) (*models.Entry, error)

	// FetchCompletedSince returns completed entries with lastModified after
	// since, newest first. A nil since performs a full scan (first-sync
	// bootstrap).
	FetchCompletedSince(ctx context.Context, since *time.Time) ([]*models.Entry, error)

	// Delete removes the document for the given day key. Deleting an absent
	// document is not an error.
	Delete(ctx context.Context, day string) error

	// PresignBackup asks the server for a presigned object-storage PUT URL
	// for a snapshot upload. Returns the object key and the URL.
	PresignBackup(ctx context.Context) (string, string, error)

	// Close releases transport resources.
	Close() error
}
