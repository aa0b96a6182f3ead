// Package common contains shared constants and sentinel errors used across
// Goodnight client and server components. Callers match these values with
// errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound    = errors.New("not found")
	ErrEntryExists = errors.New("entry already exists for this day")

	// Remote repository errors. ErrNotAuthenticated is fatal for the current
	// sync attempt; ErrRemoteUnavailable is recoverable and simply retried on
	// the next trigger.
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrRemoteUnavailable = errors.New("remote unavailable")

	// Sync engine errors.
	ErrSyncInProgress = errors.New("sync already in progress")

	// Auth errors.
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid login/password")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInternal           = errors.New("internal error")
)
