// Package settings is a small key-value store for client-side state that
// lives outside the entry table: the sync cursor and the cached identity.
package settings

import "context"

// Well-known keys.
const (
	KeyLastPullAt = "sync.last_pull_at"
	KeyUserID     = "auth.user_id"
	KeyUsername   = "auth.username"
	KeyToken      = "auth.token"
)

type Repository interface {
	// Get returns the stored value, or (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
