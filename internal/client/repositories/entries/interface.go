package entries

import (
	"context"
	"time"

	"github.com/goodnightlabs/goodnight/internal/client/models"
)

// Repository is the local entry store. A successful Insert/Update/Delete is
// durable before the call returns; there is no write-behind.
//
// Implementations are backed by the local SQLite database.
type Repository interface {
	// Insert adds a new entry. Returns common.ErrEntryExists when an entry
	// already exists for the same (user, calendar day).
	Insert(ctx context.Context, entry *models.Entry) error

	// Update persists field changes of an existing entry, matched by ID.
	Update(ctx context.Context, entry *models.Entry) error

	// Delete removes the entry. Not reversible.
	Delete(ctx context.Context, entry *models.Entry) error

	// GetByDay returns the entry for (userID, day key), or (nil, nil) when
	// none exists.
	GetByDay(ctx context.Context, userID, day string) (*models.Entry, error)

	// ListRange returns entries with date in [start, end), ordered by day
	// ascending.
	ListRange(ctx context.Context, userID string, start, end time.Time) ([]*models.Entry, error)

	// ListPendingSync returns entries flagged needs_sync, oldest day first.
	ListPendingSync(ctx context.Context, userID string) ([]*models.Entry, error)
}
