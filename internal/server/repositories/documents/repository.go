// Package documents stores journal entry documents, one per user and
// calendar day.
package documents

import (
	"context"
	"time"

	"github.com/goodnightlabs/goodnight/internal/server/models"
)

type Repository interface {
	// Upsert writes the document keyed by (user_id, day), replacing content
	// fields when the row already exists.
	Upsert(ctx context.Context, doc *models.Document) error

	// Get returns the document for (userID, day), or (nil, nil) when none
	// exists.
	Get(ctx context.Context, userID, day string) (*models.Document, error)

	// ListCompletedSince returns completed documents, restricted to
	// last_modified strictly after since when given, newest first.
	ListCompletedSince(ctx context.Context, userID string, since *time.Time) ([]*models.Document, error)

	// Delete removes the document. Deleting an absent document is not an
	// error.
	Delete(ctx context.Context, userID, day string) error
}
