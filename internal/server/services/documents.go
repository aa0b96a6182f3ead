package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goodnightlabs/goodnight/internal/api"
	"github.com/goodnightlabs/goodnight/internal/common"
	"github.com/goodnightlabs/goodnight/internal/server/models"
	"github.com/goodnightlabs/goodnight/internal/server/repositories/documents"
)

// DocumentService mediates access to the per-user document collection. Every
// operation is scoped to the authenticated user; a document can never be
// read or written across accounts.
type DocumentService struct {
	documents documents.Repository
}

func NewDocumentService(repo documents.Repository) *DocumentService {
	return &DocumentService{documents: repo}
}

// Upsert writes the document under the authenticated user, keyed by day. A
// userId inside the payload that names someone else is rejected.
func (s *DocumentService) Upsert(ctx context.Context, userID, day string, doc api.Document) error {
	if doc.UserID != "" && doc.UserID != userID {
		return common.ErrNotAuthenticated
	}
	if day == "" {
		return fmt.Errorf("day is required")
	}

	return s.documents.Upsert(ctx, &models.Document{
		ID:             doc.ID,
		UserID:         userID,
		Day:            day,
		Date:           doc.Date,
		PoemContent:    doc.PoemContent,
		Letters:        joinLetters(doc.Letters),
		JournalContent: doc.JournalContent,
		LastModified:   doc.LastModified,
		IsCompleted:    doc.IsCompleted,
	})
}

// Get returns the user's document for day, or (nil, nil) when none exists.
func (s *DocumentService) Get(ctx context.Context, userID, day string) (*api.Document, error) {
	doc, err := s.documents.Get(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	out := toWire(doc)
	return &out, nil
}

// ListCompletedSince returns the user's completed documents modified after
// since, newest first.
func (s *DocumentService) ListCompletedSince(ctx context.Context, userID string, since *time.Time) ([]api.Document, error) {
	docs, err := s.documents.ListCompletedSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	out := make([]api.Document, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toWire(doc))
	}
	return out, nil
}

// Delete removes the user's document for day. Absent documents are fine.
func (s *DocumentService) Delete(ctx context.Context, userID, day string) error {
	return s.documents.Delete(ctx, userID, day)
}

func toWire(doc *models.Document) api.Document {
	return api.Document{
		ID:             doc.ID,
		Date:           doc.Date,
		PoemContent:    doc.PoemContent,
		Letters:        splitLetters(doc.Letters),
		JournalContent: doc.JournalContent,
		LastModified:   doc.LastModified,
		UserID:         doc.UserID,
		IsCompleted:    doc.IsCompleted,
	}
}

func joinLetters(letters []string) string {
	return strings.Join(letters, "")
}

func splitLetters(s string) []string {
	letters := make([]string, 0, len(s))
	for _, r := range s {
		letters = append(letters, string(r))
	}
	return letters
}
