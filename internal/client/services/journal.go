// Package services holds the client-side application services behind the
// interactive prompt: journaling, authentication, and backup.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/goodnightlabs/goodnight/internal/api"
	"github.com/goodnightlabs/goodnight/internal/client/client"
	"github.com/goodnightlabs/goodnight/internal/client/models"
	"github.com/goodnightlabs/goodnight/internal/client/repositories/entries"
	"github.com/goodnightlabs/goodnight/internal/client/syncer"
	"github.com/goodnightlabs/goodnight/internal/common"
	"github.com/goodnightlabs/goodnight/internal/logging"
	"github.com/goodnightlabs/goodnight/internal/netx"
	"github.com/goodnightlabs/goodnight/internal/timex"
)

// JournalService implements the daily journaling flow. All mutations go to
// the local store first; the sync engine moves them off-device.
type JournalService struct {
	entries  entries.Repository
	remote   client.Remote
	engine   *syncer.Engine
	identity syncer.Identity
	logger   logging.Logger
	now      func() time.Time
}

func NewJournalService(entryRepo entries.Repository, remote client.Remote, engine *syncer.Engine, identity syncer.Identity, logger logging.Logger) *JournalService {
	return &JournalService{
		entries:  entryRepo,
		remote:   remote,
		engine:   engine,
		identity: identity,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *JournalService) userID() (string, error) {
	userID, ok := s.identity.CurrentUserID()
	if !ok {
		return "", common.ErrNotAuthenticated
	}
	return userID, nil
}

// Today returns today's entry, creating a fresh draft with three random
// poem-starter letters when none exists yet. New drafts are local only.
func (s *JournalService) Today(ctx context.Context) (*models.Entry, error) {
	userID, err := s.userID()
	if err != nil {
		return nil, err
	}

	now := s.now()
	entry, err := s.entries.GetByDay(ctx, userID, timex.DayKey(now))
	if err != nil {
		return nil, err
	}
	if entry != nil {
		return entry, nil
	}

	entry = models.NewEntry(userID, now, RandomLetters(models.MaxLetters))
	if err := s.entries.Insert(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Entry returns the entry for the given day key, or (nil, nil) when none
// exists.
func (s *JournalService) Entry(ctx context.Context, day string) (*models.Entry, error) {
	userID, err := s.userID()
	if err != nil {
		return nil, err
	}
	return s.entries.GetByDay(ctx, userID, day)
}

// SaveDraft parses the edited text into the entry and persists it locally.
// Drafts never set needs_sync; only completed entries leave the device.
func (s *JournalService) SaveDraft(ctx context.Context, entry *models.Entry, text string) error {
	if entry.IsCompleted {
		return fmt.Errorf("entry for %s is already completed", entry.DayKey())
	}

	poem, journal := ParseEntryText(text)
	entry.PoemContent = poem
	entry.JournalContent = journal
	entry.Touch(s.now())
	return s.entries.Update(ctx, entry)
}

// Submit finalizes a draft: completed, flagged for sync, durably stored, then
// pushed immediately on a best-effort basis. Completion is one-directional.
func (s *JournalService) Submit(ctx context.Context, entry *models.Entry) error {
	if entry.IsCompleted {
		return fmt.Errorf("entry for %s is already completed", entry.DayKey())
	}

	entry.IsCompleted = true
	entry.NeedsSync = true
	entry.Touch(s.now())
	if err := s.entries.Update(ctx, entry); err != nil {
		entry.IsCompleted = false
		entry.NeedsSync = false
		return err
	}

	s.engine.SubmitPush(ctx, entry)
	return nil
}

// Month lists the user's entries for one calendar month, day ascending.
func (s *JournalService) Month(ctx context.Context, year int, month time.Month) ([]*models.Entry, error) {
	userID, err := s.userID()
	if err != nil {
		return nil, err
	}
	start, end := timex.MonthRange(year, month, time.Local)
	return s.entries.ListRange(ctx, userID, start, end)
}

// HasToday reports whether today's entry exists and is completed.
func (s *JournalService) HasToday(ctx context.Context) (bool, error) {
	userID, err := s.userID()
	if err != nil {
		return false, err
	}
	entry, err := s.entries.GetByDay(ctx, userID, timex.DayKey(s.now()))
	if err != nil {
		return false, err
	}
	return entry != nil && entry.IsCompleted, nil
}

// Delete removes the entry locally and, for completed entries, best-effort
// from the remote. A failed remote delete is logged; the document is
// recreated nowhere, so it simply lingers server-side.
func (s *JournalService) Delete(ctx context.Context, entry *models.Entry) error {
	if err := s.entries.Delete(ctx, entry); err != nil {
		return err
	}
	if entry.IsCompleted {
		if err := s.remote.Delete(ctx, entry.DayKey()); err != nil {
			s.logger.Warn(ctx, "remote delete failed", "day", entry.DayKey(), "error", err)
		}
	}
	return nil
}

// Backup snapshots every local entry as JSON and uploads it to a presigned
// object-storage URL issued by the server. Returns the object key.
func (s *JournalService) Backup(ctx context.Context) (string, error) {
	userID, err := s.userID()
	if err != nil {
		return "", err
	}

	// The day-key ordering makes the zero time a safe lower bound.
	all, err := s.entries.ListRange(ctx, userID, time.Time{}, s.now().AddDate(1, 0, 0))
	if err != nil {
		return "", err
	}

	docs := make([]api.Document, 0, len(all))
	for _, entry := range all {
		docs = append(docs, entry.ToDocument())
	}
	payload, err := json.Marshal(docs)
	if err != nil {
		return "", err
	}

	key, url, err := s.remote.PresignBackup(ctx)
	if err != nil {
		return "", err
	}
	if err := netx.UploadToPresignedURL(ctx, url, payload, "application/json"); err != nil {
		return "", fmt.Errorf("uploading backup: %w", err)
	}

	s.logger.Info(ctx, "backup uploaded", "key", key, "entries", len(docs))
	return key, nil
}
