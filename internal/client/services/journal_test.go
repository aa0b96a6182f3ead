package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goodnightlabs/goodnight/internal/api"
	"github.com/goodnightlabs/goodnight/internal/client/models"
	"github.com/goodnightlabs/goodnight/internal/client/repositories/entries"
	"github.com/goodnightlabs/goodnight/internal/client/repositories/settings"
	"github.com/goodnightlabs/goodnight/internal/client/syncer"
	"github.com/goodnightlabs/goodnight/internal/common"
	"github.com/goodnightlabs/goodnight/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

const testUser = "u1"

type staticIdentity struct{ userID string }

func (s staticIdentity) CurrentUserID() (string, bool) { return s.userID, s.userID != "" }

// stubRemote records calls; individual tests override behavior via fields.
type stubRemote struct {
	mu         sync.Mutex
	upserted   []string
	deleted    []string
	upsertErr  error
	deleteErr  error
	presignKey string
	presignURL string
	presignErr error
	token      string
}

func (r *stubRemote) Ping(ctx context.Context) error { return nil }

func (r *stubRemote) Register(ctx context.Context, u, p string) error { return nil }

func (r *stubRemote) Login(ctx context.Context, u, p string) (string, error) {
	r.token = "tok-" + u
	return testUser, nil
}

func (r *stubRemote) SetToken(token string) { r.token = token }

func (r *stubRemote) Token() string { return r.token }

func (r *stubRemote) Upsert(ctx context.Context, entry *models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.upserted = append(r.upserted, entry.DayKey())
	return nil
}

func (r *stubRemote) Fetch(ctx context.Context, day string) (*models.Entry, error) { return nil, nil }

func (r *stubRemote) FetchCompletedSince(ctx context.Context, since *time.Time) ([]*models.Entry, error) {
	return nil, nil
}

func (r *stubRemote) Delete(ctx context.Context, day string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deleted = append(r.deleted, day)
	return nil
}

func (r *stubRemote) PresignBackup(ctx context.Context) (string, string, error) {
	if r.presignErr != nil {
		return "", "", r.presignErr
	}
	return r.presignKey, r.presignURL, nil
}

func (r *stubRemote) Close() error { return nil }

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE entries (
  id              TEXT PRIMARY KEY,
  user_id         TEXT NOT NULL,
  day             TEXT NOT NULL,
  entry_date      TEXT NOT NULL,
  poem_content    TEXT NOT NULL DEFAULT '',
  letters         TEXT NOT NULL DEFAULT '',
  journal_content TEXT NOT NULL DEFAULT '',
  last_modified   TEXT NOT NULL,
  is_completed    INTEGER NOT NULL DEFAULT 0,
  needs_sync      INTEGER NOT NULL DEFAULT 0,
  UNIQUE (user_id, day)
);
CREATE TABLE settings (key TEXT PRIMARY KEY, value BLOB NOT NULL);`)
	require.NoError(t, err)
	return db
}

type journalFixture struct {
	svc     *JournalService
	entries entries.Repository
	remote  *stubRemote
}

func newJournalFixture(t *testing.T) *journalFixture {
	t.Helper()
	db := setupDB(t)
	entryRepo := entries.NewSQLiteRepository(db)
	settingsRepo := settings.NewSQLiteRepository(db)
	remote := &stubRemote{}
	logger := logging.NewJSONLogger(io.Discard)
	identity := staticIdentity{userID: testUser}
	engine := syncer.NewEngine(entryRepo, remote, settingsRepo, identity, logger)
	return &journalFixture{
		svc:     NewJournalService(entryRepo, remote, engine, identity, logger),
		entries: entryRepo,
		remote:  remote,
	}
}

func TestToday_CreatesDraftOnce(t *testing.T) {
	f := newJournalFixture(t)
	ctx := context.Background()

	entry, err := f.svc.Today(ctx)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.False(t, entry.IsCompleted)
	assert.False(t, entry.NeedsSync)
	assert.Len(t, entry.Letters, models.MaxLetters)

	again, err := f.svc.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, again.ID)
}

func TestSaveDraft_ParsesTextAndStaysLocal(t *testing.T) {
	f := newJournalFixture(t)
	ctx := context.Background()

	entry, err := f.svc.Today(ctx)
	require.NoError(t, err)

	text := ComposeEntryText(entry.Letters, "wrote about the rain")
	require.NoError(t, f.svc.SaveDraft(ctx, entry, text))

	got, err := f.entries.GetByDay(ctx, testUser, entry.DayKey())
	require.NoError(t, err)
	assert.Equal(t, "wrote about the rain", got.JournalContent)
	assert.False(t, got.NeedsSync)
	assert.Empty(t, f.remote.upserted)
}

func TestSubmit_FinalizesAndPushes(t *testing.T) {
	f := newJournalFixture(t)
	ctx := context.Background()

	entry, err := f.svc.Today(ctx)
	require.NoError(t, err)
	require.NoError(t, f.svc.Submit(ctx, entry))

	// The immediate push succeeded, so the flag is already clear.
	got, err := f.entries.GetByDay(ctx, testUser, entry.DayKey())
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)
	assert.False(t, got.NeedsSync)
	assert.Equal(t, []string{entry.DayKey()}, f.remote.upserted)
}

func TestSubmit_OfflineKeepsFlagSet(t *testing.T) {
	f := newJournalFixture(t)
	ctx := context.Background()
	f.remote.upsertErr = common.ErrRemoteUnavailable

	entry, err := f.svc.Today(ctx)
	require.NoError(t, err)
	require.NoError(t, f.svc.Submit(ctx, entry))

	got, err := f.entries.GetByDay(ctx, testUser, entry.DayKey())
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)
	assert.True(t, got.NeedsSync)
}

func TestSubmit_AlreadyCompletedRejected(t *testing.T) {
	f := newJournalFixture(t)
	ctx := context.Background()

	entry, err := f.svc.Today(ctx)
	require.NoError(t, err)
	require.NoError(t, f.svc.Submit(ctx, entry))

	assert.Error(t, f.svc.Submit(ctx, entry))
	assert.Error(t, f.svc.SaveDraft(ctx, entry, "late edit"))
}

func TestMonth_ListsCalendarMonth(t *testing.T) {
	f := newJournalFixture(t)
	ctx := context.Background()

	for _, d := range []time.Time{
		time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC),
	} {
		require.NoError(t, f.entries.Insert(ctx, models.NewEntry(testUser, d, nil)))
	}

	got, err := f.svc.Month(ctx, 2026, time.February)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2026-02-01", got[0].DayKey())
	assert.Equal(t, "2026-02-14", got[1].DayKey())
}

func TestHasToday(t *testing.T) {
	f := newJournalFixture(t)
	ctx := context.Background()

	has, err := f.svc.HasToday(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	entry, err := f.svc.Today(ctx)
	require.NoError(t, err)

	// A draft does not count.
	has, err = f.svc.HasToday(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, f.svc.Submit(ctx, entry))
	has, err = f.svc.HasToday(ctx)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestDelete_CompletedEntryDeletesRemote(t *testing.T) {
	f := newJournalFixture(t)
	ctx := context.Background()

	entry, err := f.svc.Today(ctx)
	require.NoError(t, err)
	require.NoError(t, f.svc.Submit(ctx, entry))

	require.NoError(t, f.svc.Delete(ctx, entry))
	assert.Equal(t, []string{entry.DayKey()}, f.remote.deleted)

	got, err := f.entries.GetByDay(ctx, testUser, entry.DayKey())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDelete_DraftStaysLocalOnly(t *testing.T) {
	f := newJournalFixture(t)
	ctx := context.Background()

	entry, err := f.svc.Today(ctx)
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, entry))
	assert.Empty(t, f.remote.deleted)
}

func TestDelete_RemoteFailureIsSwallowed(t *testing.T) {
	f := newJournalFixture(t)
	ctx := context.Background()

	entry, err := f.svc.Today(ctx)
	require.NoError(t, err)
	require.NoError(t, f.svc.Submit(ctx, entry))

	f.remote.deleteErr = common.ErrRemoteUnavailable
	assert.NoError(t, f.svc.Delete(ctx, entry))
}

func TestBackup_UploadsSnapshot(t *testing.T) {
	f := newJournalFixture(t)
	ctx := context.Background()

	entry, err := f.svc.Today(ctx)
	require.NoError(t, err)
	require.NoError(t, f.svc.Submit(ctx, entry))

	var uploaded []api.Document
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&uploaded))
	}))
	defer srv.Close()

	f.remote.presignKey = "backups/u1/snapshot.json"
	f.remote.presignURL = srv.URL + "/bucket/backups/u1/snapshot.json"

	key, err := f.svc.Backup(ctx)
	require.NoError(t, err)
	assert.Equal(t, "backups/u1/snapshot.json", key)
	require.Len(t, uploaded, 1)
	assert.Equal(t, entry.ID, uploaded[0].ID)
}
