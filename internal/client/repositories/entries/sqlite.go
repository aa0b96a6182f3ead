// Package entries provides the SQLite-backed local journal entry store.
package entries

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goodnightlabs/goodnight/internal/client/models"
	"github.com/goodnightlabs/goodnight/internal/common"
	"github.com/goodnightlabs/goodnight/internal/dbx"
	"github.com/goodnightlabs/goodnight/internal/timex"
)

const entryColumns = `id, user_id, day, entry_date, poem_content, letters, journal_content, last_modified, is_completed, needs_sync`

// SQLiteRepository implements Repository over a dbx.DBTX (either *sql.DB or
// *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Insert adds a new entry row. The UNIQUE (user_id, day) constraint enforces
// the one-entry-per-day invariant; a violation maps to common.ErrEntryExists.
func (r *SQLiteRepository) Insert(ctx context.Context, e *models.Entry) error {
	if err := models.ValidateLetters(e.Letters); err != nil {
		return err
	}
	query := `INSERT INTO entries (` + entryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.UserID, e.DayKey(), formatTime(e.Date),
		e.PoemContent, models.JoinLetters(e.Letters), e.JournalContent,
		formatTime(e.LastModified), boolToInt(e.IsCompleted), boolToInt(e.NeedsSync))
	if err != nil {
		// Driver-neutral detection; modernc wraps SQLITE_CONSTRAINT_UNIQUE
		// into the message.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return common.ErrEntryExists
		}
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

// Update persists all mutable fields of an existing entry, matched by id.
func (r *SQLiteRepository) Update(ctx context.Context, e *models.Entry) error {
	query := `UPDATE entries SET
			poem_content = ?, letters = ?, journal_content = ?,
			last_modified = ?, is_completed = ?, needs_sync = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		e.PoemContent, models.JoinLetters(e.Letters), e.JournalContent,
		formatTime(e.LastModified), boolToInt(e.IsCompleted), boolToInt(e.NeedsSync),
		e.ID)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return common.ErrNotFound
	}
	return nil
}

// Delete removes the entry row by id.
func (r *SQLiteRepository) Delete(ctx context.Context, e *models.Entry) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, e.ID)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

// GetByDay returns the entry for (userID, day key), or (nil, nil) if absent.
func (r *SQLiteRepository) GetByDay(ctx context.Context, userID, day string) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE user_id = ? AND day = ?`
	row := r.db.QueryRowContext(ctx, query, userID, day)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select entry: %w", err)
	}
	return e, nil
}

// ListRange returns entries with date in [start, end), ordered by day
// ascending. Day keys compare lexicographically in chronological order.
func (r *SQLiteRepository) ListRange(ctx context.Context, userID string, start, end time.Time) ([]*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries
		WHERE user_id = ? AND day >= ? AND day < ?
		ORDER BY day ASC`
	rows, err := r.db.QueryContext(ctx, query, userID, timex.DayKey(start), timex.DayKey(end))
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// ListPendingSync returns entries flagged needs_sync=1, oldest day first, so
// a push batch proceeds in chronological order.
func (r *SQLiteRepository) ListPendingSync(ctx context.Context, userID string) ([]*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries
		WHERE user_id = ? AND needs_sync = 1
		ORDER BY day ASC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select pending entries: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// scanner matches both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*models.Entry, error) {
	var e models.Entry
	var day, date, modified, letters string
	var isCompleted, needsSync int
	err := s.Scan(&e.ID, &e.UserID, &day, &date, &e.PoemContent, &letters,
		&e.JournalContent, &modified, &isCompleted, &needsSync)
	if err != nil {
		return nil, err
	}
	if e.Date, err = parseTime(date); err != nil {
		return nil, fmt.Errorf("bad entry_date for %s: %w", e.ID, err)
	}
	if e.LastModified, err = parseTime(modified); err != nil {
		return nil, fmt.Errorf("bad last_modified for %s: %w", e.ID, err)
	}
	e.Letters = models.SplitLetters(letters)
	e.IsCompleted = isCompleted != 0
	e.NeedsSync = needsSync != 0
	return &e, nil
}

func collectEntries(rows *sql.Rows) ([]*models.Entry, error) {
	var result []*models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Times are stored as RFC3339Nano so the entry's creation zone offset
// survives round trips and DayKey stays stable.
func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
