// Package models defines the journal entry as stored on the device.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/goodnightlabs/goodnight/internal/api"
	"github.com/goodnightlabs/goodnight/internal/timex"
	"github.com/google/uuid"
)

// MaxLetters is the maximum number of poem-starter letters per entry.
const MaxLetters = 3

// Entry is one journal entry. At most one entry exists per (UserID, calendar
// day); the day is derived from Date, which is truncated to start-of-day in
// the entry's local time zone at creation.
//
// NeedsSync means local content has diverged from the remote copy (or no
// remote copy exists yet) and must be pushed before the entry is durable
// off-device. It is cleared only after a confirmed successful push.
type Entry struct {
	ID             string
	Date           time.Time
	PoemContent    string
	Letters        []string
	JournalContent string
	LastModified   time.Time
	UserID         string
	IsCompleted    bool
	NeedsSync      bool
}

// NewEntry creates a draft entry for the calendar day containing date.
func NewEntry(userID string, date time.Time, letters []string) *Entry {
	day := timex.StartOfDay(date)
	return &Entry{
		ID:           uuid.NewString(),
		Date:         day,
		Letters:      letters,
		LastModified: time.Now(),
		UserID:       userID,
	}
}

// DayKey returns the YYYY-MM-DD natural-key component of the entry, in the
// entry's own time zone.
func (e *Entry) DayKey() string {
	return timex.DayKey(e.Date)
}

// Touch stamps LastModified with now. Must be called on every mutation that
// changes content or completion state.
func (e *Entry) Touch(now time.Time) {
	e.LastModified = now
}

// ValidateLetters checks the poem-starter letters: at most MaxLetters, each
// exactly one character.
func ValidateLetters(letters []string) error {
	if len(letters) > MaxLetters {
		return fmt.Errorf("too many letters: %d", len(letters))
	}
	for _, l := range letters {
		if len([]rune(l)) != 1 {
			return fmt.Errorf("letter %q must be a single character", l)
		}
	}
	return nil
}

// JoinLetters packs the letters into a single string for column storage.
func JoinLetters(letters []string) string {
	return strings.Join(letters, "")
}

// SplitLetters unpacks a stored letters column into single-character strings.
func SplitLetters(s string) []string {
	if s == "" {
		return nil
	}
	runes := []rune(s)
	letters := make([]string, 0, len(runes))
	for _, r := range runes {
		letters = append(letters, string(r))
	}
	return letters
}

// ToDocument converts the entry to its wire representation.
func (e *Entry) ToDocument() api.Document {
	letters := e.Letters
	if letters == nil {
		letters = []string{}
	}
	return api.Document{
		ID:             e.ID,
		Date:           e.Date,
		PoemContent:    e.PoemContent,
		Letters:        letters,
		JournalContent: e.JournalContent,
		LastModified:   e.LastModified,
		UserID:         e.UserID,
		IsCompleted:    e.IsCompleted,
		NeedsSync:      e.NeedsSync,
	}
}

// FromDocument builds a local entry from a remote document. The local
// NeedsSync flag is not taken from the wire; pulled entries start clean.
func FromDocument(d api.Document) *Entry {
	return &Entry{
		ID:             d.ID,
		Date:           d.Date,
		PoemContent:    d.PoemContent,
		Letters:        append([]string(nil), d.Letters...),
		JournalContent: d.JournalContent,
		LastModified:   d.LastModified,
		UserID:         d.UserID,
		IsCompleted:    d.IsCompleted,
	}
}
