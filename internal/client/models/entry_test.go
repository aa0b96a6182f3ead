package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry_TruncatesToStartOfDay(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	at := time.Date(2026, 1, 14, 23, 45, 0, 0, loc)
	e := NewEntry("user-1", at, []string{"A", "B", "C"})

	assert.Equal(t, time.Date(2026, 1, 14, 0, 0, 0, 0, loc), e.Date)
	assert.Equal(t, "2026-01-14", e.DayKey())
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.IsCompleted)
	assert.False(t, e.NeedsSync)
}

func TestValidateLetters(t *testing.T) {
	tests := []struct {
		name    string
		letters []string
		wantErr bool
	}{
		{name: "empty", letters: nil},
		{name: "three singles", letters: []string{"A", "B", "C"}},
		{name: "four letters", letters: []string{"A", "B", "C", "D"}, wantErr: true},
		{name: "multi-char element", letters: []string{"AB"}, wantErr: true},
		{name: "empty element", letters: []string{""}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateLetters(tc.letters)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJoinSplitLetters_RoundTrip(t *testing.T) {
	letters := []string{"S", "T", "W"}
	assert.Equal(t, letters, SplitLetters(JoinLetters(letters)))
	assert.Nil(t, SplitLetters(""))
}

func TestToDocument_FromDocument(t *testing.T) {
	now := time.Date(2026, 1, 14, 21, 0, 0, 0, time.UTC)
	e := &Entry{
		ID:             "id-1",
		Date:           time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC),
		PoemContent:    "poem",
		Letters:        []string{"A", "B"},
		JournalContent: "journal",
		LastModified:   now,
		UserID:         "user-1",
		IsCompleted:    true,
		NeedsSync:      true,
	}

	doc := e.ToDocument()
	assert.Equal(t, "id-1", doc.ID)
	assert.Equal(t, []string{"A", "B"}, doc.Letters)
	assert.True(t, doc.NeedsSync, "wire document carries the flag informationally")

	back := FromDocument(doc)
	assert.Equal(t, e.ID, back.ID)
	assert.Equal(t, e.JournalContent, back.JournalContent)
	assert.Equal(t, e.LastModified, back.LastModified)
	assert.True(t, back.IsCompleted)
	assert.False(t, back.NeedsSync, "pulled entries start clean locally")
}

func TestToDocument_NilLettersBecomesEmptyArray(t *testing.T) {
	e := &Entry{ID: "x"}
	doc := e.ToDocument()
	require.NotNil(t, doc.Letters)
	assert.Len(t, doc.Letters, 0)
}
