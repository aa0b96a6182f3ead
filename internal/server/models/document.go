package models

import "time"

// Document is one journal entry as stored in the cloud collection, keyed by
// (UserID, Day). Letters is stored packed, one character per letter.
type Document struct {
	ID             string
	UserID         string
	Day            string
	Date           time.Time
	PoemContent    string
	Letters        string
	JournalContent string
	LastModified   time.Time
	IsCompleted    bool
}
