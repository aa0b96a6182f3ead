// Package api defines the JSON wire format and routes of the Goodnight
// document API, shared by the HTTP client and the server handlers.
package api

import "time"

// Route paths. Entry routes take the entry's day key (YYYY-MM-DD) as the
// final path segment.
const (
	RouteHealth        = "/api/v1/health"
	RouteRegister      = "/api/v1/auth/register"
	RouteLogin         = "/api/v1/auth/login"
	RouteEntries       = "/api/v1/entries"
	RouteBackupPresign = "/api/v1/backup/presign"
)

// Document is the wire representation of one journal entry, one document per
// user per calendar day. Field names mirror the mobile app's cloud documents.
type Document struct {
	ID             string    `json:"id"`
	Date           time.Time `json:"date"`
	PoemContent    string    `json:"poemContent"`
	Letters        []string  `json:"letters"`
	JournalContent string    `json:"journalContent"`
	LastModified   time.Time `json:"lastModified"`
	UserID         string    `json:"userId"`
	IsCompleted    bool      `json:"isCompleted"`
	// NeedsSync is informational only on the server side; the client's local
	// flag is authoritative.
	NeedsSync bool `json:"needsSync"`
}

// Credentials is the request body for register and login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	UserID      string `json:"userId"`
}

// ListResponse wraps a completed-entries query result.
type ListResponse struct {
	Entries []Document `json:"entries"`
}

// PresignResponse is returned by the backup presign endpoint.
type PresignResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
