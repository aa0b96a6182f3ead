// Package models defines the server-side persistence types.
package models

import "time"

// User is an account row. PasswordHash is a bcrypt hash; the plaintext never
// touches storage.
type User struct {
	ID           string
	Username     string
	PasswordHash []byte
	CreatedAt    time.Time
}
