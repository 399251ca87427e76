package models

import "time"

// RefreshToken is a stored sign-in continuation; Token is only populated
// from caller input, never read back from storage.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}
