// Package models defines the records the client keeps in its local store.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TempIDPrefix marks ids generated on the device before the server has
// confirmed the entry.
const TempIDPrefix = "temp_"

// MoodEntry is the cached form of a mood record. Pending and Synced are
// local bookkeeping and never leave the device. ClientID is the temporary
// id an entry was created under, echoed back by the server.
type MoodEntry struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"clientId,omitempty"`
	Mood      string    `json:"mood"`
	Note      string    `json:"note"`
	Stress    int       `json:"stress"`
	PhotoURL  string    `json:"photoUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Pending   bool      `json:"_pending,omitempty"`
	Synced    bool      `json:"_synced,omitempty"`
}

// NewTempID returns a fresh client-side id.
func NewTempID() string {
	return TempIDPrefix + uuid.NewString()
}

// IsTemp reports whether the entry still carries a client-side id.
func (e MoodEntry) IsTemp() bool {
	return strings.HasPrefix(e.ID, TempIDPrefix)
}

func (e MoodEntry) HasPhoto() bool {
	return e.PhotoURL != ""
}

// Clone copies a list so callers can keep a snapshot of it.
func Clone(list []MoodEntry) []MoodEntry {
	if list == nil {
		return nil
	}
	out := make([]MoodEntry, len(list))
	copy(out, list)
	return out
}
