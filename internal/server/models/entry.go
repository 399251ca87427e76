package models

import "time"

// MoodEntry is one stored mood document. ClientID is the temporary id the
// client generated before the entry reached the server; it is unique per
// user.
type MoodEntry struct {
	ID        string
	UserID    string
	ClientID  string
	Mood      string
	Note      string
	Stress    int
	PhotoURL  *string
	HasPhoto  bool
	CreatedAt time.Time
}

// MoodPatch lists the fields of a partial update. Nil means unchanged;
// ClearPhoto drops the photo and wins over PhotoURL.
type MoodPatch struct {
	Mood       *string
	Note       *string
	Stress     *int
	PhotoURL   *string
	ClearPhoto bool
}

// Empty reports whether the patch changes nothing.
func (p MoodPatch) Empty() bool {
	return p.Mood == nil && p.Note == nil && p.Stress == nil && p.PhotoURL == nil && !p.ClearPhoto
}
