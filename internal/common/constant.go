// Package common holds constants and sentinel errors shared by the
// MindBalance server and client.
package common

// AccessTokenHeaderName is the metadata key carrying the access token.
const AccessTokenHeaderName = "access_token"

// UploadPreset is the asset upload preset accepted by the server.
const UploadPreset = "mood_tracker"

// Mood labels accepted for an entry.
const (
	MoodHappy = "Happy"
	MoodSad   = "Sad"
	MoodAngry = "Angry"
	MoodCalm  = "Calm"
	MoodTired = "Tired"
)

// Moods lists the mood labels in display order.
var Moods = []string{MoodHappy, MoodSad, MoodAngry, MoodCalm, MoodTired}

const (
	MinStress = 1
	MaxStress = 10
)

// IsValidMood reports whether label is one of the known moods.
func IsValidMood(label string) bool {
	for _, m := range Moods {
		if m == label {
			return true
		}
	}
	return false
}

// IsValidStress reports whether s lies in the accepted stress range.
func IsValidStress(s int) bool {
	return s >= MinStress && s <= MaxStress
}
