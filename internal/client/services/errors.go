package services

import "errors"

var (
	ErrProRequired  = errors.New("this feature requires MindBalance Pro")
	ErrUnknownTheme = errors.New("unknown theme")
	ErrNotSynced    = errors.New("entry is not synced yet")
)

// ValidationError reports a rejected input field with the message shown to
// the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
