package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/mindbalance/internal/client/cache"
	"github.com/dmitrijs2005/mindbalance/internal/client/client"
	"github.com/dmitrijs2005/mindbalance/internal/client/models"
	"github.com/dmitrijs2005/mindbalance/internal/common"
	"github.com/dmitrijs2005/mindbalance/internal/logging"
)

// OnlineChecker reports the last known connectivity state.
type OnlineChecker interface {
	Online() bool
}

type SaveStatus int

const (
	StatusSaved SaveStatus = iota
	StatusSavedWithPhoto
	StatusQueued
	StatusKeptLocally
)

const (
	msgSaved          = "Mood saved successfully!"
	msgSavedWithPhoto = "Mood with photo saved successfully!"
	msgQueued         = "Mood saved locally. It will sync when you're back online."
	msgKeptLocally    = "Mood saved locally due to: "
)

// Draft is what the user submits.
type Draft struct {
	Mood   string
	Note   string
	Stress int
	Photo  []byte
}

// SaveResult describes how far a save got. Entry is the cached copy.
type SaveResult struct {
	Status  SaveStatus
	Message string
	Entry   models.MoodEntry
	Err     error
}

// ValidateMood, ValidateNote and ValidateStress return a *ValidationError
// with the user-facing message, or nil.
func ValidateMood(mood string) error {
	if !common.IsValidMood(mood) {
		return &ValidationError{Field: "mood", Message: "Please select a mood!"}
	}
	return nil
}

func ValidateNote(note string) error {
	if strings.TrimSpace(note) == "" {
		return &ValidationError{Field: "note", Message: "Please enter a note before saving."}
	}
	return nil
}

// ValidateStress treats 0 as "not entered".
func ValidateStress(stress int) error {
	if stress == 0 {
		return &ValidationError{Field: "stress", Message: "Please enter your stress level (1–10)."}
	}
	if !common.IsValidStress(stress) {
		return &ValidationError{Field: "stress", Message: "Stress level must be between 1 and 10."}
	}
	return nil
}

func ValidateDraft(d Draft) error {
	if err := ValidateMood(d.Mood); err != nil {
		return err
	}
	if err := ValidateNote(d.Note); err != nil {
		return err
	}
	return ValidateStress(d.Stress)
}

// WriterService saves new mood entries cache first, then remotely.
type WriterService struct {
	client  client.Client
	cache   *cache.MoodCache
	online  OnlineChecker
	logger  logging.Logger
	timeout time.Duration
	now     func() time.Time
}

func NewWriterService(c client.Client, mc *cache.MoodCache, online OnlineChecker, l logging.Logger, timeout time.Duration) *WriterService {
	return &WriterService{
		client:  c,
		cache:   mc,
		online:  online,
		logger:  l.With("service", "writer"),
		timeout: timeout,
		now:     time.Now,
	}
}

type createOutcome struct {
	entry *models.MoodEntry
	err   error
}

// Save validates d, stores it in the cache as pending and then tries the
// remote write once. The returned error is non-nil only for invalid input
// or a failing local cache; remote problems are reported in the result.
func (w *WriterService) Save(ctx context.Context, uid string, d Draft) (*SaveResult, error) {
	if err := ValidateDraft(d); err != nil {
		return nil, err
	}

	online := w.online.Online()

	entry := models.MoodEntry{
		ID:        models.NewTempID(),
		Mood:      d.Mood,
		Note:      strings.TrimSpace(d.Note),
		Stress:    d.Stress,
		CreatedAt: w.now().UTC(),
		Pending:   true,
	}

	if len(d.Photo) > 0 {
		if online {
			url, err := w.client.UploadPhoto(ctx, d.Photo)
			if err != nil {
				w.logger.Warn(ctx, "photo upload failed, saving without photo", "error", err)
			} else {
				entry.PhotoURL = url
			}
		} else {
			w.logger.Warn(ctx, "offline, saving without photo")
		}
	}

	if err := w.cache.Prepend(ctx, uid, entry); err != nil {
		return nil, err
	}

	if !online {
		return &SaveResult{Status: StatusQueued, Message: msgQueued, Entry: entry}, nil
	}

	// the remote write outlives a timeout and the caller's context; a late
	// success is folded into the cache when it arrives
	bg := context.WithoutCancel(ctx)
	done := make(chan createOutcome, 1)
	go func() {
		remote, err := w.client.CreateEntry(bg, entry)
		if err == nil {
			if _, cerr := confirmEntry(bg, w.client, w.cache, uid, entry.ID, *remote); cerr != nil {
				w.logger.Warn(bg, "confirmed entry not cached", "error", cerr)
			}
		}
		done <- createOutcome{entry: remote, err: err}
	}()

	timer := time.NewTimer(w.timeout)
	defer timer.Stop()

	select {
	case out := <-done:
		return w.result(ctx, entry, out), nil
	case <-timer.C:
		w.logger.Info(ctx, "remote write timed out, entry stays pending", "id", entry.ID)
		return &SaveResult{Status: StatusQueued, Message: msgQueued, Entry: entry}, nil
	}
}

func (w *WriterService) result(ctx context.Context, local models.MoodEntry, out createOutcome) *SaveResult {
	if out.err == nil {
		if out.entry.HasPhoto() {
			return &SaveResult{Status: StatusSavedWithPhoto, Message: msgSavedWithPhoto, Entry: *out.entry}
		}
		return &SaveResult{Status: StatusSaved, Message: msgSaved, Entry: *out.entry}
	}

	if errors.Is(out.err, client.ErrUnavailable) {
		return &SaveResult{Status: StatusQueued, Message: msgQueued, Entry: local, Err: out.err}
	}

	w.logger.Warn(ctx, "remote write failed, entry kept locally", "error", out.err)
	return &SaveResult{Status: StatusKeptLocally, Message: msgKeptLocally + out.err.Error(), Entry: local, Err: out.err}
}
