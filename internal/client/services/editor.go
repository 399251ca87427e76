package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/mindbalance/internal/client/client"
	"github.com/dmitrijs2005/mindbalance/internal/client/models"
	"github.com/dmitrijs2005/mindbalance/internal/logging"
)

// EditorService changes single fields of a synced entry directly on the
// server. The cache is left alone; the next snapshot carries the change.
type EditorService struct {
	client client.Client
	logger logging.Logger
}

func NewEditorService(c client.Client, l logging.Logger) *EditorService {
	return &EditorService{client: c, logger: l.With("service", "editor")}
}

func checkSynced(id string) error {
	if strings.HasPrefix(id, models.TempIDPrefix) {
		return ErrNotSynced
	}
	return nil
}

func (s *EditorService) patch(ctx context.Context, id string, p client.EntryPatch) (*models.MoodEntry, error) {
	if err := checkSynced(id); err != nil {
		return nil, err
	}
	e, err := s.client.UpdateEntry(ctx, id, p)
	if err != nil {
		s.logger.Warn(ctx, "entry update failed", "id", id, "error", err)
		return nil, err
	}
	return e, nil
}

func (s *EditorService) UpdateNote(ctx context.Context, id, note string) (*models.MoodEntry, error) {
	if err := ValidateNote(note); err != nil {
		return nil, err
	}
	note = strings.TrimSpace(note)
	return s.patch(ctx, id, client.EntryPatch{Note: &note})
}

func (s *EditorService) UpdateMood(ctx context.Context, id, mood string) (*models.MoodEntry, error) {
	if err := ValidateMood(mood); err != nil {
		return nil, err
	}
	return s.patch(ctx, id, client.EntryPatch{Mood: &mood})
}

func (s *EditorService) UpdateStress(ctx context.Context, id string, stress int) (*models.MoodEntry, error) {
	if err := ValidateStress(stress); err != nil {
		return nil, err
	}
	return s.patch(ctx, id, client.EntryPatch{Stress: &stress})
}

// UpdatePhoto uploads photo and points the entry at it. Unlike a new
// entry, a failed upload fails the whole edit.
func (s *EditorService) UpdatePhoto(ctx context.Context, id string, photo []byte) (*models.MoodEntry, error) {
	if len(photo) == 0 {
		return nil, &ValidationError{Field: "photo", Message: "Please choose a photo."}
	}
	if err := checkSynced(id); err != nil {
		return nil, err
	}
	url, err := s.client.UploadPhoto(ctx, photo)
	if err != nil {
		return nil, err
	}
	return s.patch(ctx, id, client.EntryPatch{PhotoURL: &url})
}

func (s *EditorService) RemovePhoto(ctx context.Context, id string) (*models.MoodEntry, error) {
	return s.patch(ctx, id, client.EntryPatch{ClearPhoto: true})
}
