package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/mindbalance/internal/common"
	"github.com/dmitrijs2005/mindbalance/internal/logging"
	"github.com/dmitrijs2005/mindbalance/internal/server/models"
	"github.com/dmitrijs2005/mindbalance/internal/server/repositories/repomanager"
)

// ChangeNotifier is told whenever a user's entries change.
type ChangeNotifier interface {
	Notify(userID string)
}

type MoodService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	changes     ChangeNotifier
	logger      logging.Logger
}

func NewMoodService(db *sql.DB, m repomanager.RepositoryManager, n ChangeNotifier, l logging.Logger) *MoodService {
	return &MoodService{db: db, repomanager: m, changes: n, logger: l.With("service", "moods")}
}

func validEntry(mood, note string, stress int) bool {
	return common.IsValidMood(mood) && strings.TrimSpace(note) != "" && common.IsValidStress(stress)
}

// Create stores a new entry. Repeating a create with the same client id
// returns the stored entry without creating a second one.
func (s *MoodService) Create(ctx context.Context, userID string, e models.MoodEntry) (*models.MoodEntry, error) {
	if !validEntry(e.Mood, e.Note, e.Stress) {
		return nil, common.ErrorIncorrectMetadata
	}
	if e.PhotoURL != nil && *e.PhotoURL == "" {
		e.PhotoURL = nil
	}
	e.UserID = userID

	got, created, err := s.repomanager.Moods(s.db).Create(ctx, &e)
	if err != nil {
		return nil, err
	}
	if created {
		s.logger.Debug(ctx, "entry created", "user_id", userID, "entry_id", got.ID)
		s.changes.Notify(userID)
	}
	return got, nil
}

func (s *MoodService) Update(ctx context.Context, userID, id string, p models.MoodPatch) (*models.MoodEntry, error) {
	if p.Empty() {
		return nil, common.ErrorIncorrectMetadata
	}
	if p.Mood != nil && !common.IsValidMood(*p.Mood) {
		return nil, common.ErrorIncorrectMetadata
	}
	if p.Note != nil && strings.TrimSpace(*p.Note) == "" {
		return nil, common.ErrorIncorrectMetadata
	}
	if p.Stress != nil && !common.IsValidStress(*p.Stress) {
		return nil, common.ErrorIncorrectMetadata
	}
	if p.PhotoURL != nil && *p.PhotoURL == "" && !p.ClearPhoto {
		return nil, common.ErrorIncorrectMetadata
	}

	e, err := s.repomanager.Moods(s.db).Update(ctx, userID, id, p)
	if err != nil {
		return nil, err
	}
	s.changes.Notify(userID)
	return e, nil
}

func (s *MoodService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repomanager.Moods(s.db).Delete(ctx, userID, id); err != nil {
		return err
	}
	s.changes.Notify(userID)
	return nil
}

func (s *MoodService) List(ctx context.Context, userID string, limit int) ([]models.MoodEntry, error) {
	return s.repomanager.Moods(s.db).List(ctx, userID, limit)
}

func (s *MoodService) Count(ctx context.Context, userID string) (int64, error) {
	return s.repomanager.Moods(s.db).Count(ctx, userID)
}
