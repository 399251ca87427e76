// Package moods stores mood entries per user.
package moods

import (
	"context"

	"github.com/dmitrijs2005/mindbalance/internal/server/models"
)

type Repository interface {
	// Create inserts e. When an entry with the same (user, client id) already
	// exists it is returned instead and created is false.
	Create(ctx context.Context, e *models.MoodEntry) (entry *models.MoodEntry, created bool, err error)
	Update(ctx context.Context, userID, id string, p models.MoodPatch) (*models.MoodEntry, error)
	Delete(ctx context.Context, userID, id string) error
	// List returns entries newest first; limit <= 0 means all.
	List(ctx context.Context, userID string, limit int) ([]models.MoodEntry, error)
	Count(ctx context.Context, userID string) (int64, error)
}
