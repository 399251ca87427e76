package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/mindbalance/internal/client/cache"
	"github.com/dmitrijs2005/mindbalance/internal/client/client"
	"github.com/dmitrijs2005/mindbalance/internal/client/models"
	"github.com/dmitrijs2005/mindbalance/internal/common"
)

// confirmEntry folds the server copy of tempID into the cache. It reports
// false when the user deleted the entry while the create was in flight;
// the server copy is deleted then.
func confirmEntry(ctx context.Context, c client.Client, mc *cache.MoodCache, uid, tempID string, remote models.MoodEntry) (bool, error) {
	kept, err := mc.Confirm(ctx, uid, tempID, remote)
	if err != nil || kept {
		return kept, err
	}
	return false, dropDiscarded(ctx, c, mc, uid, tempID, remote.ID)
}

// dropDiscarded deletes the server copy of a discarded entry and clears
// the marker. On failure the marker stays and the next snapshot retries.
func dropDiscarded(ctx context.Context, c client.Client, mc *cache.MoodCache, uid, tempID, remoteID string) error {
	if err := c.DeleteEntry(ctx, remoteID); err != nil && !errors.Is(err, common.ErrorNotFound) {
		return err
	}
	return mc.Forget(ctx, uid, tempID)
}
