package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/mindbalance/internal/client/cache"
	"github.com/dmitrijs2005/mindbalance/internal/client/client"
	"github.com/dmitrijs2005/mindbalance/internal/logging"
)

// ErrSweepRunning is returned when a sweep is already in progress.
var ErrSweepRunning = errors.New("sync already running")

// SweepReport counts what one sweep did.
type SweepReport struct {
	Attempted int
	Synced    int
	Failed    int
}

// ReconcileService re-sends entries still marked pending. Creates carry
// the temp id as client id, so an entry the server already has is not
// duplicated.
type ReconcileService struct {
	client client.Client
	cache  *cache.MoodCache
	logger logging.Logger

	running sync.Mutex
}

func NewReconcileService(c client.Client, mc *cache.MoodCache, l logging.Logger) *ReconcileService {
	return &ReconcileService{client: c, cache: mc, logger: l.With("service", "reconcile")}
}

// Sweep sends every pending entry of uid once, oldest first. It stops at
// the first connectivity failure; other failures are counted and skipped.
func (r *ReconcileService) Sweep(ctx context.Context, uid string) (SweepReport, error) {
	var rep SweepReport
	if !r.running.TryLock() {
		return rep, ErrSweepRunning
	}
	defer r.running.Unlock()

	pending, err := r.cache.Pending(ctx, uid)
	if err != nil {
		return rep, err
	}

	for i := len(pending) - 1; i >= 0; i-- {
		e := pending[i]
		rep.Attempted++

		remote, err := r.client.CreateEntry(ctx, e)
		if err != nil {
			rep.Failed++
			if errors.Is(err, client.ErrUnavailable) || errors.Is(err, client.ErrUnauthorized) || ctx.Err() != nil {
				r.logger.Info(ctx, "sweep interrupted", "error", err, "left", i)
				return rep, err
			}
			r.logger.Warn(ctx, "pending entry rejected", "id", e.ID, "error", err)
			continue
		}

		kept, err := confirmEntry(ctx, r.client, r.cache, uid, e.ID, *remote)
		if err != nil {
			return rep, err
		}
		if kept {
			rep.Synced++
		}
	}

	if rep.Attempted > 0 {
		r.logger.Info(ctx, "sweep finished", "attempted", rep.Attempted, "synced", rep.Synced, "failed", rep.Failed)
	}
	return rep, nil
}
