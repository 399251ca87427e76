package services

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/mindbalance/internal/client/cache"
	"github.com/dmitrijs2005/mindbalance/internal/client/client"
	"github.com/dmitrijs2005/mindbalance/internal/client/models"
	"github.com/dmitrijs2005/mindbalance/internal/logging"
)

// CategoryAll disables the category filter.
const CategoryAll = "All"

const defaultRetryDelay = 5 * time.Second

// View is what the history screen shows. Total is the remote count and is
// -1 until it is known. Limited is set when the free cap hid entries.
type View struct {
	Entries []models.MoodEntry
	Total   int64
	Pending int
	Limited bool
	Limit   int
}

// FeedService keeps the visible history in step with the server.
type FeedService struct {
	client client.Client
	cache  *cache.MoodCache
	tier   *TierService
	logger logging.Logger

	retryDelay time.Duration

	mu      sync.Mutex
	current View
	seq     uint64
	views   chan View
}

func NewFeedService(c client.Client, mc *cache.MoodCache, tier *TierService, l logging.Logger) *FeedService {
	return &FeedService{
		client:     c,
		cache:      mc,
		tier:       tier,
		logger:     l.With("service", "feed"),
		retryDelay: defaultRetryDelay,
		current:    View{Total: -1},
		views:      make(chan View, 1),
	}
}

// Views delivers view changes. Only the latest unread view is kept.
func (f *FeedService) Views() <-chan View {
	return f.views
}

// Current returns the last published view.
func (f *FeedService) Current() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.current
	v.Entries = models.Clone(v.Entries)
	return v
}

// publish makes v current and returns its sequence number.
func (f *FeedService) publish(v View) uint64 {
	f.mu.Lock()
	f.seq++
	seq := f.seq
	f.current = v
	f.mu.Unlock()

	v.Entries = models.Clone(v.Entries)
	for {
		select {
		case f.views <- v:
			return seq
		default:
		}
		select {
		case <-f.views:
		default:
		}
	}
}

func countPending(list []models.MoodEntry) int {
	n := 0
	for _, e := range list {
		if e.Pending {
			n++
		}
	}
	return n
}

// capShown keeps every pending entry and at most limit others, in order.
func capShown(list []models.MoodEntry, limit int) []models.MoodEntry {
	if limit <= 0 {
		return models.Clone(list)
	}
	out := make([]models.MoodEntry, 0, len(list))
	n := 0
	for _, e := range list {
		if !e.Pending {
			if n == limit {
				continue
			}
			n++
		}
		out = append(out, e)
	}
	return out
}

func viewOf(list []models.MoodEntry, limit int, total int64) View {
	shown := capShown(list, limit)
	return View{
		Entries: shown,
		Total:   total,
		Pending: countPending(shown),
		Limited: len(shown) < len(list) || (limit > 0 && total > int64(limit)),
		Limit:   limit,
	}
}

// Seed shows the cached history, capped for free users. It needs no
// network.
func (f *FeedService) Seed(ctx context.Context, uid string) (View, error) {
	limit, err := f.tier.Limit(ctx, uid)
	if err != nil {
		return View{}, err
	}
	list, err := f.cache.Load(ctx, uid)
	if err != nil {
		return View{}, err
	}

	f.mu.Lock()
	total := f.current.Total
	f.mu.Unlock()

	v := viewOf(list, limit, total)
	f.publish(v)
	return v, nil
}

// Run follows the server's snapshots until ctx ends. A broken stream is
// reopened after a fixed delay.
func (f *FeedService) Run(ctx context.Context, uid string) {
	for {
		err := f.follow(ctx, uid)
		if ctx.Err() != nil {
			return
		}
		f.logger.Warn(ctx, "entry stream closed, resubscribing", "error", err, "delay", f.retryDelay)

		t := time.NewTimer(f.retryDelay)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}
}

func (f *FeedService) follow(ctx context.Context, uid string) error {
	w, err := f.client.WatchEntries(ctx)
	if err != nil {
		return err
	}
	for {
		snap, err := w.Recv()
		if err != nil {
			return err
		}
		if _, err := f.applySnapshot(ctx, uid, snap); err != nil {
			f.logger.Error(ctx, "snapshot not applied", "error", err)
		}
	}
}

// applySnapshot replaces the view with snap. Pending entries that the
// server has not confirmed stay at the head; the cache is overwritten with
// exactly what is shown. Server copies of entries deleted while their
// create was in flight are hidden and deleted.
func (f *FeedService) applySnapshot(ctx context.Context, uid string, snap []models.MoodEntry) (View, error) {
	limit, err := f.tier.Limit(ctx, uid)
	if err != nil {
		return View{}, err
	}

	var (
		live   []models.MoodEntry
		remote []models.MoodEntry
		stale  []models.MoodEntry
	)
	shown, err := f.cache.Merge(ctx, uid, func(cur []models.MoodEntry, discarded map[string]struct{}) []models.MoodEntry {
		live = make([]models.MoodEntry, 0, len(snap))
		confirmed := make(map[string]struct{}, len(snap))
		for _, e := range snap {
			if _, ok := discarded[e.ClientID]; ok && e.ClientID != "" {
				stale = append(stale, e)
				continue
			}
			if e.ClientID != "" {
				confirmed[e.ClientID] = struct{}{}
			}
			live = append(live, e)
		}
		remote = Cap(live, limit)

		out := make([]models.MoodEntry, 0, len(remote)+len(cur))
		for _, e := range cur {
			if !e.Pending {
				continue
			}
			if _, ok := confirmed[e.ID]; ok {
				continue
			}
			out = append(out, e)
		}
		return append(out, remote...)
	})
	if err != nil {
		return View{}, err
	}

	for _, e := range stale {
		if err := dropDiscarded(ctx, f.client, f.cache, uid, e.ClientID, e.ID); err != nil {
			f.logger.Warn(ctx, "discarded entry not deleted", "id", e.ID, "error", err)
		}
	}

	total, err := f.client.CountEntries(ctx)
	if err != nil {
		f.logger.Warn(ctx, "count query failed", "error", err)
		total = int64(len(live))
	}

	v := View{
		Entries: shown,
		Total:   total,
		Pending: countPending(shown),
		Limited: len(remote) < len(live) || (limit > 0 && total > int64(limit)),
		Limit:   limit,
	}
	f.publish(v)
	return v, nil
}

// Delete removes id from the view and the cache first. If the server
// refuses, the previous list comes back unchanged and the error is
// returned. Entries that never reached the server are removed locally and
// remembered, so a create still in flight is undone when it lands.
func (f *FeedService) Delete(ctx context.Context, uid, id string) error {
	temp := models.MoodEntry{ID: id}.IsTemp()

	var (
		prev []models.MoodEntry
		err  error
	)
	if temp {
		prev, err = f.cache.Discard(ctx, uid, id)
	} else {
		prev, err = f.cache.Remove(ctx, uid, id)
	}
	if err != nil {
		return err
	}

	found := slices.ContainsFunc(prev, func(e models.MoodEntry) bool { return e.ID == id })

	before := f.Current()
	v := before
	v.Entries = dropID(before.Entries, id)
	v.Pending = countPending(v.Entries)
	if found && !temp && v.Total > 0 {
		v.Total--
	}
	seq := f.publish(v)

	if temp {
		return nil
	}

	if err := f.client.DeleteEntry(ctx, id); err != nil {
		if rerr := f.cache.Restore(ctx, uid, prev); rerr != nil {
			return errors.Join(err, rerr)
		}
		f.publish(f.restoredView(ctx, uid, prev, before, seq))
		return err
	}
	return nil
}

// restoredView rebuilds the view from a restored list. The count comes from
// the optimistic view's predecessor unless a snapshot has been published
// since, in which case that snapshot's count stands.
func (f *FeedService) restoredView(ctx context.Context, uid string, list []models.MoodEntry, before View, seq uint64) View {
	f.mu.Lock()
	total := before.Total
	if f.seq != seq {
		total = f.current.Total
	}
	f.mu.Unlock()

	limit, err := f.tier.Limit(ctx, uid)
	if err != nil {
		limit = before.Limit
	}
	return viewOf(list, limit, total)
}

func dropID(list []models.MoodEntry, id string) []models.MoodEntry {
	out := make([]models.MoodEntry, 0, len(list))
	for _, e := range list {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}

// Filter keeps entries whose note or mood contains search (case
// insensitive) and whose mood equals category. An empty category or
// CategoryAll matches every mood.
func Filter(entries []models.MoodEntry, search, category string) []models.MoodEntry {
	q := strings.ToLower(strings.TrimSpace(search))
	all := category == "" || strings.EqualFold(category, CategoryAll)

	out := make([]models.MoodEntry, 0, len(entries))
	for _, e := range entries {
		if q != "" &&
			!strings.Contains(strings.ToLower(e.Note), q) &&
			!strings.Contains(strings.ToLower(e.Mood), q) {
			continue
		}
		if !all && !strings.EqualFold(e.Mood, category) {
			continue
		}
		out = append(out, e)
	}
	return out
}
