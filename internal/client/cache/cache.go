// Package cache keeps each user's mood list in the local store. Every
// read-modify-write goes through Update, which holds a per-user lock, so
// snapshot overwrites and user actions never interleave.
package cache

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"

	"github.com/dmitrijs2005/mindbalance/internal/client/kvstore"
	"github.com/dmitrijs2005/mindbalance/internal/client/models"
	"github.com/dmitrijs2005/mindbalance/internal/common"
)

type MoodCache struct {
	store kvstore.Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(s kvstore.Store) *MoodCache {
	return &MoodCache{store: s, locks: make(map[string]*sync.Mutex)}
}

func (c *MoodCache) userLock(uid string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[uid]
	if !ok {
		l = &sync.Mutex{}
		c.locks[uid] = l
	}
	return l
}

func (c *MoodCache) read(ctx context.Context, uid string) ([]models.MoodEntry, error) {
	var list []models.MoodEntry
	err := kvstore.GetJSON(ctx, c.store, kvstore.MoodsKey(uid), &list)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	return list, err
}

// Load returns the cached list, newest first. A user with no cache gets an
// empty list.
func (c *MoodCache) Load(ctx context.Context, uid string) ([]models.MoodEntry, error) {
	l := c.userLock(uid)
	l.Lock()
	defer l.Unlock()
	return c.read(ctx, uid)
}

func (c *MoodCache) write(ctx context.Context, uid string, next []models.MoodEntry) ([]models.MoodEntry, error) {
	if next == nil {
		next = []models.MoodEntry{}
	}
	if err := kvstore.SetJSON(ctx, c.store, kvstore.MoodsKey(uid), next); err != nil {
		return nil, err
	}
	return next, nil
}

func (c *MoodCache) readDiscarded(ctx context.Context, uid string) (map[string]struct{}, error) {
	var ids []string
	err := kvstore.GetJSON(ctx, c.store, kvstore.DiscardedKey(uid), &ids)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func (c *MoodCache) writeDiscarded(ctx context.Context, uid string, set map[string]struct{}) error {
	if len(set) == 0 {
		return c.store.Delete(ctx, kvstore.DiscardedKey(uid))
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return kvstore.SetJSON(ctx, c.store, kvstore.DiscardedKey(uid), ids)
}

// Update replaces the cached list with fn(current) and returns the stored
// result. fn runs under the user's lock and must not call back into c.
func (c *MoodCache) Update(ctx context.Context, uid string, fn func([]models.MoodEntry) []models.MoodEntry) ([]models.MoodEntry, error) {
	return c.Merge(ctx, uid, func(cur []models.MoodEntry, _ map[string]struct{}) []models.MoodEntry {
		return fn(cur)
	})
}

// Merge is Update with the set of discarded temp ids passed to fn.
func (c *MoodCache) Merge(ctx context.Context, uid string, fn func(cur []models.MoodEntry, discarded map[string]struct{}) []models.MoodEntry) ([]models.MoodEntry, error) {
	l := c.userLock(uid)
	l.Lock()
	defer l.Unlock()

	cur, err := c.read(ctx, uid)
	if err != nil {
		return nil, err
	}
	discarded, err := c.readDiscarded(ctx, uid)
	if err != nil {
		return nil, err
	}
	return c.write(ctx, uid, fn(cur, discarded))
}

// Prepend puts e at the head of the list.
func (c *MoodCache) Prepend(ctx context.Context, uid string, e models.MoodEntry) error {
	_, err := c.Update(ctx, uid, func(cur []models.MoodEntry) []models.MoodEntry {
		return append([]models.MoodEntry{e}, cur...)
	})
	return err
}

func (c *MoodCache) Replace(ctx context.Context, uid string, list []models.MoodEntry) error {
	_, err := c.Update(ctx, uid, func([]models.MoodEntry) []models.MoodEntry {
		return models.Clone(list)
	})
	return err
}

// Remove drops the entry with id and returns the list as it was before.
func (c *MoodCache) Remove(ctx context.Context, uid, id string) ([]models.MoodEntry, error) {
	var prev []models.MoodEntry
	_, err := c.Update(ctx, uid, func(cur []models.MoodEntry) []models.MoodEntry {
		prev = models.Clone(cur)
		return dropIDs(cur, id)
	})
	return prev, err
}

// Discard removes the pending entry id and remembers it, so a server copy
// whose create was still in flight can be deleted when it shows up. It
// returns the list as it was before.
func (c *MoodCache) Discard(ctx context.Context, uid, id string) ([]models.MoodEntry, error) {
	l := c.userLock(uid)
	l.Lock()
	defer l.Unlock()

	cur, err := c.read(ctx, uid)
	if err != nil {
		return nil, err
	}
	discarded, err := c.readDiscarded(ctx, uid)
	if err != nil {
		return nil, err
	}
	discarded[id] = struct{}{}
	if err := c.writeDiscarded(ctx, uid, discarded); err != nil {
		return nil, err
	}
	if _, err := c.write(ctx, uid, dropIDs(cur, id)); err != nil {
		return nil, err
	}
	return models.Clone(cur), nil
}

// Confirm swaps the pending entry tempID for its server copy; if a
// snapshot already brought the copy in, the pending one is just dropped.
// It returns false when tempID was discarded: neither copy is kept then
// and the caller owns deleting remote.
func (c *MoodCache) Confirm(ctx context.Context, uid, tempID string, remote models.MoodEntry) (bool, error) {
	l := c.userLock(uid)
	l.Lock()
	defer l.Unlock()

	cur, err := c.read(ctx, uid)
	if err != nil {
		return false, err
	}
	discarded, err := c.readDiscarded(ctx, uid)
	if err != nil {
		return false, err
	}
	if _, ok := discarded[tempID]; ok {
		_, err := c.write(ctx, uid, dropIDs(cur, tempID, remote.ID))
		return false, err
	}

	have := false
	for _, e := range cur {
		if e.ID == remote.ID {
			have = true
			break
		}
	}
	out := make([]models.MoodEntry, 0, len(cur))
	for _, e := range cur {
		if e.ID != tempID {
			out = append(out, e)
			continue
		}
		if !have {
			out = append(out, remote)
		}
	}
	_, err = c.write(ctx, uid, out)
	return true, err
}

// Forget clears a discarded id once its server copy is gone.
func (c *MoodCache) Forget(ctx context.Context, uid, id string) error {
	l := c.userLock(uid)
	l.Lock()
	defer l.Unlock()

	discarded, err := c.readDiscarded(ctx, uid)
	if err != nil {
		return err
	}
	if _, ok := discarded[id]; !ok {
		return nil
	}
	delete(discarded, id)
	return c.writeDiscarded(ctx, uid, discarded)
}

// Discarded returns the discarded temp ids, sorted.
func (c *MoodCache) Discarded(ctx context.Context, uid string) ([]string, error) {
	l := c.userLock(uid)
	l.Lock()
	defer l.Unlock()

	set, err := c.readDiscarded(ctx, uid)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func dropIDs(list []models.MoodEntry, ids ...string) []models.MoodEntry {
	out := make([]models.MoodEntry, 0, len(list))
	for _, e := range list {
		if !slices.Contains(ids, e.ID) {
			out = append(out, e)
		}
	}
	return out
}

// Restore writes back a list previously returned by Remove.
func (c *MoodCache) Restore(ctx context.Context, uid string, prev []models.MoodEntry) error {
	return c.Replace(ctx, uid, prev)
}

// Pending returns the entries whose remote write is not confirmed yet.
func (c *MoodCache) Pending(ctx context.Context, uid string) ([]models.MoodEntry, error) {
	list, err := c.Load(ctx, uid)
	if err != nil {
		return nil, err
	}
	var out []models.MoodEntry
	for _, e := range list {
		if e.Pending {
			out = append(out, e)
		}
	}
	return out, nil
}
