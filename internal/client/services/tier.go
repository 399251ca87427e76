package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mindbalance/internal/client/kvstore"
	"github.com/dmitrijs2005/mindbalance/internal/client/models"
	"github.com/dmitrijs2005/mindbalance/internal/common"
)

// FreeHistoryLimit is how many entries a free account sees.
const FreeHistoryLimit = 10

// TierService reads and sets the per-user Pro flag. The flag lives only on
// the device and is trusted as is.
type TierService struct {
	store kvstore.Store
}

func NewTierService(s kvstore.Store) *TierService {
	return &TierService{store: s}
}

func (t *TierService) IsPro(ctx context.Context, uid string) (bool, error) {
	var pro bool
	err := kvstore.GetJSON(ctx, t.store, kvstore.ProKey(uid), &pro)
	if errors.Is(err, common.ErrorNotFound) {
		return false, nil
	}
	return pro, err
}

// Upgrade unlocks Pro for uid. There is no payment or server check.
func (t *TierService) Upgrade(ctx context.Context, uid string) error {
	return kvstore.SetJSON(ctx, t.store, kvstore.ProKey(uid), true)
}

// ProFlags returns every Pro flag stored on the device, by user id.
func (t *TierService) ProFlags(ctx context.Context) (map[string]bool, error) {
	prefix := kvstore.ProKey("")
	keys, err := t.store.Keys(ctx, prefix)
	if err != nil {
		return nil, err
	}
	flags := make(map[string]bool, len(keys))
	for _, k := range keys {
		var pro bool
		if err := kvstore.GetJSON(ctx, t.store, k, &pro); err != nil {
			return nil, fmt.Errorf("read %s: %w", k, err)
		}
		flags[strings.TrimPrefix(k, prefix)] = pro
	}
	return flags, nil
}

// ResetAll clears the Pro flag of every user on the device and returns how
// many were removed.
func (t *TierService) ResetAll(ctx context.Context) (int, error) {
	keys, err := t.store.Keys(ctx, kvstore.ProKey(""))
	if err != nil {
		return 0, err
	}
	for i, k := range keys {
		if err := t.store.Delete(ctx, k); err != nil {
			return i, err
		}
	}
	return len(keys), nil
}

// Limit is the history cap for uid; 0 means unlimited.
func (t *TierService) Limit(ctx context.Context, uid string) (int, error) {
	pro, err := t.IsPro(ctx, uid)
	if err != nil {
		return FreeHistoryLimit, err
	}
	if pro {
		return 0, nil
	}
	return FreeHistoryLimit, nil
}

// Cap returns at most limit entries of list; limit 0 keeps everything.
func Cap(list []models.MoodEntry, limit int) []models.MoodEntry {
	if limit > 0 && len(list) > limit {
		return list[:limit]
	}
	return list
}
