package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/mindbalance/internal/client/kvstore"
	"github.com/dmitrijs2005/mindbalance/internal/common"
)

const DefaultTheme = "default"

// Themes lists the selectable themes.
var Themes = []string{DefaultTheme, "dark", "blue", "green", "purple"}

func isTheme(name string) bool {
	for _, t := range Themes {
		if t == name {
			return true
		}
	}
	return false
}

type ThemeService struct {
	store kvstore.Store
	tier  *TierService
}

func NewThemeService(s kvstore.Store, tier *TierService) *ThemeService {
	return &ThemeService{store: s, tier: tier}
}

// Current returns the stored theme for Pro users and DefaultTheme for
// everyone else.
func (t *ThemeService) Current(ctx context.Context, uid string) (string, error) {
	pro, err := t.tier.IsPro(ctx, uid)
	if err != nil {
		return DefaultTheme, err
	}
	if !pro {
		return DefaultTheme, nil
	}

	var name string
	err = kvstore.GetJSON(ctx, t.store, kvstore.ThemeKey(uid), &name)
	if errors.Is(err, common.ErrorNotFound) || (err == nil && !isTheme(name)) {
		return DefaultTheme, nil
	}
	if err != nil {
		return DefaultTheme, err
	}
	return name, nil
}

func (t *ThemeService) Set(ctx context.Context, uid, name string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if !isTheme(name) {
		return ErrUnknownTheme
	}
	pro, err := t.tier.IsPro(ctx, uid)
	if err != nil {
		return err
	}
	if !pro {
		return ErrProRequired
	}
	return kvstore.SetJSON(ctx, t.store, kvstore.ThemeKey(uid), name)
}

func (t *ThemeService) Reset(ctx context.Context, uid string) error {
	return t.store.Delete(ctx, kvstore.ThemeKey(uid))
}
