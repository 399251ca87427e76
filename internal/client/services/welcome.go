package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/mindbalance/internal/client/kvstore"
	"github.com/dmitrijs2005/mindbalance/internal/common"
)

const (
	WelcomeNew       = "Welcome to MindBalance Aid!"
	WelcomeReturning = "Welcome back!"
)

type WelcomeService struct {
	store kvstore.Store
}

func NewWelcomeService(s kvstore.Store) *WelcomeService {
	return &WelcomeService{store: s}
}

// Check reports whether uid has been greeted on this device before and
// marks them as greeted.
func (w *WelcomeService) Check(ctx context.Context, uid string) (bool, error) {
	var seen bool
	err := kvstore.GetJSON(ctx, w.store, kvstore.WelcomeKey(uid), &seen)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return false, err
	}
	if seen {
		return true, nil
	}
	return false, kvstore.SetJSON(ctx, w.store, kvstore.WelcomeKey(uid), true)
}

// Greeting picks the message for a returning or new user.
func Greeting(returning bool) string {
	if returning {
		return WelcomeReturning
	}
	return WelcomeNew
}
