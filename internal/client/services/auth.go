// Package services contains application services for the MindBalance
// client. This file defines the authentication service: online/offline
// sign-in, registration, session persistence across restarts and sign-out.
package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/mindbalance/internal/client/client"
	"github.com/dmitrijs2005/mindbalance/internal/client/kvstore"
	"github.com/dmitrijs2005/mindbalance/internal/client/models"
	"github.com/dmitrijs2005/mindbalance/internal/common"
	"github.com/dmitrijs2005/mindbalance/internal/cryptox"
	"github.com/dmitrijs2005/mindbalance/internal/logging"
)

// Identity is the signed-in user. Offline is set when the server could not
// confirm the sign-in; remote calls will fail until Resume succeeds.
type Identity struct {
	UserID  string
	Email   string
	Offline bool
}

// AuthService is the identity provider for the rest of the client.
type AuthService struct {
	client client.Client
	store  kvstore.Store
	logger logging.Logger

	mu      sync.RWMutex
	current *Identity
}

// NewAuthService constructs an AuthService bound to the given API client
// and local store. Rotated refresh tokens are written back to the stored
// session so a restart can resume it.
func NewAuthService(c client.Client, s kvstore.Store, l logging.Logger) *AuthService {
	a := &AuthService{client: c, store: s, logger: l.With("service", "auth")}
	c.OnTokens(a.persistTokens)
	return a
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Current returns the signed-in identity, or nil.
func (a *AuthService) Current() *Identity {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.current == nil {
		return nil
	}
	id := *a.current
	return &id
}

func (a *AuthService) setCurrent(id *Identity) {
	a.mu.Lock()
	a.current = id
	a.mu.Unlock()
}

// Register creates a new account on the server. It generates a random
// salt, derives the verifier from the password and sends salt/verifier.
// Registration needs the server.
func (a *AuthService) Register(ctx context.Context, email string, password []byte) error {
	email = normalizeEmail(email)
	if !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email: %w", common.ErrorIncorrectMetadata)
	}
	if len(password) == 0 {
		return fmt.Errorf("empty password: %w", common.ErrorIncorrectMetadata)
	}

	salt := common.GenerateRandByteArray(cryptox.SaltLen)
	verifier := cryptox.Verifier(password, salt)

	if _, err := a.client.Register(ctx, email, salt, verifier); err != nil {
		return err
	}
	return nil
}

// Login tries the server first and falls back to the offline credentials
// cached by the last successful online sign-in when the server is
// unreachable.
func (a *AuthService) Login(ctx context.Context, email string, password []byte) (*Identity, error) {
	email = normalizeEmail(email)

	id, err := a.OnlineLogin(ctx, email, password)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, client.ErrUnavailable) {
		return nil, err
	}

	a.logger.Info(ctx, "server unavailable, trying offline login")
	return a.OfflineLogin(ctx, email, password)
}

// OnlineLogin authenticates against the server, saves the session and the
// offline credentials.
func (a *AuthService) OnlineLogin(ctx context.Context, email string, password []byte) (*Identity, error) {
	email = normalizeEmail(email)

	salt, err := a.client.GetSalt(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get salt error: %w", err)
	}

	verifier := cryptox.Verifier(password, salt)

	tokens, err := a.client.Login(ctx, email, verifier)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}

	creds := models.OfflineCredentials{UserID: tokens.UserID, Salt: salt, Verifier: verifier}
	if err := kvstore.SetJSON(ctx, a.store, kvstore.AuthKey(email), creds); err != nil {
		return nil, fmt.Errorf("offline data saving error: %w", err)
	}

	session := models.Session{UserID: tokens.UserID, Email: email, RefreshToken: tokens.RefreshToken}
	if err := kvstore.SetJSON(ctx, a.store, kvstore.SessionKey, session); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}

	id := &Identity{UserID: tokens.UserID, Email: email}
	a.setCurrent(id)
	return a.Current(), nil
}

// OfflineLogin verifies the password against the locally cached verifier.
// Missing local data yields client.ErrLocalDataNotAvailable; a wrong
// password yields client.ErrUnauthorized.
func (a *AuthService) OfflineLogin(ctx context.Context, email string, password []byte) (*Identity, error) {
	email = normalizeEmail(email)

	var creds models.OfflineCredentials
	if err := kvstore.GetJSON(ctx, a.store, kvstore.AuthKey(email), &creds); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, client.ErrLocalDataNotAvailable
		}
		return nil, err
	}

	candidate := cryptox.Verifier(password, creds.Salt)
	if subtle.ConstantTimeCompare(creds.Verifier, candidate) == 0 {
		return nil, client.ErrUnauthorized
	}

	// keep a refresh token from an earlier online session of the same user
	session := models.Session{UserID: creds.UserID, Email: email}
	var prev models.Session
	if err := kvstore.GetJSON(ctx, a.store, kvstore.SessionKey, &prev); err == nil && prev.UserID == creds.UserID {
		session.RefreshToken = prev.RefreshToken
	}
	if err := kvstore.SetJSON(ctx, a.store, kvstore.SessionKey, session); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}

	id := &Identity{UserID: creds.UserID, Email: email, Offline: true}
	a.setCurrent(id)
	return a.Current(), nil
}

// Restore brings back the session persisted by the last run. It returns
// (nil, nil) when nobody was signed in. An unreachable server keeps the
// identity in offline mode; a rejected refresh token signs the user out.
func (a *AuthService) Restore(ctx context.Context) (*Identity, error) {
	var session models.Session
	if err := kvstore.GetJSON(ctx, a.store, kvstore.SessionKey, &session); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, err
	}

	id := &Identity{UserID: session.UserID, Email: session.Email, Offline: true}
	a.setCurrent(id)

	if err := a.Resume(ctx); err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return nil, err
		}
		a.logger.Warn(ctx, "session kept offline", "error", err)
	}
	return a.Current(), nil
}

// Resume upgrades an offline identity to an online one using the stored
// refresh token. It is a no-op for online identities.
func (a *AuthService) Resume(ctx context.Context) error {
	cur := a.Current()
	if cur == nil {
		return client.ErrNotSignedIn
	}
	if !cur.Offline {
		return nil
	}

	var session models.Session
	if err := kvstore.GetJSON(ctx, a.store, kvstore.SessionKey, &session); err != nil {
		return err
	}
	if session.RefreshToken == "" {
		return client.ErrLocalDataNotAvailable
	}

	tokens, err := a.client.Refresh(ctx, session.RefreshToken)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			_ = a.Logout(ctx)
		}
		return err
	}

	a.setCurrent(&Identity{UserID: tokens.UserID, Email: session.Email})
	return nil
}

func (a *AuthService) persistTokens(t client.Tokens) {
	ctx := context.Background()

	var session models.Session
	if err := kvstore.GetJSON(ctx, a.store, kvstore.SessionKey, &session); err != nil {
		return
	}
	if t.UserID != "" && t.UserID != session.UserID {
		return
	}
	session.RefreshToken = t.RefreshToken
	if err := kvstore.SetJSON(ctx, a.store, kvstore.SessionKey, session); err != nil {
		a.logger.Warn(ctx, "refresh token not persisted", "error", err)
	}
}

// Logout forgets the session. Cached moods and offline credentials stay on
// the device.
func (a *AuthService) Logout(ctx context.Context) error {
	a.client.Logout()
	a.setCurrent(nil)
	return a.store.Delete(ctx, kvstore.SessionKey)
}

// Profile returns the server-side profile of the signed-in user.
func (a *AuthService) Profile(ctx context.Context) (*client.Profile, error) {
	if a.Current() == nil {
		return nil, client.ErrNotSignedIn
	}
	return a.client.Profile(ctx)
}

// Ping proxies a liveness check to the underlying client.
func (a *AuthService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *AuthService) Close(ctx context.Context) error {
	return a.client.Close()
}
