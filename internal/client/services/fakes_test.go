package services

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/mindbalance/internal/client/cache"
	"github.com/dmitrijs2005/mindbalance/internal/client/client"
	"github.com/dmitrijs2005/mindbalance/internal/client/kvstore"
	"github.com/dmitrijs2005/mindbalance/internal/client/models"
)

func newStore(t *testing.T) kvstore.Store {
	t.Helper()
	return kvstore.NewDiskvStore(filepath.Join(t.TempDir(), "kv"))
}

type staticOnline bool

func (s staticOnline) Online() bool { return bool(s) }

// fakeClient implements client.Client. Unset hooks succeed with zero values.
type fakeClient struct {
	mu sync.Mutex

	RegisterErr error
	GetSaltRet  []byte
	GetSaltErr  error
	LoginRet    *client.Tokens
	LoginErr    error
	RefreshRet  *client.Tokens
	RefreshErr  error
	PingErr     error

	CreateFn  func(ctx context.Context, e models.MoodEntry) (*models.MoodEntry, error)
	UpdateFn  func(ctx context.Context, id string, p client.EntryPatch) (*models.MoodEntry, error)
	DeleteFn  func(ctx context.Context, id string) error
	DeleteErr error
	CountRet  int64
	CountErr  error
	WatchFn   func(ctx context.Context) (client.Watcher, error)
	UploadRet string
	UploadErr error

	LastRegisterSalt     []byte
	LastRegisterVerifier []byte
	LastLoginVerifier    []byte
	Created              []models.MoodEntry
	Patches              map[string]client.EntryPatch
	Deleted              []string
	Uploads              int
	LoggedOut            bool

	onTokens func(client.Tokens)
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Close() error                    { return nil }
func (f *fakeClient) Ping(context.Context) error      { return f.PingErr }
func (f *fakeClient) OnTokens(fn func(client.Tokens)) { f.onTokens = fn }

func (f *fakeClient) Logout() {
	f.mu.Lock()
	f.LoggedOut = true
	f.mu.Unlock()
}

func (f *fakeClient) Register(_ context.Context, _ string, salt, verifier []byte) (string, error) {
	f.LastRegisterSalt = salt
	f.LastRegisterVerifier = verifier
	return "u1", f.RegisterErr
}

func (f *fakeClient) GetSalt(context.Context, string) ([]byte, error) {
	return f.GetSaltRet, f.GetSaltErr
}

func (f *fakeClient) Login(_ context.Context, _ string, verifier []byte) (*client.Tokens, error) {
	f.LastLoginVerifier = verifier
	if f.LoginErr != nil {
		return nil, f.LoginErr
	}
	return f.LoginRet, nil
}

func (f *fakeClient) Refresh(context.Context, string) (*client.Tokens, error) {
	if f.RefreshErr != nil {
		return nil, f.RefreshErr
	}
	if f.onTokens != nil {
		f.onTokens(*f.RefreshRet)
	}
	return f.RefreshRet, nil
}

func (f *fakeClient) Profile(context.Context) (*client.Profile, error) {
	return &client.Profile{UserID: "u1", Email: "a@b.c"}, nil
}

func (f *fakeClient) CreateEntry(ctx context.Context, e models.MoodEntry) (*models.MoodEntry, error) {
	f.mu.Lock()
	f.Created = append(f.Created, e)
	fn := f.CreateFn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, e)
	}
	out := e
	out.ClientID = e.ID
	out.ID = "srv_" + e.ID
	out.Pending = false
	out.Synced = true
	return &out, nil
}

func (f *fakeClient) created() []models.MoodEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return models.Clone(f.Created)
}

func (f *fakeClient) UpdateEntry(ctx context.Context, id string, p client.EntryPatch) (*models.MoodEntry, error) {
	f.mu.Lock()
	if f.Patches == nil {
		f.Patches = map[string]client.EntryPatch{}
	}
	f.Patches[id] = p
	f.mu.Unlock()
	if f.UpdateFn != nil {
		return f.UpdateFn(ctx, id, p)
	}
	return &models.MoodEntry{ID: id}, nil
}

func (f *fakeClient) DeleteEntry(ctx context.Context, id string) error {
	f.mu.Lock()
	f.Deleted = append(f.Deleted, id)
	fn := f.DeleteFn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, id)
	}
	return f.DeleteErr
}

func (f *fakeClient) deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Deleted...)
}

func (f *fakeClient) ListEntries(context.Context, int) ([]models.MoodEntry, error) {
	return nil, nil
}

func (f *fakeClient) CountEntries(context.Context) (int64, error) {
	return f.CountRet, f.CountErr
}

func (f *fakeClient) WatchEntries(ctx context.Context) (client.Watcher, error) {
	if f.WatchFn != nil {
		return f.WatchFn(ctx)
	}
	return nil, client.ErrUnavailable
}

func (f *fakeClient) UploadPhoto(context.Context, []byte) (string, error) {
	f.mu.Lock()
	f.Uploads++
	f.mu.Unlock()
	return f.UploadRet, f.UploadErr
}

// chanWatcher hands out snapshots pushed into its channel. Closing the
// channel ends the stream with io.EOF.
type chanWatcher struct {
	ctx   context.Context
	snaps chan []models.MoodEntry
}

func (w *chanWatcher) Recv() ([]models.MoodEntry, error) {
	select {
	case <-w.ctx.Done():
		return nil, w.ctx.Err()
	case s, ok := <-w.snaps:
		if !ok {
			return nil, io.EOF
		}
		return s, nil
	}
}

var errBoom = errors.New("boom")

func newCache(t *testing.T) (*cache.MoodCache, kvstore.Store) {
	s := newStore(t)
	return cache.New(s), s
}
