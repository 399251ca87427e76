package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/mindbalance/internal/client/client"
	"github.com/dmitrijs2005/mindbalance/internal/client/models"
)

// fakeClient is an in-memory server for App tests.
type fakeClient struct {
	mu sync.Mutex

	PingErr   error
	CreateErr error
	DeleteErr error
	UpdateErr error

	entries []models.MoodEntry
	seq     int
	patches map[string]client.EntryPatch
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Close() error                    { return nil }
func (f *fakeClient) Ping(context.Context) error      { return f.PingErr }
func (f *fakeClient) OnTokens(fn func(client.Tokens)) {}
func (f *fakeClient) Logout()                         {}

func (f *fakeClient) Register(context.Context, string, []byte, []byte) (string, error) {
	return "u1", nil
}

func (f *fakeClient) GetSalt(context.Context, string) ([]byte, error) {
	return []byte("0123456789abcdef"), nil
}

func (f *fakeClient) Login(context.Context, string, []byte) (*client.Tokens, error) {
	return &client.Tokens{UserID: "u1", AccessToken: "A", RefreshToken: "R"}, nil
}

func (f *fakeClient) Refresh(context.Context, string) (*client.Tokens, error) {
	return &client.Tokens{UserID: "u1", AccessToken: "A", RefreshToken: "R"}, nil
}

func (f *fakeClient) Profile(context.Context) (*client.Profile, error) {
	return &client.Profile{UserID: "u1", Email: "a@b.c"}, nil
}

func (f *fakeClient) CreateEntry(_ context.Context, e models.MoodEntry) (*models.MoodEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	f.seq++
	out := e
	out.ClientID = e.ID
	out.ID = fmt.Sprintf("srv%d", f.seq)
	out.Pending = false
	out.Synced = true
	f.entries = append([]models.MoodEntry{out}, f.entries...)
	return &out, nil
}

func (f *fakeClient) stored() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

func (f *fakeClient) UpdateEntry(_ context.Context, id string, p client.EntryPatch) (*models.MoodEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	if f.patches == nil {
		f.patches = map[string]client.EntryPatch{}
	}
	f.patches[id] = p
	return &models.MoodEntry{ID: id}, nil
}

func (f *fakeClient) DeleteEntry(context.Context, string) error { return f.DeleteErr }

func (f *fakeClient) ListEntries(context.Context, int) ([]models.MoodEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return models.Clone(f.entries), nil
}

func (f *fakeClient) CountEntries(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.entries)), nil
}

func (f *fakeClient) WatchEntries(context.Context) (client.Watcher, error) {
	return nil, client.ErrUnavailable
}

func (f *fakeClient) UploadPhoto(context.Context, []byte) (string, error) {
	return "https://assets.example/p.jpg", nil
}
