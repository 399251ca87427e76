package grpc

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/mindbalance/internal/common"
	"github.com/dmitrijs2005/mindbalance/internal/logging"
	"github.com/dmitrijs2005/mindbalance/internal/server/models"
	"github.com/dmitrijs2005/mindbalance/internal/server/realtime"
	"github.com/dmitrijs2005/mindbalance/internal/server/services"
)

type fakeUsers struct {
	regResp *models.User
	regErr  error

	saltResp []byte
	saltErr  error

	loginResp *services.TokenPair
	loginErr  error

	refreshResp *services.TokenPair
	refreshErr  error

	profile    *models.User
	profileErr error
}

func (f *fakeUsers) Register(context.Context, string, []byte, []byte) (*models.User, error) {
	return f.regResp, f.regErr
}
func (f *fakeUsers) GetSalt(context.Context, string) ([]byte, error) { return f.saltResp, f.saltErr }
func (f *fakeUsers) Login(context.Context, string, []byte) (*services.TokenPair, error) {
	return f.loginResp, f.loginErr
}
func (f *fakeUsers) RefreshToken(context.Context, string) (*services.TokenPair, error) {
	return f.refreshResp, f.refreshErr
}
func (f *fakeUsers) Profile(context.Context, string) (*models.User, error) {
	return f.profile, f.profileErr
}

// memMoods is an in-memory mood service that notifies a real hub, so
// stream tests exercise the same signalling path as production.
type memMoods struct {
	mu      sync.Mutex
	hub     *realtime.Hub
	entries map[string][]models.MoodEntry
	nextID  int
	err     error
}

func newMemMoods(h *realtime.Hub) *memMoods {
	return &memMoods{hub: h, entries: map[string][]models.MoodEntry{}}
}

func (m *memMoods) Create(_ context.Context, uid string, e models.MoodEntry) (*models.MoodEntry, error) {
	m.mu.Lock()
	if m.err != nil {
		m.mu.Unlock()
		return nil, m.err
	}
	m.nextID++
	e.ID = fmt.Sprintf("e%d", m.nextID)
	e.UserID = uid
	e.HasPhoto = e.PhotoURL != nil
	m.entries[uid] = append([]models.MoodEntry{e}, m.entries[uid]...)
	m.mu.Unlock()
	m.hub.Notify(uid)
	return &e, nil
}

func (m *memMoods) Update(_ context.Context, uid, id string, p models.MoodPatch) (*models.MoodEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.entries[uid] {
		e := &m.entries[uid][i]
		if e.ID != id {
			continue
		}
		if p.Note != nil {
			e.Note = *p.Note
		}
		if p.Mood != nil {
			e.Mood = *p.Mood
		}
		if p.Stress != nil {
			e.Stress = *p.Stress
		}
		if p.ClearPhoto {
			e.PhotoURL, e.HasPhoto = nil, false
		} else if p.PhotoURL != nil {
			e.PhotoURL, e.HasPhoto = p.PhotoURL, true
		}
		out := *e
		return &out, nil
	}
	return nil, common.ErrorNotFound
}

func (m *memMoods) Delete(_ context.Context, uid, id string) error {
	m.mu.Lock()
	if m.err != nil {
		m.mu.Unlock()
		return m.err
	}
	list := m.entries[uid]
	for i := range list {
		if list[i].ID == id {
			m.entries[uid] = append(list[:i:i], list[i+1:]...)
			m.mu.Unlock()
			m.hub.Notify(uid)
			return nil
		}
	}
	m.mu.Unlock()
	return common.ErrorNotFound
}

func (m *memMoods) List(_ context.Context, uid string, limit int) ([]models.MoodEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	list := append([]models.MoodEntry(nil), m.entries[uid]...)
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (m *memMoods) Count(_ context.Context, uid string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return int64(len(m.entries[uid])), nil
}

type fakeAssets struct {
	out *services.UploadTarget
	err error
}

func (f *fakeAssets) UploadURL(context.Context, string, string, string) (*services.UploadTarget, error) {
	return f.out, f.err
}

func newTestServer(secret string) (*GRPCServer, *fakeUsers, *memMoods, *fakeAssets) {
	hub := realtime.NewHub()
	u := &fakeUsers{}
	m := newMemMoods(hub)
	a := &fakeAssets{}
	return NewGRPCServer("127.0.0.1:0", logging.Nop(), u, m, a, hub, secret), u, m, a
}
