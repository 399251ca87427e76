package services

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/dmitrijs2005/mindbalance/internal/dbx"
	"github.com/dmitrijs2005/mindbalance/internal/server/models"
	"github.com/dmitrijs2005/mindbalance/internal/server/repositories/moods"
	"github.com/dmitrijs2005/mindbalance/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/mindbalance/internal/server/repositories/users"
)

type fakeUsersRepo struct {
	createOut *models.User
	createErr error
	created   *models.User

	getOut *models.User
	getErr error

	touched  []string
	touchErr error
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.created = u
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeUsersRepo) GetUserByLogin(context.Context, string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetUserByID(context.Context, string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) TouchLogin(_ context.Context, id string) error {
	f.touched = append(f.touched, id)
	return f.touchErr
}

type fakeRefreshRepo struct {
	findOut *models.RefreshToken
	findErr error

	deleted   []string
	delErr    error
	createErr error
	createdN  int
}

func (f *fakeRefreshRepo) Create(context.Context, string, string, time.Duration) error {
	f.createdN++
	return f.createErr
}

func (f *fakeRefreshRepo) Find(context.Context, string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(_ context.Context, token string) error {
	f.deleted = append(f.deleted, token)
	return f.delErr
}

type fakeMoodsRepo struct {
	createOut *models.MoodEntry
	created   bool
	createErr error
	gotCreate *models.MoodEntry

	updateOut *models.MoodEntry
	updateErr error
	gotPatch  models.MoodPatch

	deleteErr error

	listOut []models.MoodEntry
	listErr error
	gotLim  int

	count    int64
	countErr error
}

func (f *fakeMoodsRepo) Create(_ context.Context, e *models.MoodEntry) (*models.MoodEntry, bool, error) {
	f.gotCreate = e
	if f.createErr != nil {
		return nil, false, f.createErr
	}
	return f.createOut, f.created, nil
}

func (f *fakeMoodsRepo) Update(_ context.Context, _, _ string, p models.MoodPatch) (*models.MoodEntry, error) {
	f.gotPatch = p
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateOut, nil
}

func (f *fakeMoodsRepo) Delete(context.Context, string, string) error { return f.deleteErr }

func (f *fakeMoodsRepo) List(_ context.Context, _ string, limit int) ([]models.MoodEntry, error) {
	f.gotLim = limit
	return f.listOut, f.listErr
}

func (f *fakeMoodsRepo) Count(context.Context, string) (int64, error) { return f.count, f.countErr }

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRefreshRepo
	m *fakeMoodsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error   { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository                { return m.u }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.r }
func (m *fakeRepoManager) Moods(dbx.DBTX) moods.Repository                 { return m.m }

type recordingNotifier struct {
	mu    sync.Mutex
	users []string
}

func (n *recordingNotifier) Notify(userID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.users = append(n.users, userID)
}

func (n *recordingNotifier) calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.users...)
}
