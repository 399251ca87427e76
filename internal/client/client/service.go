package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/mindbalance/internal/client/models"
)

// Tokens is the credential pair issued on login and rotated on refresh.
type Tokens struct {
	UserID       string
	AccessToken  string
	RefreshToken string
}

type Profile struct {
	UserID    string
	Email     string
	CreatedAt time.Time
	LastLogin *time.Time
}

// EntryPatch is a partial update; nil fields are not sent.
type EntryPatch struct {
	Mood       *string
	Note       *string
	Stress     *int
	PhotoURL   *string
	ClearPhoto bool
}

// Watcher yields full entry snapshots, newest first.
type Watcher interface {
	Recv() ([]models.MoodEntry, error)
}

// Client is the remote store, identity provider and asset host as seen
// by the client services.
type Client interface {
	Close() error
	Ping(ctx context.Context) error

	Register(ctx context.Context, username string, salt []byte, verifier []byte) (string, error)
	GetSalt(ctx context.Context, username string) ([]byte, error)
	Login(ctx context.Context, username string, verifier []byte) (*Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (*Tokens, error)
	Logout()
	OnTokens(fn func(Tokens))
	Profile(ctx context.Context) (*Profile, error)

	CreateEntry(ctx context.Context, e models.MoodEntry) (*models.MoodEntry, error)
	UpdateEntry(ctx context.Context, id string, p EntryPatch) (*models.MoodEntry, error)
	DeleteEntry(ctx context.Context, id string) error
	ListEntries(ctx context.Context, limit int) ([]models.MoodEntry, error)
	CountEntries(ctx context.Context) (int64, error)
	WatchEntries(ctx context.Context) (Watcher, error)

	UploadPhoto(ctx context.Context, photo []byte) (string, error)
}
