package moods

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/mindbalance/internal/common"
	"github.com/dmitrijs2005/mindbalance/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

var cols = []string{"id", "client_id", "mood", "note", "stress", "photo_url", "has_photo", "created_at"}

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func TestCreate_Inserted(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)INSERT INTO mood_entries .*ON CONFLICT \(user_id, client_id\) DO NOTHING\s+RETURNING id`).
		WithArgs("u1", "temp_1", "Happy", "sunny day", 3, "https://img/p.jpg", true).
		WillReturnRows(sqlmock.NewRows(cols).AddRow("e1", "temp_1", "Happy", "sunny day", 3, "https://img/p.jpg", true, at))

	got, created, err := repo.Create(context.Background(), &models.MoodEntry{
		UserID: "u1", ClientID: "temp_1", Mood: "Happy", Note: "sunny day", Stress: 3, PhotoURL: strp("https://img/p.jpg"),
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "e1", got.ID)
	assert.Equal(t, "u1", got.UserID)
	assert.True(t, got.HasPhoto)
	require.NotNil(t, got.PhotoURL)
	assert.Equal(t, at, got.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_NoPhotoSendsNull(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO mood_entries`).
		WithArgs("u1", "temp_2", "Calm", "tea", 2, nil, false).
		WillReturnRows(sqlmock.NewRows(cols).AddRow("e2", "temp_2", "Calm", "tea", 2, nil, false, time.Now()))

	got, _, err := repo.Create(context.Background(), &models.MoodEntry{UserID: "u1", ClientID: "temp_2", Mood: "Calm", Note: "tea", Stress: 2})
	require.NoError(t, err)
	assert.Nil(t, got.PhotoURL)
	assert.False(t, got.HasPhoto)
}

func TestCreate_DuplicateReturnsExisting(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO mood_entries`).WillReturnRows(sqlmock.NewRows(cols))
	mock.ExpectQuery(`^SELECT id, client_id, mood, note, stress, photo_url, has_photo, created_at FROM mood_entries WHERE user_id = \$1 AND client_id = \$2$`).
		WithArgs("u1", "temp_1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("e1", "temp_1", "Sad", "rain", 7, nil, false, at))

	got, created, err := repo.Create(context.Background(), &models.MoodEntry{UserID: "u1", ClientID: "temp_1", Mood: "Sad", Note: "rain", Stress: 7})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "e1", got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`INSERT INTO mood_entries`).WillReturnError(errors.New("db down"))

	_, _, err := repo.Create(context.Background(), &models.MoodEntry{UserID: "u1", Mood: "Sad", Note: "x", Stress: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestUpdate_NoteAndStress(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^UPDATE mood_entries SET note = \$1, stress = \$2 WHERE id = \$3 AND user_id = \$4 RETURNING id`).
		WithArgs("better now", 4, "e1", "u1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("e1", nil, "Sad", "better now", 4, nil, false, time.Now()))

	got, err := repo.Update(context.Background(), "u1", "e1", models.MoodPatch{Note: strp("better now"), Stress: intp(4)})
	require.NoError(t, err)
	assert.Equal(t, "better now", got.Note)
	assert.Equal(t, 4, got.Stress)
	assert.Empty(t, got.ClientID)
}

func TestUpdate_Photo(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^UPDATE mood_entries SET photo_url = \$1, has_photo = \$2 WHERE id = \$3 AND user_id = \$4`).
		WithArgs("https://img/new.jpg", true, "e1", "u1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("e1", nil, "Sad", "n", 4, "https://img/new.jpg", true, time.Now()))

	got, err := repo.Update(context.Background(), "u1", "e1", models.MoodPatch{PhotoURL: strp("https://img/new.jpg")})
	require.NoError(t, err)
	assert.True(t, got.HasPhoto)
}

func TestUpdate_ClearPhotoWins(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^UPDATE mood_entries SET photo_url = \$1, has_photo = \$2 WHERE`).
		WithArgs(nil, false, "e1", "u1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("e1", nil, "Sad", "n", 4, nil, false, time.Now()))

	got, err := repo.Update(context.Background(), "u1", "e1", models.MoodPatch{PhotoURL: strp("ignored"), ClearPhoto: true})
	require.NoError(t, err)
	assert.Nil(t, got.PhotoURL)
	assert.False(t, got.HasPhoto)
}

func TestUpdate_EmptyPatch(t *testing.T) {
	repo, _ := newRepoWithMock(t)
	_, err := repo.Update(context.Background(), "u1", "e1", models.MoodPatch{})
	assert.ErrorIs(t, err, common.ErrorIncorrectMetadata)
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`UPDATE mood_entries`).WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), "u1", "nope", models.MoodPatch{Mood: strp("Calm")})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`^DELETE FROM mood_entries WHERE id = \$1 AND user_id = \$2$`).
		WithArgs("e1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "u1", "e1"))

	mock.ExpectExec(`DELETE FROM mood_entries`).WithArgs("e9", "u1").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), "u1", "e9"), common.ErrorNotFound)

	mock.ExpectExec(`DELETE FROM mood_entries`).WillReturnError(errors.New("boom"))
	assert.Error(t, repo.Delete(context.Background(), "u1", "e1"))
}

func TestList(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	t1 := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	t0 := t1.Add(-time.Hour)

	mock.ExpectQuery(`^SELECT .* FROM mood_entries WHERE user_id = \$1 ORDER BY created_at DESC$`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("e2", "temp_2", "Happy", "b", 2, nil, false, t1).
			AddRow("e1", nil, "Sad", "a", 8, "https://img/a.jpg", true, t0))

	got, err := repo.List(context.Background(), "u1", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "e2", got[0].ID)
	assert.Equal(t, "temp_2", got[0].ClientID)
	assert.Equal(t, "https://img/a.jpg", *got[1].PhotoURL)
}

func TestList_WithLimit(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`ORDER BY created_at DESC LIMIT \$2$`).
		WithArgs("u1", 10).
		WillReturnRows(sqlmock.NewRows(cols))

	got, err := repo.List(context.Background(), "u1", 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`FROM mood_entries`).WillReturnError(errors.New("boom"))

	_, err := repo.List(context.Background(), "u1", 0)
	assert.Error(t, err)
}

func TestCount(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM mood_entries WHERE user_id = \$1$`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(37))

	n, err := repo.Count(context.Background(), "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 37, n)
}
