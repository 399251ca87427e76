package moods

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mindbalance/internal/common"
	"github.com/dmitrijs2005/mindbalance/internal/dbx"
	"github.com/dmitrijs2005/mindbalance/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const entryColumns = `id, client_id, mood, note, stress, photo_url, has_photo, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner, userID string) (*models.MoodEntry, error) {
	e := &models.MoodEntry{UserID: userID}
	var clientID, photo sql.NullString
	if err := s.Scan(&e.ID, &clientID, &e.Mood, &e.Note, &e.Stress, &photo, &e.HasPhoto, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.ClientID = clientID.String
	if photo.Valid {
		p := photo.String
		e.PhotoURL = &p
	}
	return e, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *PostgresRepository) Create(ctx context.Context, e *models.MoodEntry) (*models.MoodEntry, bool, error) {
	query :=
		`INSERT INTO mood_entries (user_id, client_id, mood, note, stress, photo_url, has_photo)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id, client_id) DO NOTHING
		 RETURNING ` + entryColumns

	var photo sql.NullString
	if e.PhotoURL != nil {
		photo = nullString(*e.PhotoURL)
	}

	row := r.db.QueryRowContext(ctx, query, e.UserID, nullString(e.ClientID), e.Mood, e.Note, e.Stress, photo, photo.Valid)
	got, err := scanEntry(row, e.UserID)
	if err == nil {
		return got, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("db error: %w", err)
	}

	existing, err := scanEntry(r.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM mood_entries WHERE user_id = $1 AND client_id = $2`,
		e.UserID, e.ClientID), e.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, common.ErrorNotFound
		}
		return nil, false, fmt.Errorf("db error: %w", err)
	}
	return existing, false, nil
}

func (r *PostgresRepository) Update(ctx context.Context, userID, id string, p models.MoodPatch) (*models.MoodEntry, error) {
	var sets []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if p.Mood != nil {
		add("mood", *p.Mood)
	}
	if p.Note != nil {
		add("note", *p.Note)
	}
	if p.Stress != nil {
		add("stress", *p.Stress)
	}
	switch {
	case p.ClearPhoto:
		add("photo_url", nil)
		add("has_photo", false)
	case p.PhotoURL != nil:
		add("photo_url", *p.PhotoURL)
		add("has_photo", true)
	}
	if len(sets) == 0 {
		return nil, common.ErrorIncorrectMetadata
	}

	args = append(args, id, userID)
	query := fmt.Sprintf(`UPDATE mood_entries SET %s WHERE id = $%d AND user_id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args)-1, len(args), entryColumns)

	e, err := scanEntry(r.db.QueryRowContext(ctx, query, args...), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM mood_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if dbx.RowsAffected(res) == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string, limit int) ([]models.MoodEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM mood_entries WHERE user_id = $1 ORDER BY created_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]models.MoodEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows, userID)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Count(ctx context.Context, userID string) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM mood_entries WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
