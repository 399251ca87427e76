package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/mindbalance/internal/common"
	"github.com/dmitrijs2005/mindbalance/internal/dbx"
	"github.com/dmitrijs2005/mindbalance/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const uniqueViolation = "23505"

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (username, salt, verifier)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, user.UserName, user.Salt, user.Verifier).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

const selectUser = `SELECT id, username, verifier, salt, created_at, last_login FROM users`

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var lastLogin sql.NullTime
	err := row.Scan(&user.ID, &user.UserName, &user.Verifier, &user.Salt, &user.CreatedAt, &lastLogin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLogin = &t
	}
	return user, nil
}

func (r *PostgresRepository) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, selectUser+` WHERE username = $1`, userName))
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, selectUser+` WHERE id = $1`, id))
}

// now is replaced in tests.
var now = time.Now

func (r *PostgresRepository) TouchLogin(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, now().UTC(), id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if dbx.RowsAffected(res) == 0 {
		return common.ErrorNotFound
	}
	return nil
}
