// Package services holds the server business logic: accounts and tokens,
// mood entries and photo uploads.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/mindbalance/internal/common"
	"github.com/dmitrijs2005/mindbalance/internal/cryptox"
	"github.com/dmitrijs2005/mindbalance/internal/dbx"
	"github.com/dmitrijs2005/mindbalance/internal/logging"
	"github.com/dmitrijs2005/mindbalance/internal/server/auth"
	"github.com/dmitrijs2005/mindbalance/internal/server/config"
	"github.com/dmitrijs2005/mindbalance/internal/server/models"
	"github.com/dmitrijs2005/mindbalance/internal/server/repositories/repomanager"
)

// TokenPair is what a successful sign-in or refresh returns.
type TokenPair struct {
	UserID       string
	AccessToken  string
	RefreshToken string
}

type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	logger                       logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		logger:                       l.With("service", "users"),
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates an account. Usernames are e-mail addresses and are
// compared case-insensitively.
func (s *UserService) Register(ctx context.Context, username string, salt, verifier []byte) (*models.User, error) {
	username = normalizeEmail(username)
	if !strings.Contains(username, "@") || len(salt) == 0 || len(verifier) == 0 {
		return nil, common.ErrorIncorrectMetadata
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, &models.User{UserName: username, Salt: salt, Verifier: verifier})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// GetSalt returns the stored salt, or a random one for unknown users so
// the response does not reveal whether an account exists.
func (s *UserService) GetSalt(ctx context.Context, username string) ([]byte, error) {
	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, normalizeEmail(username))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.GenerateRandByteArray(cryptox.SaltLen), nil
		}
		return nil, common.ErrorInternal
	}
	return user.Salt, nil
}

// Login checks the verifier candidate, records the sign-in on the profile
// and issues a token pair.
func (s *UserService) Login(ctx context.Context, username string, candidate []byte) (*TokenPair, error) {
	users := s.repomanager.Users(s.db)
	user, err := users.GetUserByLogin(ctx, normalizeEmail(username))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if subtle.ConstantTimeCompare(user.Verifier, candidate) != 1 {
		return nil, common.ErrorUnauthorized
	}

	if err := users.TouchLogin(ctx, user.ID); err != nil {
		s.logger.Warn(ctx, "failed to record last login", "user_id", user.ID, "error", err)
	}

	return s.generateTokenPair(ctx, user.ID, s.db)
}

// RefreshToken rotates refreshToken inside a transaction.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Profile returns the account of userID.
func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetUserByID(ctx, userID)
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		s.logger.Error(ctx, "failed to store refresh token", "user_id", userID, "error", err)
		return nil, common.ErrorInternal
	}
	return &TokenPair{UserID: userID, AccessToken: access, RefreshToken: refresh}, nil
}
