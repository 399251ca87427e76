// Package users stores MindBalance accounts and their sign-in profile.
package users

import (
	"context"

	"github.com/dmitrijs2005/mindbalance/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// TouchLogin records a successful sign-in.
	TouchLogin(ctx context.Context, id string) error
}
