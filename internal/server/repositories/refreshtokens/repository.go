// Package refreshtokens persists the opaque refresh tokens issued on
// sign-in. Only a SHA-256 digest of each token is stored.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/mindbalance/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID string, token string, validity time.Duration) error
	// Find returns common.ErrorNotFound for unknown tokens.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)
	// Delete is a no-op for unknown tokens.
	Delete(ctx context.Context, token string) error
}
