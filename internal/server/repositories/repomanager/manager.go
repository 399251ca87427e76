package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/mindbalance/internal/dbx"
	"github.com/dmitrijs2005/mindbalance/internal/server/repositories/moods"
	"github.com/dmitrijs2005/mindbalance/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/mindbalance/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to a DBTX, so services can
// use the same code inside and outside transactions.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Moods(db dbx.DBTX) moods.Repository
}
