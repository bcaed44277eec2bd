// Package repomanager vends repository implementations bound to a DBTX and
// exposes the schema migration hook. Services hold a manager plus a *sql.DB
// so they can run several repository calls inside one transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/kriaa9/placehub/internal/dbx"
	"github.com/kriaa9/placehub/internal/server/repositories/refreshtokens"
	"github.com/kriaa9/placehub/internal/server/repositories/users"
)

// RepositoryManager constructs repositories over a given database handle
// (either *sql.DB or an open transaction).
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
