// Package repomanager hands out repositories bound to either the shared
// connection or a transaction, and owns the storage lifecycle.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	// Conn is the handle to pass to Users and Tasks outside a transaction.
	Conn() dbx.DBTX
	Users(db dbx.DBTX) users.Repository
	Tasks(db dbx.DBTX) tasks.Repository
	// WithTx runs fn in a transaction; tx is only valid inside fn.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error
	Close() error
}
