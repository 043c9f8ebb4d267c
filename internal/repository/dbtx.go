// Package repository implements the persistent store over sqlite.
// Every repository holds the *sql.DB plus an executor that is either
// the pool or a transaction; WithTx rebinds a repository to a caller
// owned transaction so services can run a whole logical operation in
// one all-or-nothing scope.
package repository

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
