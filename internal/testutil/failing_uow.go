package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/alexanderramin/orgchart/internal/db"
)

// FailOnNthExecUoW is a test UoW that injects an error on the Nth ExecContext
// call within a transaction. It lets rollback tests break a bulk import or a
// multi-row move at a precise statement.
//
// When Match is set only statements containing Match (case-insensitive) are
// counted, e.g. Match: "INSERT INTO position" with FailOn: 3 fails the third
// position insert. Reads pass through uncounted.
var _ db.UnitOfWork = (*FailOnNthExecUoW)(nil)

type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Match  string
	Err    error

	// Calls records how many matching statements were attempted in the last transaction.
	Calls atomic.Int32
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn db.TxFunc) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &failOnNthExec{DBTX: tx, uow: u, match: strings.ToLower(u.Match)}
	u.Calls.Store(0)
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

// WithinReadTx runs fn against a plain read transaction with no failures
// injected.
func (u *FailOnNthExecUoW) WithinReadTx(ctx context.Context, fn db.TxFunc) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()
	return fn(ctx, tx)
}

type failOnNthExec struct {
	db.DBTX
	uow   *FailOnNthExecUoW
	match string
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.match != "" && !strings.Contains(strings.ToLower(query), f.match) {
		return f.DBTX.ExecContext(ctx, query, args...)
	}
	if n := f.uow.Calls.Add(1); n == f.uow.FailOn {
		return nil, f.uow.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
