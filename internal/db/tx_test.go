package db_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/orgchart/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openFileDB(t *testing.T) *db.SQLiteUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(filepath.Join(t.TempDir(), "org.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database)
}

func insertOffice(ctx context.Context, tx db.DBTX, name string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO hierarchy (name, parent_id) VALUES (?, NULL)`, name)
	return err
}

// officeCount reads through a read transaction so it works with any UnitOfWork.
func officeCount(t *testing.T, uow db.UnitOfWork) int {
	t.Helper()
	var n int
	err := uow.WithinReadTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM hierarchy`).Scan(&n)
	})
	require.NoError(t, err)
	return n
}

func TestWithinTx_Commits(t *testing.T) {
	uow := openFileDB(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertOffice(ctx, tx, "Division")
	})
	require.NoError(t, err)
	assert.Equal(t, 1, officeCount(t, uow))
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	uow := openFileDB(t)
	boom := errors.New("boom")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertOffice(ctx, tx, "Division"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, officeCount(t, uow))
}

func TestWithinTx_RollsBackOnPanic(t *testing.T) {
	uow := openFileDB(t)

	assert.PanicsWithValue(t, "boom", func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertOffice(ctx, tx, "Division")
			panic("boom")
		})
	})
	assert.Zero(t, officeCount(t, uow))

	// The write lock was released.
	require.NoError(t, uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertOffice(ctx, tx, "Division")
	}))
}

func TestWithinReadTx_DiscardsWrites(t *testing.T) {
	uow := openFileDB(t)

	err := uow.WithinReadTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertOffice(ctx, tx, "Division")
	})
	require.NoError(t, err)
	assert.Zero(t, officeCount(t, uow))
}

func TestWithinReadTx_SeesOneSnapshot(t *testing.T) {
	uow := openFileDB(t)
	ctx := context.Background()

	var before, after int
	err := uow.WithinReadTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM hierarchy`).Scan(&before); err != nil {
			return err
		}
		// A writer on another connection commits mid-read.
		if err := uow.WithinTx(ctx, func(ctx context.Context, w db.DBTX) error {
			return insertOffice(ctx, w, "Division")
		}); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM hierarchy`).Scan(&after)
	})
	require.NoError(t, err)

	assert.Equal(t, before, after)
	assert.Equal(t, 1, officeCount(t, uow))
}

func TestOpenDB_EnforcesForeignKeysOnEveryConnection(t *testing.T) {
	uow := openFileDB(t)

	// Two concurrent read transactions force a second pooled connection.
	err := uow.WithinReadTx(context.Background(), func(ctx context.Context, outer db.DBTX) error {
		return uow.WithinReadTx(ctx, func(ctx context.Context, inner db.DBTX) error {
			for _, tx := range []db.DBTX{outer, inner} {
				var on int
				if err := tx.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&on); err != nil {
					return err
				}
				if on != 1 {
					return errors.New("foreign keys disabled")
				}
			}
			return nil
		})
	})
	assert.NoError(t, err)
}
