package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnpath/internal/db"
)

func TestOpenDB_InMemory(t *testing.T) {
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	var fk int
	require.NoError(t, database.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestMigrate_Idempotent(t *testing.T) {
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	// OpenDB already migrated once; replaying must be harmless
	require.NoError(t, db.Migrate(database))
	require.NoError(t, db.Migrate(database))

	for _, table := range []string{"users", "plans", "days", "tasks", "feedback"} {
		var name string
		err := database.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		assert.NoError(t, err, "table %s", table)
	}
}

func TestUnitOfWork_Commit(t *testing.T) {
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()
	uow := db.NewSQLiteUnitOfWork(database)

	err = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, login, password_hash, recovery_question, recovery_answer_hash, created_at)
			VALUES ('u1', 'alice', 'h', 'q', 'a', '2026-01-01T00:00:00Z')`)
		return err
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestUnitOfWork_RollbackOnError(t *testing.T) {
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()
	uow := db.NewSQLiteUnitOfWork(database)

	boom := errors.New("boom")
	err = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		_, execErr := tx.ExecContext(ctx,
			`INSERT INTO users (id, login, password_hash, recovery_question, recovery_answer_hash, created_at)
			VALUES ('u1', 'alice', 'h', 'q', 'a', '2026-01-01T00:00:00Z')`)
		require.NoError(t, execErr)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestUnitOfWork_RollbackOnPanic(t *testing.T) {
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()
	uow := db.NewSQLiteUnitOfWork(database)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_, execErr := tx.ExecContext(ctx,
				`INSERT INTO users (id, login, password_hash, recovery_question, recovery_answer_hash, created_at)
				VALUES ('u1', 'alice', 'h', 'q', 'a', '2026-01-01T00:00:00Z')`)
			require.NoError(t, execErr)
			panic("mid-transaction failure")
		})
	})

	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count))
	assert.Equal(t, 0, count)
}
