package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-service/internal/domain"
	"user-service/internal/repository/memory"
	"user-service/internal/util"
	"user-service/pkg/db"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	conn, err := db.Open(db.Config{
		Driver:     db.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "users.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.CreateSchema(context.Background(), conn))
	return conn
}

func int64Ptr(v int64) *int64 { return &v }

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	repo := NewUserRepository(conn)

	t.Run("ListEmpty", func(t *testing.T) {
		users, err := repo.ListUsers(ctx, conn)
		require.NoError(t, err)
		assert.Empty(t, users)
		assert.NotNil(t, users)
	})

	alex := domain.NewUser("alex", nil)
	bob := domain.NewUser("bob", int64Ptr(30))

	t.Run("CreateAssignsIncreasingIDs", func(t *testing.T) {
		require.NoError(t, repo.CreateUser(ctx, conn, alex))
		require.NoError(t, repo.CreateUser(ctx, conn, bob))
		assert.Equal(t, int64(1), alex.ID)
		assert.Greater(t, bob.ID, alex.ID)
	})

	t.Run("GetByID", func(t *testing.T) {
		got, err := repo.GetUserByID(ctx, conn, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, "bob", got.Name)
		require.NotNil(t, got.Age)
		assert.Equal(t, int64(30), *got.Age)

		got, err = repo.GetUserByID(ctx, conn, alex.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Age)
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, err := repo.GetUserByID(ctx, conn, 99)
		assert.ErrorIs(t, err, util.ErrUserNotFound)
	})

	t.Run("UpdateInsideTransaction", func(t *testing.T) {
		tx, err := conn.BeginTxx(ctx, nil)
		require.NoError(t, err)
		bob.Age = int64Ptr(31)
		require.NoError(t, repo.UpdateUser(ctx, tx, bob))
		require.NoError(t, tx.Commit())

		got, err := repo.GetUserByID(ctx, conn, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(31), *got.Age)
		assert.Equal(t, "bob", got.Name)
	})

	t.Run("RollbackDiscardsChanges", func(t *testing.T) {
		tx, err := conn.BeginTxx(ctx, nil)
		require.NoError(t, err)
		renamed := *alex
		renamed.Name = "alexander"
		require.NoError(t, repo.UpdateUser(ctx, tx, &renamed))
		require.NoError(t, tx.Rollback())

		got, err := repo.GetUserByID(ctx, conn, alex.ID)
		require.NoError(t, err)
		assert.Equal(t, "alex", got.Name)
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		err := repo.UpdateUser(ctx, conn, &domain.User{ID: 99, Name: "ghost"})
		assert.ErrorIs(t, err, util.ErrUserNotFound)
	})

	t.Run("DeleteTwice", func(t *testing.T) {
		require.NoError(t, repo.DeleteUser(ctx, conn, alex.ID))
		assert.ErrorIs(t, repo.DeleteUser(ctx, conn, alex.ID), util.ErrUserNotFound)

		users, err := repo.ListUsers(ctx, conn)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "bob", users[0].Name)
	})

	t.Run("AgeBeyond32Bits", func(t *testing.T) {
		elder := domain.NewUser("elder", int64Ptr(1<<40))
		require.NoError(t, repo.CreateUser(ctx, conn, elder))

		got, err := repo.GetUserByID(ctx, conn, elder.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1<<40), *got.Age)
		require.NoError(t, repo.DeleteUser(ctx, conn, elder.ID))
	})

	t.Run("IDsAreNotReused", func(t *testing.T) {
		dana := domain.NewUser("dana", int64Ptr(22))
		require.NoError(t, repo.CreateUser(ctx, conn, dana))
		assert.Greater(t, dana.ID, bob.ID)
	})
}

func TestCreateUserWithoutSQLSession(t *testing.T) {
	repo := NewUserRepository(nil)
	user := domain.NewUser("alex", nil)

	var err error
	assert.NotPanics(t, func() {
		err = repo.CreateUser(context.Background(), &memory.Session{}, user)
	})
	assert.ErrorIs(t, err, errNoRow)
	assert.Zero(t, user.ID)
}
