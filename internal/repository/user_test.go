package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playroomlab/tictactoe-server/internal/apperror"
	"github.com/playroomlab/tictactoe-server/internal/entity"
	"github.com/playroomlab/tictactoe-server/internal/repository/storage"
)

func newUserStorage(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	st, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.Init(context.Background()))

	t.Cleanup(func() {
		_ = st.Close()
	})

	return st
}

func TestUserRepository_Save(t *testing.T) {
	ctx := context.Background()
	userRepo := NewUserRepository(newUserStorage(t).Connection)

	// Given: a user with a hashed password
	user := &entity.User{Username: "alice", PasswordHash: "$2a$10$hash"}

	// When: Save is called
	err := userRepo.Save(ctx, user)

	// Then: no error, and a duplicate insert fails on the primary key
	require.NoError(t, err)
	assert.Error(t, userRepo.Save(ctx, user))
}

func TestUserRepository_FindByUsername(t *testing.T) {
	t.Run("FindByUsername_Success", func(t *testing.T) {
		ctx := context.Background()
		userRepo := NewUserRepository(newUserStorage(t).Connection)

		user := &entity.User{Username: "alice", PasswordHash: "$2a$10$hash"}
		require.NoError(t, userRepo.Save(ctx, user))

		found, err := userRepo.FindByUsername(ctx, "alice")

		require.NoError(t, err)
		assert.Equal(t, user, found)
	})

	t.Run("FindByUsername_NotFound", func(t *testing.T) {
		ctx := context.Background()
		userRepo := NewUserRepository(newUserStorage(t).Connection)

		_, err := userRepo.FindByUsername(ctx, "mallory")

		assert.ErrorIs(t, err, apperror.ErrUserNotFound)
	})
}
