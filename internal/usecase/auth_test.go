package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playroomlab/tictactoe-server/internal/apperror"
	"github.com/playroomlab/tictactoe-server/internal/entity"
)

type memoryUserRepo struct {
	users map[string]*entity.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]*entity.User)}
}

func (that *memoryUserRepo) Save(_ context.Context, user *entity.User) error {
	that.users[user.Username] = user
	return nil
}

func (that *memoryUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	user, ok := that.users[username]
	if !ok {
		return nil, apperror.ErrUserNotFound
	}
	return user, nil
}

func TestAuthManager_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Registers a valid account with a hashed password", func(t *testing.T) {
		repo := newMemoryUserRepo()
		auth := NewAuthManager(repo)

		err := auth.Register(ctx, "alice", "secret1")

		require.NoError(t, err)
		saved := repo.users["alice"]
		require.NotNil(t, saved)
		assert.NotEqual(t, "secret1", saved.PasswordHash)
	})

	t.Run("Rejects a duplicate username", func(t *testing.T) {
		repo := newMemoryUserRepo()
		auth := NewAuthManager(repo)
		require.NoError(t, auth.Register(ctx, "alice", "secret1"))

		err := auth.Register(ctx, "alice", "another1")

		assert.ErrorIs(t, err, apperror.ErrUserExists)
	})

	t.Run("Rejects a password shorter than six characters", func(t *testing.T) {
		auth := NewAuthManager(newMemoryUserRepo())

		err := auth.Register(ctx, "alice", "short")

		assert.ErrorIs(t, err, apperror.ErrShortPassword)
	})

	t.Run("Rejects a non-alphanumeric username", func(t *testing.T) {
		auth := NewAuthManager(newMemoryUserRepo())

		for _, username := range []string{"", "al ice", "al-ice", "böb"} {
			err := auth.Register(ctx, username, "secret1")
			assert.ErrorIs(t, err, apperror.ErrInvalidUsername, "username %q", username)
		}
	})
}

func TestAuthManager_Login(t *testing.T) {
	ctx := context.Background()

	repo := newMemoryUserRepo()
	auth := NewAuthManager(repo)
	require.NoError(t, auth.Register(ctx, "alice", "secret1"))

	t.Run("Accepts correct credentials", func(t *testing.T) {
		assert.NoError(t, auth.Login(ctx, "alice", "secret1"))
	})

	t.Run("Rejects an unknown user", func(t *testing.T) {
		assert.ErrorIs(t, auth.Login(ctx, "mallory", "secret1"), apperror.ErrUserNotFound)
	})

	t.Run("Rejects a wrong password", func(t *testing.T) {
		assert.ErrorIs(t, auth.Login(ctx, "alice", "wrong1"), apperror.ErrWrongPassword)
	})
}
