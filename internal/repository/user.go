package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/playroomlab/tictactoe-server/internal/apperror"
	"github.com/playroomlab/tictactoe-server/internal/entity"
)

type UserRepository interface {
	Save(ctx context.Context, user *entity.User) error
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
}

type userRepository struct {
	conn *sql.DB
}

func NewUserRepository(conn *sql.DB) UserRepository {
	return &userRepository{
		conn: conn,
	}
}

func (that *userRepository) Save(ctx context.Context, user *entity.User) error {
	query := `INSERT INTO users (username, password_hash) VALUES (?, ?)`

	_, err := that.conn.ExecContext(ctx, query, user.Username, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("can't save user: %w", err)
	}

	return nil
}

func (that *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	query := `SELECT username, password_hash FROM users WHERE username = ?`

	var user entity.User

	err := that.conn.QueryRowContext(ctx, query, username).Scan(&user.Username, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't find user: %w", err)
	}

	return &user, nil
}
