package apperror

import "errors"

var (
	ErrInvalidRoomName = errors.New("invalid room name")
	ErrDuplicateRoom   = errors.New("room already exists")
	ErrDirectoryFull   = errors.New("room directory is full")
	ErrRoomFull        = errors.New("room already has two players")

	ErrMatchFinished = errors.New("match is already finished")

	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user already exists")
	ErrWrongPassword   = errors.New("wrong password")
	ErrShortPassword   = errors.New("password is too short")
	ErrInvalidUsername = errors.New("username must be alphanumeric")
)
