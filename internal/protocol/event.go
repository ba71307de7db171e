package protocol

import (
	"errors"
	"fmt"
	"strings"
)

// Ack status codes, per command.
const (
	LoginOK            = 0
	LoginNoSuchUser    = 1
	LoginWrongPassword = 2
	LoginMalformed     = 3

	RegisterOK              = 0
	RegisterDuplicateUser   = 1
	RegisterMalformed       = 2
	RegisterShortPassword   = 3
	RegisterNonAlphanumeric = 4

	RoomListMalformed = 1

	CreateOK            = 0
	CreateInvalidName   = 1
	CreateDuplicateName = 2
	CreateDirectoryFull = 3

	JoinOK         = 0
	JoinNoSuchRoom = 1
	JoinRoomFull   = 2
	JoinMalformed  = 3
)

func EncodeLoginAck(status int) string {
	return fmt.Sprintf("LOGIN:ACKSTATUS:%d\n", status)
}

func EncodeRegisterAck(status int) string {
	return fmt.Sprintf("REGISTER:ACKSTATUS:%d\n", status)
}

// EncodeRoomList builds the success ack carrying the comma-joined,
// pre-sorted room names.
func EncodeRoomList(names []string) string {
	return fmt.Sprintf("ROOMLIST:ACKSTATUS:0:%s\n", strings.Join(names, ","))
}

func EncodeRoomListMalformed() string {
	return fmt.Sprintf("ROOMLIST:ACKSTATUS:%d\n", RoomListMalformed)
}

func EncodeCreateAck(status int) string {
	return fmt.Sprintf("CREATE:ACKSTATUS:%d\n", status)
}

func EncodeJoinAck(status int) string {
	return fmt.Sprintf("JOIN:ACKSTATUS:%d\n", status)
}

func EncodeBegin(player1, player2 string) string {
	return fmt.Sprintf("BEGIN:%s:%s\n", player1, player2)
}

func EncodeInProgress(turnUsername, opponentUsername string) string {
	return fmt.Sprintf("INPROGRESS:%s:%s\n", turnUsername, opponentUsername)
}

func EncodeBoardStatus(board string) string {
	return fmt.Sprintf("BOARDSTATUS:%s\n", board)
}

// EncodeGameEnd builds the end-of-match frame. A draw carries no winner
// field; win and forfeit-win name the winner.
func EncodeGameEnd(board, outcome, winner string) string {
	if winner == "" {
		return fmt.Sprintf("GAMEEND:%s:%s\n", board, outcome)
	}
	return fmt.Sprintf("GAMEEND:%s:%s:%s\n", board, outcome, winner)
}

// EncodeGameEndNotice is the terminal-state notice sent when a command
// reaches a room that has already finished.
func EncodeGameEndNotice() string {
	return "GAMEEND\n"
}

func EncodeBadAuth() string {
	return "BADAUTH\n"
}

func EncodeNoRoom() string {
	return "NOROOM\n"
}

func EncodeUnknownCommand() string {
	return "Unknown command\n"
}

var ErrNotGameEnd = errors.New("not a GAMEEND frame")

// ParseGameEnd decodes an end-of-match frame on the client side,
// recovering the board string, outcome kind, and winner (empty for a
// draw).
func ParseGameEnd(frame string) (board, outcome, winner string, err error) {
	fields := strings.Split(strings.TrimSpace(frame), ":")
	if fields[0] != "GAMEEND" || len(fields) < 3 || len(fields) > 4 {
		return "", "", "", fmt.Errorf("%w: %q", ErrNotGameEnd, frame)
	}

	board, outcome = fields[1], fields[2]
	if len(fields) == 4 {
		winner = fields[3]
	}

	return board, outcome, winner, nil
}
