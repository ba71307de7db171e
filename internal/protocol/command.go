// Package protocol parses the newline-terminated, colon-delimited ASCII
// frames of the game wire protocol and builds the outbound event frames.
package protocol

import (
	"strconv"
	"strings"
)

type Mode string

const (
	ModePlayer Mode = "PLAYER"
	ModeViewer Mode = "VIEWER"
)

// Command is the closed set of client requests. Decode never fails:
// a known keyword with a bad shape becomes Malformed, anything else
// becomes Unknown, so the router can match exhaustively.
type Command interface {
	isCommand()
}

type Login struct {
	Username string
	Password string
}

type Register struct {
	Username string
	Password string
}

type RoomList struct {
	Mode Mode
}

type Create struct {
	RoomName string
}

type Join struct {
	RoomName string
	Mode     Mode
}

type Place struct {
	Col int
	Row int
}

type Forfeit struct{}

// Malformed is a recognized keyword with the wrong field count, a bad
// mode token, or non-numeric/out-of-range coordinates.
type Malformed struct {
	Keyword string
}

type Unknown struct {
	Keyword string
}

func (Login) isCommand()     {}
func (Register) isCommand()  {}
func (RoomList) isCommand()  {}
func (Create) isCommand()    {}
func (Join) isCommand()      {}
func (Place) isCommand()     {}
func (Forfeit) isCommand()   {}
func (Malformed) isCommand() {}
func (Unknown) isCommand()   {}

const (
	KeywordLogin    = "LOGIN"
	KeywordRegister = "REGISTER"
	KeywordRoomList = "ROOMLIST"
	KeywordCreate   = "CREATE"
	KeywordJoin     = "JOIN"
	KeywordPlace    = "PLACE"
	KeywordForfeit  = "FORFEIT"
)

// Decode parses one frame, newline already stripped. Keywords are
// case-sensitive.
func Decode(line string) Command {
	fields := strings.Split(strings.TrimSpace(line), ":")
	keyword, args := fields[0], fields[1:]

	switch keyword {
	case KeywordLogin:
		if len(args) != 2 {
			return Malformed{Keyword: keyword}
		}
		return Login{Username: args[0], Password: args[1]}
	case KeywordRegister:
		if len(args) != 2 {
			return Malformed{Keyword: keyword}
		}
		return Register{Username: args[0], Password: args[1]}
	case KeywordRoomList:
		if len(args) != 1 {
			return Malformed{Keyword: keyword}
		}
		mode, ok := parseMode(args[0])
		if !ok {
			return Malformed{Keyword: keyword}
		}
		return RoomList{Mode: mode}
	case KeywordCreate:
		if len(args) != 1 {
			return Malformed{Keyword: keyword}
		}
		return Create{RoomName: args[0]}
	case KeywordJoin:
		if len(args) != 2 {
			return Malformed{Keyword: keyword}
		}
		mode, ok := parseMode(args[1])
		if !ok {
			return Malformed{Keyword: keyword}
		}
		return Join{RoomName: args[0], Mode: mode}
	case KeywordPlace:
		if len(args) != 2 {
			return Malformed{Keyword: keyword}
		}
		col, row, ok := parseCoordinates(args[0], args[1])
		if !ok {
			return Malformed{Keyword: keyword}
		}
		return Place{Col: col, Row: row}
	case KeywordForfeit:
		// trailing fields are tolerated
		return Forfeit{}
	default:
		return Unknown{Keyword: keyword}
	}
}

// mode tokens are accepted case-insensitively.
func parseMode(raw string) (Mode, bool) {
	switch Mode(strings.ToUpper(raw)) {
	case ModePlayer:
		return ModePlayer, true
	case ModeViewer:
		return ModeViewer, true
	default:
		return "", false
	}
}

// parseCoordinates admits only zero-based column/row in [0,2]; anything
// else never reaches the state machine.
func parseCoordinates(rawCol, rawRow string) (int, int, bool) {
	col, err := strconv.Atoi(rawCol)
	if err != nil {
		return 0, 0, false
	}

	row, err := strconv.Atoi(rawRow)
	if err != nil {
		return 0, 0, false
	}

	if col < 0 || col > 2 || row < 0 || row > 2 {
		return 0, 0, false
	}

	return col, row, true
}
