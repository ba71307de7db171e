// Package tictactoe drives a room's match from waiting to finished.
// Every transition mutates the room and returns the events that must be
// broadcast to its players and viewers; delivery belongs to the caller.
package tictactoe

import (
	"github.com/playroomlab/tictactoe-server/internal/apperror"
	"github.com/playroomlab/tictactoe-server/internal/entity"
)

// Event is a broadcast resulting from a transition.
type Event interface {
	isEvent()
}

// MatchBegun names both players in join order.
type MatchBegun struct {
	Player1 string
	Player2 string
}

// BoardUpdated carries the current board wire string.
type BoardUpdated struct {
	Board string
}

// MatchEnded carries the final board snapshot and outcome. Winner is
// empty for a draw.
type MatchEnded struct {
	Board   string
	Outcome string
	Winner  string
}

func (MatchBegun) isEvent()   {}
func (BoardUpdated) isEvent() {}
func (MatchEnded) isEvent()   {}

// ViewSnapshot orients a viewer joining a match already underway.
type ViewSnapshot struct {
	TurnUsername     string
	OpponentUsername string
}

// AddPlayer seats a player. Seating the second player assigns the turn
// to the first-joined player and begins the match.
func AddPlayer(room *entity.Room, conn entity.ConnID, username string) ([]Event, error) {
	if room.IsFinished() {
		return nil, apperror.ErrMatchFinished
	}

	// re-joining a room one is already seated in changes nothing
	if room.HasPlayer(conn) {
		return nil, nil
	}

	if room.IsFull() {
		return nil, apperror.ErrRoomFull
	}

	room.Players = append(room.Players, entity.Player{Conn: conn, Username: username})

	if !room.IsFull() {
		return nil, nil
	}

	room.Turn = room.Players[0].Conn
	room.Status = entity.StatusInProgress

	return []Event{MatchBegun{
		Player1: room.Players[0].Username,
		Player2: room.Players[1].Username,
	}}, nil
}

// AddViewer admits a viewer. The snapshot is non-nil when the match is
// already in progress and must be delivered to the joining viewer only.
func AddViewer(room *entity.Room, conn entity.ConnID) (*ViewSnapshot, error) {
	if room.IsFinished() {
		return nil, apperror.ErrMatchFinished
	}

	room.Viewers[conn] = struct{}{}

	if !room.IsInProgress() {
		return nil, nil
	}

	opponent, _ := room.Opponent(room.Turn)

	return &ViewSnapshot{
		TurnUsername:     room.UsernameOf(room.Turn),
		OpponentUsername: opponent.Username,
	}, nil
}

// PlaceMarker applies a move. An out-of-turn move is not an error: the
// board is re-broadcast unchanged and the client is expected to wait.
// Coordinates have been range-checked by the codec.
func PlaceMarker(room *entity.Room, conn entity.ConnID, col, row int) ([]Event, error) {
	if room.IsFinished() {
		return nil, apperror.ErrMatchFinished
	}

	if room.Turn != conn {
		return []Event{BoardUpdated{Board: room.BoardString()}}, nil
	}

	room.Board[row*3+col] = room.MarkerOf(conn)

	switch result := room.DetermineResult(); result {
	case entity.Marker1, entity.Marker2:
		finish(room)
		return []Event{MatchEnded{
			Board:   room.BoardString(),
			Outcome: entity.OutcomeWin,
			Winner:  room.UsernameOf(conn),
		}}, nil
	case entity.MarkerTie:
		finish(room)
		return []Event{MatchEnded{
			Board:   room.BoardString(),
			Outcome: entity.OutcomeDraw,
		}}, nil
	default:
		opponent, _ := room.Opponent(conn)
		room.Turn = opponent.Conn
		return []Event{BoardUpdated{Board: room.BoardString()}}, nil
	}
}

// Forfeit concedes the match: the other player wins with the forfeit
// flag set. Forfeiting a room still waiting for a second player just
// finishes it with nothing to broadcast.
func Forfeit(room *entity.Room, conn entity.ConnID) ([]Event, error) {
	if room.IsFinished() {
		return nil, apperror.ErrMatchFinished
	}

	if !room.IsInProgress() {
		finish(room)
		return nil, nil
	}

	winner, _ := room.Opponent(conn)
	finish(room)

	return []Event{MatchEnded{
		Board:   room.BoardString(),
		Outcome: entity.OutcomeForfeitWin,
		Winner:  winner.Username,
	}}, nil
}

func finish(room *entity.Room) {
	room.Status = entity.StatusFinished
	room.Turn = entity.NoConn
}
