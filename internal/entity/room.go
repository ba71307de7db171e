package entity

import "strings"

const (
	StatusWaiting    = "waiting"
	StatusInProgress = "in_progress"
	StatusFinished   = "finished"
)

// Board cells carry the wire characters directly.
const (
	EmptyCell = "0"
	Marker1   = "1"
	Marker2   = "2"

	MarkerTie = "-"
)

// Outcome kinds as they appear in the GAMEEND frame.
const (
	OutcomeWin        = "0"
	OutcomeDraw       = "1"
	OutcomeForfeitWin = "2"
)

const MaxPlayers = 2

// ConnID is an opaque, monotonically increasing connection identifier.
// The dispatcher assigns them starting from 1; NoConn marks the absence
// of a turn holder.
type ConnID uint64

const NoConn ConnID = 0

var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

type Player struct {
	Conn     ConnID
	Username string
}

// Room holds one match: up to two players in join order, any number of
// viewers, and the board/turn state. Join order fixes marker assignment:
// the first player is always Marker1 and always moves first.
type Room struct {
	Name    string
	Players []Player
	Viewers map[ConnID]struct{}
	Board   [9]string
	Turn    ConnID
	Status  string
}

func NewRoom(name string) *Room {
	room := &Room{
		Name:    name,
		Viewers: make(map[ConnID]struct{}),
		Turn:    NoConn,
		Status:  StatusWaiting,
	}
	for i := range room.Board {
		room.Board[i] = EmptyCell
	}

	return room
}

func (that *Room) IsFull() bool {
	return len(that.Players) == MaxPlayers
}

func (that *Room) HasPlayer(conn ConnID) bool {
	for _, player := range that.Players {
		if player.Conn == conn {
			return true
		}
	}
	return false
}

// MarkerOf returns the marker of a player by join order, or EmptyCell
// for a connection that is not a player in this room.
func (that *Room) MarkerOf(conn ConnID) string {
	for i, player := range that.Players {
		if player.Conn != conn {
			continue
		}
		if i == 0 {
			return Marker1
		}
		return Marker2
	}
	return EmptyCell
}

// Opponent returns the other player.
func (that *Room) Opponent(conn ConnID) (Player, bool) {
	for _, player := range that.Players {
		if player.Conn != conn {
			return player, true
		}
	}
	return Player{}, false
}

func (that *Room) UsernameOf(conn ConnID) string {
	for _, player := range that.Players {
		if player.Conn == conn {
			return player.Username
		}
	}
	return ""
}

// BoardString renders the nine cells as the wire string, cell index
// row*3 + column.
func (that *Room) BoardString() string {
	return strings.Join(that.Board[:], "")
}

// DetermineResult returns the winning marker, MarkerTie when all nine
// cells are filled with no winning triple, or an empty string while the
// match can continue.
func (that *Room) DetermineResult() string {
	for _, combo := range WinCombos {
		a, b, c := that.Board[combo[0]], that.Board[combo[1]], that.Board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	for _, cell := range that.Board {
		if cell == EmptyCell {
			return ""
		}
	}

	return MarkerTie
}

func (that *Room) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Room) IsInProgress() bool {
	return that.Status == StatusInProgress
}

func (that *Room) IsFinished() bool {
	return that.Status == StatusFinished
}

// Audience lists every connection that receives room broadcasts:
// players first in join order, then viewers.
func (that *Room) Audience() []ConnID {
	audience := make([]ConnID, 0, len(that.Players)+len(that.Viewers))
	for _, player := range that.Players {
		audience = append(audience, player.Conn)
	}
	for viewer := range that.Viewers {
		audience = append(audience, viewer)
	}
	return audience
}

// PlayerUsernames returns usernames in join order.
func (that *Room) PlayerUsernames() []string {
	names := make([]string, 0, len(that.Players))
	for _, player := range that.Players {
		names = append(names, player.Username)
	}
	return names
}

// ClearMembership empties the player list and viewer set. A finished
// room is cleared before the directory drops it and is never revived.
func (that *Room) ClearMembership() {
	that.Players = nil
	that.Viewers = make(map[ConnID]struct{})
}
