package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playroomlab/tictactoe-server/internal/apperror"
	"github.com/playroomlab/tictactoe-server/internal/entity"
)

func newInProgressRoom(t *testing.T) *entity.Room {
	t.Helper()

	room := entity.NewRoom("Arena")

	_, err := AddPlayer(room, 1, "alice")
	require.NoError(t, err)

	events, err := AddPlayer(room, 2, "bob")
	require.NoError(t, err)
	require.Len(t, events, 1)

	return room
}

func TestAddPlayer(t *testing.T) {
	t.Run("Seating the second player begins the match", func(t *testing.T) {
		// Given: a waiting room with one player
		room := entity.NewRoom("Arena")
		_, err := AddPlayer(room, 1, "alice")
		require.NoError(t, err)
		assert.True(t, room.IsWaiting())

		// When: the second player joins
		events, err := AddPlayer(room, 2, "bob")

		// Then: the match begins, the first-joined player holds the turn
		require.NoError(t, err)
		assert.True(t, room.IsInProgress())
		assert.Equal(t, entity.ConnID(1), room.Turn)
		require.Len(t, events, 1)
		assert.Equal(t, MatchBegun{Player1: "alice", Player2: "bob"}, events[0])
	})

	t.Run("Re-seating the sole player is a no-op", func(t *testing.T) {
		// Given: a waiting room with one player
		room := entity.NewRoom("Arena")
		_, err := AddPlayer(room, 1, "alice")
		require.NoError(t, err)

		// When: the same connection joins again
		events, err := AddPlayer(room, 1, "alice")

		// Then: nothing changes and no match begins
		require.NoError(t, err)
		assert.Empty(t, events)
		assert.True(t, room.IsWaiting())
		assert.Len(t, room.Players, 1)
		assert.Equal(t, entity.NoConn, room.Turn)
	})

	t.Run("A third player is refused", func(t *testing.T) {
		room := newInProgressRoom(t)

		_, err := AddPlayer(room, 3, "carol")

		assert.ErrorIs(t, err, apperror.ErrRoomFull)
	})
}

func TestAddViewer(t *testing.T) {
	t.Run("Viewer of a waiting room gets no snapshot", func(t *testing.T) {
		room := entity.NewRoom("Arena")

		snapshot, err := AddViewer(room, 5)

		require.NoError(t, err)
		assert.Nil(t, snapshot)
		assert.Contains(t, room.Viewers, entity.ConnID(5))
	})

	t.Run("Late viewer of a running match learns whose turn it is", func(t *testing.T) {
		room := newInProgressRoom(t)

		snapshot, err := AddViewer(room, 5)

		require.NoError(t, err)
		require.NotNil(t, snapshot)
		assert.Equal(t, "alice", snapshot.TurnUsername)
		assert.Equal(t, "bob", snapshot.OpponentUsername)
	})
}

func TestPlaceMarker(t *testing.T) {
	t.Run("A move mutates exactly one cell and flips the turn", func(t *testing.T) {
		room := newInProgressRoom(t)

		events, err := PlaceMarker(room, 1, 0, 0)

		require.NoError(t, err)
		assert.Equal(t, "100000000", room.BoardString())
		assert.Equal(t, entity.ConnID(2), room.Turn)
		require.Len(t, events, 1)
		assert.Equal(t, BoardUpdated{Board: "100000000"}, events[0])
	})

	t.Run("Cell index is row times three plus column", func(t *testing.T) {
		room := newInProgressRoom(t)

		_, err := PlaceMarker(room, 1, 1, 2)

		require.NoError(t, err)
		assert.Equal(t, entity.Marker1, room.Board[7])
	})

	t.Run("An out-of-turn move is ignored and the board re-broadcast", func(t *testing.T) {
		room := newInProgressRoom(t)

		events, err := PlaceMarker(room, 2, 0, 0)

		require.NoError(t, err)
		assert.Equal(t, "000000000", room.BoardString())
		assert.Equal(t, entity.ConnID(1), room.Turn)
		require.Len(t, events, 1)
		assert.Equal(t, BoardUpdated{Board: "000000000"}, events[0])
	})

	t.Run("Completing a triple wins the match", func(t *testing.T) {
		room := newInProgressRoom(t)

		// alice takes the top row, bob plays elsewhere
		mustPlace(t, room, 1, 0, 0)
		mustPlace(t, room, 2, 0, 1)
		mustPlace(t, room, 1, 1, 0)
		mustPlace(t, room, 2, 1, 1)

		events, err := PlaceMarker(room, 1, 2, 0)

		require.NoError(t, err)
		assert.True(t, room.IsFinished())
		assert.Equal(t, entity.NoConn, room.Turn)
		require.Len(t, events, 1)
		assert.Equal(t, MatchEnded{
			Board:   "111220000",
			Outcome: entity.OutcomeWin,
			Winner:  "alice",
		}, events[0])
	})

	t.Run("Nine filled cells with no triple end in a draw", func(t *testing.T) {
		room := newInProgressRoom(t)

		// eight cells filled with no triple, alice to fill the last
		room.Board = [9]string{
			entity.Marker1, entity.Marker2, entity.Marker1,
			entity.Marker2, entity.Marker1, entity.Marker2,
			entity.Marker2, entity.EmptyCell, entity.Marker2,
		}
		room.Turn = 1

		events, err := PlaceMarker(room, 1, 1, 2)

		require.NoError(t, err)
		assert.True(t, room.IsFinished())
		require.Len(t, events, 1)
		assert.Equal(t, MatchEnded{
			Board:   "121212212",
			Outcome: entity.OutcomeDraw,
		}, events[0])
	})

	t.Run("Placing in a finished room signals the terminal state", func(t *testing.T) {
		room := newInProgressRoom(t)
		room.Status = entity.StatusFinished

		_, err := PlaceMarker(room, 1, 0, 0)

		assert.ErrorIs(t, err, apperror.ErrMatchFinished)
	})
}

func TestForfeit(t *testing.T) {
	t.Run("The other player always wins with the forfeit flag", func(t *testing.T) {
		room := newInProgressRoom(t)
		mustPlace(t, room, 1, 0, 0)

		events, err := Forfeit(room, 2)

		require.NoError(t, err)
		assert.True(t, room.IsFinished())
		require.Len(t, events, 1)
		assert.Equal(t, MatchEnded{
			Board:   "100000000",
			Outcome: entity.OutcomeForfeitWin,
			Winner:  "alice",
		}, events[0])
	})

	t.Run("Forfeiting a waiting room finishes it silently", func(t *testing.T) {
		room := entity.NewRoom("Arena")
		_, err := AddPlayer(room, 1, "alice")
		require.NoError(t, err)

		events, err := Forfeit(room, 1)

		require.NoError(t, err)
		assert.True(t, room.IsFinished())
		assert.Empty(t, events)
	})

	t.Run("Forfeiting a finished room signals the terminal state", func(t *testing.T) {
		room := newInProgressRoom(t)
		room.Status = entity.StatusFinished

		_, err := Forfeit(room, 1)

		assert.ErrorIs(t, err, apperror.ErrMatchFinished)
	})
}

func mustPlace(t *testing.T, room *entity.Room, conn entity.ConnID, col, row int) {
	t.Helper()

	_, err := PlaceMarker(room, conn, col, row)
	require.NoError(t, err)
}
