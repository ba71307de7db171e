package tcp

import (
	"context"
	"errors"

	"github.com/playroomlab/tictactoe-server/internal/apperror"
	"github.com/playroomlab/tictactoe-server/internal/entity"
	"github.com/playroomlab/tictactoe-server/internal/protocol"
	"github.com/playroomlab/tictactoe-server/internal/tictactoe"
)

// handleCommand decodes one frame and routes it. Exhaustive over the
// command variants.
func (that *Server) handleCommand(ctx context.Context, id entity.ConnID, line string) {
	switch cmd := protocol.Decode(line).(type) {
	case protocol.Login:
		that.handleLogin(ctx, id, cmd)
	case protocol.Register:
		that.handleRegister(ctx, id, cmd)
	case protocol.RoomList:
		that.handleRoomList(id, cmd)
	case protocol.Create:
		that.handleCreate(id, cmd)
	case protocol.Join:
		that.handleJoin(id, cmd)
	case protocol.Place:
		that.handlePlace(ctx, id, cmd)
	case protocol.Forfeit:
		that.handleForfeit(ctx, id)
	case protocol.Malformed:
		that.handleMalformed(id, cmd.Keyword)
	case protocol.Unknown:
		that.send(id, protocol.EncodeUnknownCommand())
	}
}

// requireAuth answers BADAUTH when the connection has not logged in.
func (that *Server) requireAuth(id entity.ConnID) (string, bool) {
	username, ok := that.sessions.UsernameOf(id)
	if !ok {
		that.send(id, protocol.EncodeBadAuth())
	}
	return username, ok
}

func (that *Server) handleLogin(ctx context.Context, id entity.ConnID, cmd protocol.Login) {
	err := that.auth.Login(ctx, cmd.Username, cmd.Password)
	switch {
	case err == nil:
		that.sessions.Authenticate(id, cmd.Username)
		that.send(id, protocol.EncodeLoginAck(protocol.LoginOK))
	case errors.Is(err, apperror.ErrUserNotFound):
		that.send(id, protocol.EncodeLoginAck(protocol.LoginNoSuchUser))
	case errors.Is(err, apperror.ErrWrongPassword):
		that.send(id, protocol.EncodeLoginAck(protocol.LoginWrongPassword))
	default:
		// the client still needs an answer when the store misbehaves
		that.logger.Error("login failed", "conn", id, "error", err)
		that.send(id, protocol.EncodeLoginAck(protocol.LoginMalformed))
	}
}

func (that *Server) handleRegister(ctx context.Context, id entity.ConnID, cmd protocol.Register) {
	err := that.auth.Register(ctx, cmd.Username, cmd.Password)
	switch {
	case err == nil:
		that.send(id, protocol.EncodeRegisterAck(protocol.RegisterOK))
	case errors.Is(err, apperror.ErrUserExists):
		that.send(id, protocol.EncodeRegisterAck(protocol.RegisterDuplicateUser))
	case errors.Is(err, apperror.ErrShortPassword):
		that.send(id, protocol.EncodeRegisterAck(protocol.RegisterShortPassword))
	case errors.Is(err, apperror.ErrInvalidUsername):
		that.send(id, protocol.EncodeRegisterAck(protocol.RegisterNonAlphanumeric))
	default:
		that.logger.Error("register failed", "conn", id, "error", err)
		that.send(id, protocol.EncodeRegisterAck(protocol.RegisterMalformed))
	}
}

func (that *Server) handleRoomList(id entity.ConnID, cmd protocol.RoomList) {
	if _, ok := that.requireAuth(id); !ok {
		return
	}

	names := that.rooms.ListNames(cmd.Mode == protocol.ModePlayer)
	that.send(id, protocol.EncodeRoomList(names))
}

func (that *Server) handleCreate(id entity.ConnID, cmd protocol.Create) {
	username, ok := that.requireAuth(id)
	if !ok {
		return
	}

	_, err := that.rooms.Create(cmd.RoomName, id, username)
	switch {
	case err == nil:
		that.send(id, protocol.EncodeCreateAck(protocol.CreateOK))
	case errors.Is(err, apperror.ErrInvalidRoomName):
		that.send(id, protocol.EncodeCreateAck(protocol.CreateInvalidName))
	case errors.Is(err, apperror.ErrDuplicateRoom):
		that.send(id, protocol.EncodeCreateAck(protocol.CreateDuplicateName))
	case errors.Is(err, apperror.ErrDirectoryFull):
		that.send(id, protocol.EncodeCreateAck(protocol.CreateDirectoryFull))
	}
}

func (that *Server) handleJoin(id entity.ConnID, cmd protocol.Join) {
	username, ok := that.requireAuth(id)
	if !ok {
		return
	}

	joined, ok := that.rooms.Get(cmd.RoomName)
	if !ok {
		that.send(id, protocol.EncodeJoinAck(protocol.JoinNoSuchRoom))
		return
	}

	if cmd.Mode == protocol.ModePlayer {
		if joined.IsFull() {
			that.send(id, protocol.EncodeJoinAck(protocol.JoinRoomFull))
			return
		}

		// the ack precedes the BEGIN broadcast
		that.send(id, protocol.EncodeJoinAck(protocol.JoinOK))

		events, err := tictactoe.AddPlayer(joined, id, username)
		if err != nil {
			that.logger.Error("failed to add player", "room", joined.Name, "error", err)
			return
		}

		that.broadcast(joined, events)
		return
	}

	that.send(id, protocol.EncodeJoinAck(protocol.JoinOK))

	snapshot, err := tictactoe.AddViewer(joined, id)
	if err != nil {
		that.logger.Error("failed to add viewer", "room", joined.Name, "error", err)
		return
	}

	if snapshot != nil {
		that.send(id, protocol.EncodeInProgress(snapshot.TurnUsername, snapshot.OpponentUsername))
	}
}

func (that *Server) handlePlace(ctx context.Context, id entity.ConnID, cmd protocol.Place) {
	if _, ok := that.requireAuth(id); !ok {
		return
	}

	occupied, ok := that.rooms.FindContaining(id)
	if !ok {
		that.send(id, protocol.EncodeNoRoom())
		return
	}

	events, err := tictactoe.PlaceMarker(occupied, id, cmd.Col, cmd.Row)
	if errors.Is(err, apperror.ErrMatchFinished) {
		that.send(id, protocol.EncodeGameEndNotice())
		return
	}

	that.broadcast(occupied, events)
	that.finalize(ctx, occupied, events)
}

func (that *Server) handleForfeit(ctx context.Context, id entity.ConnID) {
	if _, ok := that.requireAuth(id); !ok {
		return
	}

	occupied, ok := that.rooms.FindContaining(id)
	if !ok {
		that.send(id, protocol.EncodeNoRoom())
		return
	}

	events, err := tictactoe.Forfeit(occupied, id)
	if errors.Is(err, apperror.ErrMatchFinished) {
		that.send(id, protocol.EncodeGameEndNotice())
		return
	}

	that.broadcast(occupied, events)
	that.finalize(ctx, occupied, events)
}

// handleMalformed answers a recognized keyword with a bad shape. The
// auth check comes first: an unauthenticated connection gets BADAUTH
// whatever the shape.
func (that *Server) handleMalformed(id entity.ConnID, keyword string) {
	switch keyword {
	case protocol.KeywordLogin:
		that.send(id, protocol.EncodeLoginAck(protocol.LoginMalformed))
	case protocol.KeywordRegister:
		that.send(id, protocol.EncodeRegisterAck(protocol.RegisterMalformed))
	case protocol.KeywordRoomList:
		if _, ok := that.requireAuth(id); !ok {
			return
		}
		that.send(id, protocol.EncodeRoomListMalformed())
	case protocol.KeywordCreate:
		if _, ok := that.requireAuth(id); !ok {
			return
		}
		that.send(id, protocol.EncodeCreateAck(protocol.CreateInvalidName))
	case protocol.KeywordJoin:
		if _, ok := that.requireAuth(id); !ok {
			return
		}
		that.send(id, protocol.EncodeJoinAck(protocol.JoinMalformed))
	default:
		// PLACE with non-numeric or out-of-range coordinates
		if _, ok := that.requireAuth(id); !ok {
			return
		}
		that.send(id, protocol.EncodeUnknownCommand())
	}
}

// handleDisconnect treats a dropped in-progress player as a forfeit,
// dissolves a waiting room abandoned by its sole player, and strips
// viewer membership.
func (that *Server) handleDisconnect(ctx context.Context, id entity.ConnID) {
	if occupied, ok := that.rooms.FindContaining(id); ok {
		events, err := tictactoe.Forfeit(occupied, id)
		if err == nil {
			that.broadcast(occupied, events)
			that.finalize(ctx, occupied, events)
		}
	}

	that.rooms.DropViewer(id)

	if outbox, ok := that.outboxes[id]; ok {
		close(outbox)
		delete(that.outboxes, id)
	}

	if sess, ok := that.sessions.Get(id); ok {
		_ = sess.Conn.Close()
	}
	that.sessions.Remove(id)
}

// broadcast delivers transition events to every player and viewer of
// the room.
func (that *Server) broadcast(target *entity.Room, events []tictactoe.Event) {
	for _, ev := range events {
		var frame string

		switch ev := ev.(type) {
		case tictactoe.MatchBegun:
			frame = protocol.EncodeBegin(ev.Player1, ev.Player2)
		case tictactoe.BoardUpdated:
			frame = protocol.EncodeBoardStatus(ev.Board)
		case tictactoe.MatchEnded:
			frame = protocol.EncodeGameEnd(ev.Board, ev.Outcome, ev.Winner)
		default:
			continue
		}

		for _, member := range target.Audience() {
			that.send(member, frame)
		}
	}
}

// finalize archives the outcome, drops a finished room from the
// directory, and clears its membership. A finished room is never
// revived.
func (that *Server) finalize(ctx context.Context, target *entity.Room, events []tictactoe.Event) {
	if !target.IsFinished() {
		return
	}

	for _, ev := range events {
		if ended, ok := ev.(tictactoe.MatchEnded); ok {
			that.archive.RecordFinished(ctx, target.Name, target.PlayerUsernames(), ended.Board, ended.Outcome, ended.Winner)
		}
	}

	that.rooms.Remove(target.Name)
	target.ClearMembership()
}
