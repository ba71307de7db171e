// Package tcp serves the game wire protocol. One goroutine per
// connection reads newline frames and forwards them to a single
// dispatcher goroutine, which exclusively owns the session registry and
// room directory: commands from different connections interleave only
// at whole-command boundaries, never mid-mutation.
package tcp

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/playroomlab/tictactoe-server/internal/entity"
	"github.com/playroomlab/tictactoe-server/internal/room"
	"github.com/playroomlab/tictactoe-server/internal/session"
)

const (
	outboxSize   = 64
	writeTimeout = 10 * time.Second
)

type eventKind int

const (
	eventConnect eventKind = iota
	eventLine
	eventDisconnect
)

type event struct {
	kind eventKind
	id   entity.ConnID
	conn net.Conn // connect only
	line string   // line only
}

type authManager interface {
	Login(ctx context.Context, username, password string) error
	Register(ctx context.Context, username, password string) error
}

type matchArchive interface {
	RecordFinished(ctx context.Context, roomName string, players []string, board, outcome, winner string)
}

type Server struct {
	logger  *slog.Logger
	auth    authManager
	archive matchArchive

	// owned by the dispatcher goroutine
	sessions *session.Registry
	rooms    *room.Directory
	outboxes map[entity.ConnID]chan string

	events chan event
}

func New(logger *slog.Logger, auth authManager, archive matchArchive) *Server {
	return &Server{
		logger:  logger.With("component", "tcp"),
		auth:    auth,
		archive: archive,

		sessions: session.NewRegistry(),
		rooms:    room.NewDirectory(),
		outboxes: make(map[entity.ConnID]chan string),

		events: make(chan event, 256),
	}
}

// Start listens on the given port and serves until the context is
// canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", port, err)
	}

	return that.Serve(ctx, listener)
}

// Serve accepts connections on an existing listener.
func (that *Server) Serve(ctx context.Context, listener net.Listener) error {
	log := that.logger.With("method", "Serve")

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	go that.dispatch(ctx)

	log.Info("game server listening", "addr", listener.Addr().String())

	var nextID uint64

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to accept connection: %w", err)
		}

		nextID++
		id := entity.ConnID(nextID)

		that.events <- event{kind: eventConnect, id: id, conn: conn}

		go that.readLoop(id, conn)
	}
}

// readLoop forwards complete frames from one connection. EOF and reset
// both surface as a disconnect event; the dispatcher decides whether
// that means a forfeit.
func (that *Server) readLoop(id entity.ConnID, conn net.Conn) {
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		that.events <- event{kind: eventLine, id: id, line: scanner.Text()}
	}

	that.events <- event{kind: eventDisconnect, id: id}
}

// dispatch is the single control loop: every session and room mutation
// happens here.
func (that *Server) dispatch(ctx context.Context) {
	log := that.logger.With("method", "dispatch")

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-that.events:
			switch ev.kind {
			case eventConnect:
				that.sessions.Register(ev.id, ev.conn)

				outbox := make(chan string, outboxSize)
				that.outboxes[ev.id] = outbox
				go that.writeLoop(ev.id, ev.conn, outbox)

				log.Debug("connection accepted", "conn", ev.id, "remote", ev.conn.RemoteAddr().String())
			case eventLine:
				that.handleCommand(ctx, ev.id, ev.line)
			case eventDisconnect:
				that.handleDisconnect(ctx, ev.id)
				log.Debug("connection closed", "conn", ev.id)
			}
		}
	}
}

// send queues a frame for the connection's writer goroutine. A peer
// that stopped reading fills its outbox and is dropped instead of
// stalling the dispatch loop.
func (that *Server) send(id entity.ConnID, frame string) {
	outbox, ok := that.outboxes[id]
	if !ok {
		return
	}

	select {
	case outbox <- frame:
	default:
		that.logger.Warn("outbox full, dropping slow consumer", "conn", id)
		if sess, ok := that.sessions.Get(id); ok {
			_ = sess.Conn.Close()
		}
	}
}

// writeLoop drains one connection's outbox.
func (that *Server) writeLoop(id entity.ConnID, conn net.Conn, outbox <-chan string) {
	for frame := range outbox {
		if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
			return
		}

		if _, err := conn.Write([]byte(frame)); err != nil {
			// the reader side will surface the disconnect
			that.logger.Debug("failed to write frame", "conn", id, "error", err)
			_ = conn.Close()
			return
		}
	}
}
