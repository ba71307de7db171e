// Package session tracks the authentication state of live connections.
package session

import (
	"net"

	"github.com/playroomlab/tictactoe-server/internal/entity"
)

// Session is one live connection. Username stays empty until a
// successful LOGIN.
type Session struct {
	Conn     net.Conn
	Username string
}

func (that *Session) IsAuthenticated() bool {
	return that.Username != ""
}

// Registry maps connection IDs to sessions. It is owned by the
// dispatcher goroutine and mutated only there, so it carries no lock.
type Registry struct {
	sessions map[entity.ConnID]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[entity.ConnID]*Session),
	}
}

// Register creates an unauthenticated session for a freshly accepted
// connection.
func (that *Registry) Register(id entity.ConnID, conn net.Conn) {
	that.sessions[id] = &Session{Conn: conn}
}

// Authenticate binds a username to the connection. A repeated LOGIN
// rebinds it.
func (that *Registry) Authenticate(id entity.ConnID, username string) {
	if sess, ok := that.sessions[id]; ok {
		sess.Username = username
	}
}

func (that *Registry) IsAuthenticated(id entity.ConnID) bool {
	sess, ok := that.sessions[id]
	return ok && sess.IsAuthenticated()
}

func (that *Registry) UsernameOf(id entity.ConnID) (string, bool) {
	sess, ok := that.sessions[id]
	if !ok || !sess.IsAuthenticated() {
		return "", false
	}
	return sess.Username, true
}

func (that *Registry) Get(id entity.ConnID) (*Session, bool) {
	sess, ok := that.sessions[id]
	return sess, ok
}

func (that *Registry) Remove(id entity.ConnID) {
	delete(that.sessions, id)
}
