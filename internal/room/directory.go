// Package room holds the directory of active game rooms.
package room

import (
	"sort"

	"github.com/playroomlab/tictactoe-server/internal/apperror"
	"github.com/playroomlab/tictactoe-server/internal/entity"
)

const (
	// MaxRooms caps the directory; CREATE beyond it is refused.
	MaxRooms = 256

	maxNameLength = 20
)

type Directory struct {
	rooms map[string]*entity.Room
	names []string // creation order, drives FindContaining
}

func NewDirectory() *Directory {
	return &Directory{
		rooms: make(map[string]*entity.Room),
	}
}

// Create validates the name, registers a new room, and seats the owner
// as its first player.
func (that *Directory) Create(name string, owner entity.ConnID, username string) (*entity.Room, error) {
	if !isValidName(name) {
		return nil, apperror.ErrInvalidRoomName
	}

	if _, ok := that.rooms[name]; ok {
		return nil, apperror.ErrDuplicateRoom
	}

	if len(that.rooms) >= MaxRooms {
		return nil, apperror.ErrDirectoryFull
	}

	newRoom := entity.NewRoom(name)
	newRoom.Players = append(newRoom.Players, entity.Player{Conn: owner, Username: username})
	that.rooms[name] = newRoom
	that.names = append(that.names, name)

	return newRoom, nil
}

func (that *Directory) Get(name string) (*entity.Room, bool) {
	existing, ok := that.rooms[name]
	return existing, ok
}

// ListNames returns room names sorted lexicographically. In recruiting
// mode only rooms still waiting for a second player are listed; viewers
// see every room.
func (that *Directory) ListNames(recruitingOnly bool) []string {
	names := make([]string, 0, len(that.rooms))
	for name, existing := range that.rooms {
		if recruitingOnly && existing.IsFull() {
			continue
		}
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// FindContaining locates the room a connection occupies as a player.
// Rooms are scanned in creation order, so a player somehow seated in
// two rooms is always routed to the older one. A linear scan is fine at
// the 256-room cap.
func (that *Directory) FindContaining(conn entity.ConnID) (*entity.Room, bool) {
	for _, name := range that.names {
		if existing := that.rooms[name]; existing.HasPlayer(conn) {
			return existing, true
		}
	}
	return nil, false
}

// DropViewer removes a disconnected viewer from whichever rooms hold it.
func (that *Directory) DropViewer(conn entity.ConnID) {
	for _, existing := range that.rooms {
		delete(existing.Viewers, conn)
	}
}

// Remove deletes a room; idempotent if already absent.
func (that *Directory) Remove(name string) {
	if _, ok := that.rooms[name]; !ok {
		return
	}

	delete(that.rooms, name)

	for i, existing := range that.names {
		if existing == name {
			that.names = append(that.names[:i], that.names[i+1:]...)
			break
		}
	}
}

func (that *Directory) Len() int {
	return len(that.rooms)
}

// Room names are 1-20 characters of letters, digits, dash, underscore,
// or space.
func isValidName(name string) bool {
	if len(name) == 0 || len(name) > maxNameLength {
		return false
	}

	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == ' ':
		default:
			return false
		}
	}

	return true
}
