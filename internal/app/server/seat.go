package server

import (
	"sync"

	"github.com/shashki-online/shashki/internal/game"
)

// transport is the connection a seat writes to. The server's wsConn
// satisfies it; tests plug in fakes.
type transport interface {
	WriteJSON(v interface{}) error
	Close() error
}

// seat is one of the two slots of a room, bound to a connected player.
// Seat 1 is the room's creator and plays side A.
type seat struct {
	Index  int
	UserID int

	conn transport
	mu   sync.Mutex
}

func newSeat(index, userID int, conn transport) *seat {
	return &seat{
		Index:  index,
		UserID: userID,
		conn:   conn,
	}
}

func (s *seat) side() game.Side {
	if s.Index == 1 {
		return game.SideA
	}
	return game.SideB
}

func (s *seat) writeJSON(msg interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	return s.conn.WriteJSON(msg)
}

func (s *seat) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return
	}
	s.conn.Close()
	s.conn = nil
}
