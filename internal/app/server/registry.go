package server

import (
	"sort"
	"sync"
)

// Room pairs up to two seats for one game. The session is attached once
// the second seat joins.
type Room struct {
	Number int
	Seats  []*seat

	mu      sync.Mutex
	session *Session
}

func (r *Room) creator() *seat {
	return r.Seats[0]
}

func (r *Room) setSession(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session = s
}

func (r *Room) Session() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

// Registry owns every live room. All mutations go through its lock;
// gameplay inside a room is serialized by the room's own session, never
// by this lock.
type Registry struct {
	mu     sync.Mutex
	rooms  map[int]*Room
	nextID int
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[int]*Room)}
}

// Create allocates the next room number and seats the creator at index 1.
func (reg *Registry) Create(userID int, conn transport) (*Room, *seat) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.nextID++
	st := newSeat(1, userID, conn)
	room := &Room{
		Number: reg.nextID,
		Seats:  []*seat{st},
	}
	reg.rooms[room.Number] = room
	return room, st
}

// Join adds the user at seat index 2. Fails with ErrRoomNotFound or
// ErrRoomFull.
func (reg *Registry) Join(userID int, conn transport, number int) (*Room, *seat, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	room, ok := reg.rooms[number]
	if !ok {
		return nil, nil, ErrRoomNotFound
	}
	if len(room.Seats) >= 2 {
		return nil, nil, ErrRoomFull
	}
	st := newSeat(2, userID, conn)
	room.Seats = append(room.Seats, st)
	return room, st, nil
}

func (reg *Registry) Get(number int) (*Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	room, ok := reg.rooms[number]
	return room, ok
}

// RoomStatus is a point-in-time view of one room for the lobby listing.
type RoomStatus struct {
	Number      int
	CreatorID   int
	PlayerCount int
}

// List snapshots all live rooms, full ones included, ordered by room
// number ascending.
func (reg *Registry) List() []RoomStatus {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	statuses := make([]RoomStatus, 0, len(reg.rooms))
	for _, room := range reg.rooms {
		statuses = append(statuses, RoomStatus{
			Number:      room.Number,
			CreatorID:   room.creator().UserID,
			PlayerCount: len(room.Seats),
		})
	}
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Number < statuses[j].Number
	})
	return statuses
}

// Delete removes the room. Deleting an unknown number is a no-op.
func (reg *Registry) Delete(number int) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.rooms, number)
}
