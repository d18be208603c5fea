package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCreateAssignsAscendingNumbers(t *testing.T) {
	reg := NewRegistry()

	room1, seat1 := reg.Create(7, &fakeConn{})
	room2, _ := reg.Create(8, &fakeConn{})

	assert.Equal(t, 1, room1.Number)
	assert.Equal(t, 2, room2.Number)
	assert.Equal(t, 1, seat1.Index)
	assert.Equal(t, 7, seat1.UserID)
	assert.Len(t, room1.Seats, 1)
}

func TestRegistryJoin(t *testing.T) {
	reg := NewRegistry()
	room, _ := reg.Create(7, &fakeConn{})

	joined, st, err := reg.Join(9, &fakeConn{}, room.Number)
	require.NoError(t, err)
	assert.Same(t, room, joined)
	assert.Equal(t, 2, st.Index)
	assert.Equal(t, 9, st.UserID)
	assert.Len(t, room.Seats, 2)
}

func TestRegistryJoinFullRoom(t *testing.T) {
	reg := NewRegistry()
	room, _ := reg.Create(7, &fakeConn{})
	_, _, err := reg.Join(8, &fakeConn{}, room.Number)
	require.NoError(t, err)

	_, _, err = reg.Join(9, &fakeConn{}, room.Number)
	assert.ErrorIs(t, err, ErrRoomFull)
	assert.Len(t, room.Seats, 2, "rejected join must not add a seat")
}

func TestRegistryJoinUnknownRoom(t *testing.T) {
	reg := NewRegistry()
	_, _, err := reg.Join(7, &fakeConn{}, 42)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRegistryListSnapshotsAllLiveRooms(t *testing.T) {
	reg := NewRegistry()
	reg.Create(7, &fakeConn{})
	room2, _ := reg.Create(8, &fakeConn{})
	_, _, err := reg.Join(9, &fakeConn{}, room2.Number)
	require.NoError(t, err)

	statuses := reg.List()
	require.Len(t, statuses, 2)
	assert.Equal(t, RoomStatus{Number: 1, CreatorID: 7, PlayerCount: 1}, statuses[0])
	assert.Equal(t, RoomStatus{Number: 2, CreatorID: 8, PlayerCount: 2}, statuses[1])
}

func TestRegistryDeleteIsIdempotent(t *testing.T) {
	reg := NewRegistry()
	room, _ := reg.Create(7, &fakeConn{})

	reg.Delete(room.Number)
	_, ok := reg.Get(room.Number)
	assert.False(t, ok)

	// Second delete and deleting a room that never existed are no-ops.
	reg.Delete(room.Number)
	reg.Delete(99)
	assert.Empty(t, reg.List())
}
