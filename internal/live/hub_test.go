package live

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashikaparyani/event-management-backend/internal/models"
)

// fakeConn records every frame written to it.
type fakeConn struct {
	mu     sync.Mutex
	frames []Message
	closed bool
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	return 0, nil, nil
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}
	f.frames = append(f.frames, msg)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.frames))
	for _, m := range f.frames {
		names = append(names, m.Event)
	}
	return names
}

func newTestClient(userID uint, role models.Role) (*Client, *fakeConn) {
	conn := &fakeConn{}
	return NewClient(conn, Identity{ID: userID, Name: "user", Role: role}), conn
}

func TestHubJoinIsIdempotent(t *testing.T) {
	hub := NewHub()
	c, _ := newTestClient(1, models.RoleParticipant)

	hub.Join(7, c)
	hub.Join(7, c)

	require.Len(t, hub.Members(7), 1)
	room, ok := hub.Room(c)
	require.True(t, ok)
	assert.Equal(t, uint(7), room)
}

func TestHubJoinMovesClientBetweenRooms(t *testing.T) {
	hub := NewHub()
	c, _ := newTestClient(1, models.RoleParticipant)

	hub.Join(7, c)
	hub.Join(8, c)

	assert.Empty(t, hub.Members(7))
	require.Len(t, hub.Members(8), 1)
}

func TestHubLeaveIsNoopForUnknownClient(t *testing.T) {
	hub := NewHub()
	c, _ := newTestClient(1, models.RoleParticipant)

	hub.Leave(c)

	hub.Join(3, c)
	hub.Leave(c)
	hub.Leave(c)

	assert.Empty(t, hub.Members(3))
	_, ok := hub.Room(c)
	assert.False(t, ok)
}

func TestHubBroadcastReachesOnlyRoomMembers(t *testing.T) {
	hub := NewHub()
	a, connA := newTestClient(1, models.RoleParticipant)
	b, connB := newTestClient(2, models.RoleParticipant)
	other, connOther := newTestClient(3, models.RoleParticipant)

	hub.Join(7, a)
	hub.Join(7, b)
	hub.Join(8, other)

	hub.Broadcast(7, "current-question", map[string]interface{}{"questionIndex": 0})

	assert.Equal(t, []string{"current-question"}, connA.events())
	assert.Equal(t, []string{"current-question"}, connB.events())
	assert.Empty(t, connOther.events())
}

func TestHubUnicastUserHitsEveryHandleOfThatUser(t *testing.T) {
	hub := NewHub()
	first, connFirst := newTestClient(1, models.RoleParticipant)
	second, connSecond := newTestClient(1, models.RoleParticipant)
	other, connOther := newTestClient(2, models.RoleParticipant)

	hub.Join(7, first)
	hub.Join(7, second)
	hub.Join(7, other)

	hub.UnicastUser(7, 1, "your-turn", map[string]interface{}{"timer": 60})

	assert.Equal(t, []string{"your-turn"}, connFirst.events())
	assert.Equal(t, []string{"your-turn"}, connSecond.events())
	assert.Empty(t, connOther.events())
}
