package live

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashikaparyani/event-management-backend/internal/models"
)

// scriptConn replays a fixed sequence of inbound frames, then reports EOF.
type scriptConn struct {
	fakeConn
	inbox [][]byte
	pos   int
}

func (s *scriptConn) ReadMessage() (int, []byte, error) {
	if s.pos >= len(s.inbox) {
		return 0, nil, io.EOF
	}
	data := s.inbox[s.pos]
	s.pos++
	return 1, data, nil
}

func gatewayFixture(t *testing.T) *Gateway {
	t.Helper()
	quizStore := newFakeQuizStore()
	seedQuiz(quizStore)
	debateStore := newFakeDebateStore()
	dir := &fakeDirectory{users: map[uint]Identity{
		1: {ID: 1, Name: "alice", Role: models.RoleParticipant},
	}}
	return NewGateway(NewQuizCoordinator(quizStore, dir), NewDebateCoordinator(debateStore, dir))
}

func TestGatewaySurvivesMalformedFrames(t *testing.T) {
	g := gatewayFixture(t)
	conn := &scriptConn{inbox: [][]byte{
		[]byte(`{not json`),
		[]byte(`{"event":"","data":{}}`),
		[]byte(`{"event":"join-quiz","data":{"quizId":10,"eventId":20}}`),
	}}
	client := NewClient(conn, Identity{ID: 1, Name: "alice", Role: models.RoleParticipant})

	g.ServeQuiz(client)

	events := conn.events()
	require.Len(t, events, 3, "two error frames, then the join succeeds")
	assert.Equal(t, "error", events[0])
	assert.Equal(t, "error", events[1])
	assert.Equal(t, "quiz-joined", events[2])
	assert.True(t, conn.closed)
	assert.Empty(t, g.QuizRooms().Members(1), "disconnect leaves the room")
}

func TestGatewayRejectsSpoofedPayloadUser(t *testing.T) {
	g := gatewayFixture(t)
	conn := &scriptConn{inbox: [][]byte{
		[]byte(`{"event":"join-quiz","data":{"quizId":10,"eventId":20,"userId":42}}`),
	}}
	client := NewClient(conn, Identity{ID: 1, Name: "alice", Role: models.RoleParticipant})

	g.ServeQuiz(client)

	frames := conn.frames
	require.Len(t, frames, 1)
	assert.Equal(t, "error", frames[0].Event)
	msg := frames[0].Data.(map[string]interface{})
	assert.Contains(t, msg["message"], "does not match")
}

func TestGatewayRejectsSpoofedLeaderboardUser(t *testing.T) {
	g := gatewayFixture(t)
	conn := &scriptConn{inbox: [][]byte{
		[]byte(`{"event":"show-leaderboard","data":{"quizId":10,"userId":42}}`),
	}}
	client := NewClient(conn, Identity{ID: 1, Role: models.RoleParticipant})

	g.ServeQuiz(client)

	frames := conn.frames
	require.Len(t, frames, 1)
	assert.Equal(t, "error", frames[0].Event)
	msg := frames[0].Data.(map[string]interface{})
	assert.Contains(t, msg["message"], "does not match")
}

func TestGatewayUnknownEventErrors(t *testing.T) {
	g := gatewayFixture(t)
	conn := &scriptConn{inbox: [][]byte{
		[]byte(`{"event":"self-destruct","data":{}}`),
	}}
	client := NewClient(conn, Identity{ID: 1, Role: models.RoleParticipant})

	g.ServeDebate(client)

	events := conn.events()
	require.Len(t, events, 1)
	assert.Equal(t, "debate-error", events[0])
}

func TestGatewayErrorsGoToCallerOnly(t *testing.T) {
	g := gatewayFixture(t)

	// A bystander already in the room must not see the caller's failure.
	bystander := NewClient(&fakeConn{}, Identity{ID: 9, Role: models.RoleParticipant})
	g.QuizRooms().Join(1, bystander)

	conn := &scriptConn{inbox: [][]byte{
		[]byte(`{"event":"start-quiz","data":{"quizId":10}}`),
	}}
	client := NewClient(conn, Identity{ID: 1, Role: models.RoleParticipant})
	g.ServeQuiz(client)

	require.Equal(t, []string{"error"}, conn.events())
	assert.Empty(t, bystander.conn.(*fakeConn).events())
}
