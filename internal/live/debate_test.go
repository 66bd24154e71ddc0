package live

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashikaparyani/event-management-backend/internal/models"
)

type fakeDebateStore struct {
	debates  map[uint]*models.Debate
	sessions map[uint]models.DebateSession
	nextID   uint
	members  map[uint]map[uint]models.Role
	messages []models.DebateMessage
	votes    []models.DebateVote
	scores   map[uint]map[uint]models.DebateTeamScore
}

func newFakeDebateStore() *fakeDebateStore {
	return &fakeDebateStore{
		debates:  make(map[uint]*models.Debate),
		sessions: make(map[uint]models.DebateSession),
		members:  make(map[uint]map[uint]models.Role),
		scores:   make(map[uint]map[uint]models.DebateTeamScore),
	}
}

func (s *fakeDebateStore) DebateByEvent(eventID uint) (*models.Debate, error) {
	for _, d := range s.debates {
		if d.EventID == eventID {
			copied := *d
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeDebateStore) LiveSession(eventID uint) (*models.DebateSession, error) {
	for _, sess := range s.sessions {
		if sess.EventID == eventID &&
			(sess.Status == models.SessionStatusWaiting || sess.Status == models.SessionStatusActive) {
			copied := sess
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeDebateStore) LatestSession(eventID uint) (*models.DebateSession, error) {
	var latest *models.DebateSession
	for _, sess := range s.sessions {
		if sess.EventID != eventID {
			continue
		}
		if latest == nil || sess.ID > latest.ID {
			copied := sess
			latest = &copied
		}
	}
	return latest, nil
}

func (s *fakeDebateStore) CreateSession(sess *models.DebateSession) error {
	s.nextID++
	sess.ID = s.nextID
	s.sessions[sess.ID] = *sess
	return nil
}

func (s *fakeDebateStore) SaveSession(sess *models.DebateSession) error {
	s.sessions[sess.ID] = *sess
	return nil
}

func (s *fakeDebateStore) AddMember(sessionID, userID uint, role models.Role) error {
	if s.members[sessionID] == nil {
		s.members[sessionID] = make(map[uint]models.Role)
	}
	if _, exists := s.members[sessionID][userID]; !exists {
		s.members[sessionID][userID] = role
	}
	return nil
}

func (s *fakeDebateStore) Member(sessionID, userID uint) (*models.DebateMember, error) {
	role, ok := s.members[sessionID][userID]
	if !ok {
		return nil, nil
	}
	return &models.DebateMember{SessionID: sessionID, UserID: userID, Role: role}, nil
}

func (s *fakeDebateStore) Members(sessionID uint) ([]models.DebateMember, error) {
	var out []models.DebateMember
	for userID, role := range s.members[sessionID] {
		out = append(out, models.DebateMember{SessionID: sessionID, UserID: userID, Role: role})
	}
	return out, nil
}

func (s *fakeDebateStore) AppendMessage(m *models.DebateMessage) error {
	s.messages = append(s.messages, *m)
	return nil
}

func (s *fakeDebateStore) AppendVote(v *models.DebateVote) error {
	s.votes = append(s.votes, *v)
	return nil
}

func (s *fakeDebateStore) TeamScore(sessionID, teamID uint) (*models.DebateTeamScore, error) {
	score, ok := s.scores[sessionID][teamID]
	if !ok {
		return nil, nil
	}
	copied := score
	return &copied, nil
}

func (s *fakeDebateStore) SaveTeamScore(score *models.DebateTeamScore) error {
	if s.scores[score.SessionID] == nil {
		s.scores[score.SessionID] = make(map[uint]models.DebateTeamScore)
	}
	s.scores[score.SessionID][score.TeamID] = *score
	return nil
}

func (s *fakeDebateStore) Scores(sessionID uint) ([]models.DebateTeamScore, error) {
	var out []models.DebateTeamScore
	for _, score := range s.scores[sessionID] {
		out = append(out, score)
	}
	return out, nil
}

const (
	debateEventID     = 30
	debateCoordinator = 100
)

func debateFixture(t *testing.T) (*DebateCoordinator, *fakeDebateStore) {
	t.Helper()
	store := newFakeDebateStore()
	store.debates[1] = &models.Debate{
		ID:            1,
		EventID:       debateEventID,
		CoordinatorID: debateCoordinator,
		Topics:        []string{"open borders"},
		TimerDefault:  120,
		Teams: []models.DebateTeam{
			{ID: 51, DebateID: 1, Name: "pro"},
			{ID: 52, DebateID: 1, Name: "con"},
		},
	}
	dir := &fakeDirectory{users: map[uint]Identity{
		1:                 {ID: 1, Name: "alice", Role: models.RoleParticipant},
		2:                 {ID: 2, Name: "bob", Role: models.RoleAudience},
		debateCoordinator: {ID: debateCoordinator, Name: "carol", Role: models.RoleCoordinator},
	}}
	c := NewDebateCoordinator(store, dir)
	c.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return c, store
}

func coordIdent() Identity {
	return Identity{ID: debateCoordinator, Role: models.RoleCoordinator}
}

func activeDebate(t *testing.T, c *DebateCoordinator) *Effects {
	t.Helper()
	eff, err := c.Start(coordIdent(), debateEventID)
	require.NoError(t, err)
	return eff
}

func TestDebateJoinRejectsSpoofedRole(t *testing.T) {
	c, _ := debateFixture(t)
	activeDebate(t, c)

	_, err := c.Join(Identity{ID: 2, Role: models.RoleAudience}, debateEventID, models.RoleCoordinator)
	assert.Equal(t, KindAuthorization, KindOf(err))
}

func TestDebateJoinCreatesWaitingSessionLazily(t *testing.T) {
	c, store := debateFixture(t)

	eff, err := c.Join(Identity{ID: 1, Role: models.RoleParticipant}, debateEventID, models.RoleParticipant)
	require.NoError(t, err)
	assert.True(t, eff.joinRoom)

	sess, err := store.LiveSession(debateEventID)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, models.SessionStatusWaiting, sess.Status)

	member, _ := store.Member(sess.ID, 1)
	require.NotNil(t, member)
	assert.Equal(t, models.RoleParticipant, member.Role)

	// A second join reuses the session instead of creating another.
	_, err = c.Join(Identity{ID: 2, Role: models.RoleAudience}, debateEventID, models.RoleAudience)
	require.NoError(t, err)
	assert.Len(t, store.sessions, 1)
}

func TestDebateLifecycleThroughJoinAndStart(t *testing.T) {
	c, _ := debateFixture(t)

	// Debater seats themselves before the coordinator arrives.
	_, err := c.Join(Identity{ID: 1, Role: models.RoleParticipant}, debateEventID, models.RoleParticipant)
	require.NoError(t, err)

	eff, err := c.Start(coordIdent(), debateEventID)
	require.NoError(t, err)
	assert.Equal(t, []string{"debate-started"}, frameEvents(eff.room))

	eff, err = c.AssignSpeaker(coordIdent(), debateEventID, 1, 60)
	require.NoError(t, err)
	require.Len(t, eff.users, 1)
	assert.Equal(t, uint(1), eff.users[0].userID)

	eff, err = c.Message(Identity{ID: 1, Name: "alice", Role: models.RoleParticipant}, debateEventID, "opening")
	require.NoError(t, err)
	assert.Equal(t, []string{"debate-message"}, frameEvents(eff.room))
}

func TestDebateJoinRoleWindows(t *testing.T) {
	c, store := debateFixture(t)
	activeDebate(t, c)

	// Debaters must be seated before the session activates.
	_, err := c.Join(Identity{ID: 1, Role: models.RoleParticipant}, debateEventID, models.RoleParticipant)
	assert.Equal(t, KindInvalidState, KindOf(err))

	// Audience members may come and go while it is active.
	eff, err := c.Join(Identity{ID: 2, Role: models.RoleAudience}, debateEventID, models.RoleAudience)
	require.NoError(t, err)
	assert.True(t, eff.joinRoom)
	assert.Equal(t, []string{"debate-joined"}, frameEvents(eff.caller))
	assert.Equal(t, []string{"debate-state"}, frameEvents(eff.room))

	sess, _ := store.LiveSession(debateEventID)
	member, _ := store.Member(sess.ID, 2)
	require.NotNil(t, member)
	assert.Equal(t, models.RoleAudience, member.Role)
}

func TestDebateStartRequiresDesignatedCoordinator(t *testing.T) {
	c, _ := debateFixture(t)

	_, err := c.Start(Identity{ID: 999, Role: models.RoleCoordinator}, debateEventID)
	assert.Equal(t, KindAuthorization, KindOf(err), "coordinator role alone is not enough")

	_, err = c.Start(Identity{ID: debateCoordinator, Role: models.RoleParticipant}, debateEventID)
	assert.Equal(t, KindAuthorization, KindOf(err))
}

func TestDebateStartActivatesOnce(t *testing.T) {
	c, store := debateFixture(t)

	eff := activeDebate(t, c)
	assert.True(t, eff.joinRoom)
	assert.Equal(t, []string{"debate-started"}, frameEvents(eff.room))

	sess, _ := store.LiveSession(debateEventID)
	require.NotNil(t, sess)
	assert.Equal(t, models.SessionStatusActive, sess.Status)

	member, _ := store.Member(sess.ID, debateCoordinator)
	require.NotNil(t, member)
	assert.Equal(t, models.RoleCoordinator, member.Role)

	_, err := c.Start(coordIdent(), debateEventID)
	assert.Equal(t, KindInvalidState, KindOf(err))
}

// seatedDebate seats participant 1 through Join, then starts the session.
func seatedDebate(t *testing.T, c *DebateCoordinator) {
	t.Helper()
	_, err := c.Join(Identity{ID: 1, Role: models.RoleParticipant}, debateEventID, models.RoleParticipant)
	require.NoError(t, err)
	activeDebate(t, c)
}

func TestDebateAssignSpeaker(t *testing.T) {
	c, store := debateFixture(t)
	seatedDebate(t, c)

	_, err := c.AssignSpeaker(coordIdent(), debateEventID, 1, 0)
	assert.Equal(t, KindValidation, KindOf(err), "timer must be positive")

	_, err = c.AssignSpeaker(coordIdent(), debateEventID, 2, 60)
	assert.Equal(t, KindNotFound, KindOf(err), "speaker must be a seated participant")

	eff, err := c.AssignSpeaker(coordIdent(), debateEventID, 1, 60)
	require.NoError(t, err)

	require.Equal(t, []string{"speaker-changed"}, frameEvents(eff.room))
	require.Len(t, eff.users, 1)
	assert.Equal(t, uint(1), eff.users[0].userID)
	assert.Equal(t, "your-turn", eff.users[0].event)

	sess, _ := store.LiveSession(debateEventID)
	require.NotNil(t, sess.CurrentSpeakerID)
	assert.Equal(t, uint(1), *sess.CurrentSpeakerID)
	assert.Equal(t, 1, sess.Round)
	require.NotNil(t, sess.SpeakerDeadline)
}

func TestDebateUpdateTimerClampsToServerRemainder(t *testing.T) {
	c, store := debateFixture(t)
	seatedDebate(t, c)

	_, err := c.AssignSpeaker(coordIdent(), debateEventID, 1, 60)
	require.NoError(t, err)

	// A tick claiming more time than remains is clamped, never extended.
	eff, err := c.UpdateTimer(coordIdent(), debateEventID, 300)
	require.NoError(t, err)
	require.Equal(t, []string{"timer-updated"}, frameEvents(eff.room))
	payload := eff.room[0].data.(map[string]interface{})
	assert.Equal(t, 60, payload["timer"])

	// A zero tick ends the turn.
	eff, err = c.UpdateTimer(coordIdent(), debateEventID, 0)
	require.NoError(t, err)
	require.Equal(t, []string{"speaker-changed"}, frameEvents(eff.room))

	sess, _ := store.LiveSession(debateEventID)
	assert.Nil(t, sess.CurrentSpeakerID)
	assert.Nil(t, sess.SpeakerDeadline)

	_, err = c.UpdateTimer(coordIdent(), debateEventID, 30)
	assert.Equal(t, KindInvalidState, KindOf(err), "no speaker has the floor")
}

func TestDebateAssignScoreAccumulates(t *testing.T) {
	c, store := debateFixture(t)
	activeDebate(t, c)

	_, err := c.AssignScore(coordIdent(), debateEventID, 99, 5, nil)
	assert.Equal(t, KindNotFound, KindOf(err), "unknown team")

	_, err = c.AssignScore(coordIdent(), debateEventID, 51, 3, map[string]int{"clarity": 3})
	require.NoError(t, err)

	eff, err := c.AssignScore(coordIdent(), debateEventID, 51, 2, map[string]int{"clarity": 2, "logic": 4})
	require.NoError(t, err)
	require.Equal(t, []string{"score-updated"}, frameEvents(eff.room))

	sess, _ := store.LiveSession(debateEventID)
	score, _ := store.TeamScore(sess.ID, 51)
	require.NotNil(t, score)
	assert.Equal(t, 5, score.Points)
	assert.Equal(t, map[string]int{"clarity": 5, "logic": 4}, score.Criteria)
}

func TestDebateMessageParticipantsOnly(t *testing.T) {
	c, store := debateFixture(t)
	seatedDebate(t, c)

	_, err := c.Join(Identity{ID: 2, Role: models.RoleAudience}, debateEventID, models.RoleAudience)
	require.NoError(t, err)

	_, err = c.Message(Identity{ID: 2, Role: models.RoleAudience}, debateEventID, "hello")
	assert.Equal(t, KindAuthorization, KindOf(err))

	_, err = c.Message(Identity{ID: 1, Role: models.RoleParticipant}, debateEventID, "")
	assert.Equal(t, KindValidation, KindOf(err))

	eff, err := c.Message(Identity{ID: 1, Name: "alice", Role: models.RoleParticipant}, debateEventID, "opening statement")
	require.NoError(t, err)
	require.Equal(t, []string{"debate-message"}, frameEvents(eff.room))
	require.Len(t, store.messages, 1)
	assert.Equal(t, "opening statement", store.messages[0].Content)
}

func TestDebateVoteAudienceOnly(t *testing.T) {
	c, store := debateFixture(t)
	seatedDebate(t, c)

	_, err := c.Join(Identity{ID: 2, Role: models.RoleAudience}, debateEventID, models.RoleAudience)
	require.NoError(t, err)

	_, err = c.Vote(Identity{ID: 2, Role: models.RoleAudience}, debateEventID, "boo")
	assert.Equal(t, KindValidation, KindOf(err), "unknown vote type")

	_, err = c.Vote(Identity{ID: 1, Role: models.RoleParticipant}, debateEventID, models.VoteTypeUpvote)
	assert.Equal(t, KindAuthorization, KindOf(err))

	eff, err := c.Vote(Identity{ID: 2, Role: models.RoleAudience}, debateEventID, models.VoteTypeUpvote)
	require.NoError(t, err)
	require.Equal(t, []string{"debate-vote"}, frameEvents(eff.room))
	require.Len(t, store.votes, 1)
	assert.Equal(t, models.VoteTypeUpvote, store.votes[0].VoteType)
}

func TestDebateLeaderboardCoordinatorOnlySortedByPoints(t *testing.T) {
	c, _ := debateFixture(t)
	activeDebate(t, c)

	_, err := c.AssignScore(coordIdent(), debateEventID, 51, 3, nil)
	require.NoError(t, err)
	_, err = c.AssignScore(coordIdent(), debateEventID, 52, 8, nil)
	require.NoError(t, err)

	_, err = c.Leaderboard(Identity{ID: 2, Role: models.RoleAudience}, debateEventID)
	assert.Equal(t, KindAuthorization, KindOf(err))

	eff, err := c.Leaderboard(coordIdent(), debateEventID)
	require.NoError(t, err)
	payload := eff.room[0].data.(map[string]interface{})
	scores := payload["scores"].([]models.DebateTeamScore)
	require.Len(t, scores, 2)
	assert.Equal(t, uint(52), scores[0].TeamID)
	assert.Equal(t, uint(51), scores[1].TeamID)
}

func TestDebateEndIsTerminal(t *testing.T) {
	c, store := debateFixture(t)
	seatedDebate(t, c)

	_, err := c.AssignSpeaker(coordIdent(), debateEventID, 1, 60)
	require.NoError(t, err)

	eff, err := c.End(coordIdent(), debateEventID)
	require.NoError(t, err)
	require.Equal(t, []string{"debate-ended"}, frameEvents(eff.room))

	latest, _ := store.LatestSession(debateEventID)
	assert.Equal(t, models.SessionStatusFinished, latest.Status)
	assert.Nil(t, latest.CurrentSpeakerID)
	assert.Nil(t, latest.SpeakerDeadline)

	_, err = c.Message(Identity{ID: 1, Role: models.RoleParticipant}, debateEventID, "too late")
	assert.Equal(t, KindInvalidState, KindOf(err))
}
