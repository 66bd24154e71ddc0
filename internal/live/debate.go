package live

import (
	"fmt"
	"sort"
	"time"

	"github.com/yashikaparyani/event-management-backend/internal/models"
)

// DebateCoordinator drives live debate sessions. Only the debate's
// designated coordinator may start/end the session, assign speakers,
// adjust the timer, award scores or reveal the leaderboard; participants
// send messages, audience members send votes.
type DebateCoordinator struct {
	store DebateStore
	dir   Directory
	locks *sessionLocks
	now   func() time.Time
}

func NewDebateCoordinator(store DebateStore, dir Directory) *DebateCoordinator {
	return &DebateCoordinator{
		store: store,
		dir:   dir,
		locks: newSessionLocks(),
		now:   time.Now,
	}
}

func (c *DebateCoordinator) lockSession(eventID uint) func() {
	return c.locks.acquire(fmt.Sprintf("debate:%d", eventID))
}

// debate loads the debate definition for the event, or NotFound.
func (c *DebateCoordinator) debate(eventID uint) (*models.Debate, error) {
	debate, err := c.store.DebateByEvent(eventID)
	if err != nil {
		return nil, PersistenceFailure(err)
	}
	if debate == nil {
		return nil, NotFound("debate not found for this event")
	}
	return debate, nil
}

// authorize enforces the coordinator rule shared by every mutating
// operation: the caller must hold the coordinator role and be the debate's
// designated coordinator.
func (c *DebateCoordinator) authorize(user Identity, debate *models.Debate) error {
	if user.Role != models.RoleCoordinator || user.ID != debate.CoordinatorID {
		return Unauthorized("only the debate coordinator may do this")
	}
	return nil
}

// remainingSec derives the speaker's remaining time from the stored
// deadline. The server clock is authoritative; client ticks never extend it.
func (c *DebateCoordinator) remainingSec(session *models.DebateSession) int {
	if session.CurrentSpeakerID == nil || session.SpeakerDeadline == nil {
		return 0
	}
	remaining := int(session.SpeakerDeadline.Sub(c.now()).Round(time.Second).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

type debateState struct {
	EventID        uint                     `json:"eventId"`
	Status         string                   `json:"status"`
	Round          int                      `json:"round"`
	CurrentSpeaker *uint                    `json:"currentSpeakerId"`
	Timer          int                      `json:"timer"`
	Participants   []memberPayload          `json:"participants"`
	Audience       []memberPayload          `json:"audience"`
	Scores         []models.DebateTeamScore `json:"scores"`
	Topics         []string                 `json:"topics"`
}

type memberPayload struct {
	UserID uint   `json:"userId"`
	Name   string `json:"name"`
}

func (c *DebateCoordinator) state(debate *models.Debate, session *models.DebateSession) (*debateState, error) {
	members, err := c.store.Members(session.ID)
	if err != nil {
		return nil, PersistenceFailure(err)
	}
	scores, err := c.store.Scores(session.ID)
	if err != nil {
		return nil, PersistenceFailure(err)
	}

	st := &debateState{
		EventID:        session.EventID,
		Status:         session.Status,
		Round:          session.Round,
		CurrentSpeaker: session.CurrentSpeakerID,
		Timer:          c.remainingSec(session),
		Participants:   []memberPayload{},
		Audience:       []memberPayload{},
		Scores:         scores,
		Topics:         debate.Topics,
	}

	for _, m := range members {
		p := memberPayload{UserID: m.UserID}
		if ident, err := c.dir.User(m.UserID); err == nil && ident != nil {
			p.Name = ident.Name
		}
		switch m.Role {
		case models.RoleAudience:
			st.Audience = append(st.Audience, p)
		case models.RoleParticipant:
			st.Participants = append(st.Participants, p)
		}
	}
	return st, nil
}

// joinableStatus says which session states admit a join for a given role.
// Debaters must be in place before the debate starts; audience members and
// the coordinator can come and go until the session finishes.
func joinableStatus(role models.Role, status string) bool {
	switch role {
	case models.RoleParticipant:
		return status == models.SessionStatusWaiting
	case models.RoleAudience, models.RoleCoordinator:
		return status == models.SessionStatusWaiting || status == models.SessionStatusActive
	}
	return false
}

// Join validates the declared role against the caller's stored role (a
// spoofed role claim is an authorization failure, not a validation one),
// then adds the caller to the session under that role. The first join
// lazily creates the session in waiting, so debaters can be seated before
// the coordinator starts it.
func (c *DebateCoordinator) Join(user Identity, eventID uint, declaredRole models.Role) (*Effects, error) {
	if declaredRole != user.Role {
		return nil, Unauthorized("declared role does not match your account role")
	}

	debate, err := c.debate(eventID)
	if err != nil {
		return nil, err
	}

	unlock := c.lockSession(eventID)
	defer unlock()

	session, perr := c.store.LiveSession(eventID)
	if perr != nil {
		return nil, PersistenceFailure(perr)
	}
	if session == nil {
		session = &models.DebateSession{
			DebateID: debate.ID,
			EventID:  eventID,
			Status:   models.SessionStatusWaiting,
		}
		if err := c.store.CreateSession(session); err != nil {
			return nil, PersistenceFailure(err)
		}
	}
	if !joinableStatus(declaredRole, session.Status) {
		return nil, InvalidState("debate is not accepting " + string(declaredRole) + " joins right now")
	}

	if err := c.store.AddMember(session.ID, user.ID, declaredRole); err != nil {
		return nil, PersistenceFailure(err)
	}

	st, err := c.state(debate, session)
	if err != nil {
		return nil, err
	}

	return newEffects(session.ID).JoinRoom().
		ToCaller("debate-joined", st).
		ToRoom("debate-state", st), nil
}

// Start opens the session: creates it if absent, activates it from
// waiting. Coordinator only.
func (c *DebateCoordinator) Start(user Identity, eventID uint) (*Effects, error) {
	debate, err := c.debate(eventID)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(user, debate); err != nil {
		return nil, err
	}

	unlock := c.lockSession(eventID)
	defer unlock()

	session, perr := c.store.LiveSession(eventID)
	if perr != nil {
		return nil, PersistenceFailure(perr)
	}

	now := c.now()
	switch {
	case session == nil:
		session = &models.DebateSession{
			DebateID:  debate.ID,
			EventID:   eventID,
			Status:    models.SessionStatusActive,
			StartedAt: &now,
		}
		if err := c.store.CreateSession(session); err != nil {
			return nil, PersistenceFailure(err)
		}
	case session.Status == models.SessionStatusWaiting:
		session.Status = models.SessionStatusActive
		session.StartedAt = &now
		if err := c.store.SaveSession(session); err != nil {
			return nil, PersistenceFailure(err)
		}
	default:
		return nil, InvalidState("debate already active")
	}

	if err := c.store.AddMember(session.ID, user.ID, models.RoleCoordinator); err != nil {
		return nil, PersistenceFailure(err)
	}

	st, err := c.state(debate, session)
	if err != nil {
		return nil, err
	}
	return newEffects(session.ID).JoinRoom().ToRoom("debate-started", st), nil
}

// AssignSpeaker hands the floor to a participant for a positive number of
// seconds. The deadline is stored server-side; broadcasts carry derived
// seconds only.
func (c *DebateCoordinator) AssignSpeaker(user Identity, eventID, speakerID uint, timerSec int) (*Effects, error) {
	if timerSec <= 0 {
		return nil, Invalid("timer must be a positive number of seconds")
	}

	debate, err := c.debate(eventID)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(user, debate); err != nil {
		return nil, err
	}

	unlock := c.lockSession(eventID)
	defer unlock()

	session, perr := c.store.LiveSession(eventID)
	if perr != nil {
		return nil, PersistenceFailure(perr)
	}
	if session == nil || session.Status != models.SessionStatusActive {
		return nil, InvalidState("no active debate session")
	}

	speaker, perr := c.store.Member(session.ID, speakerID)
	if perr != nil {
		return nil, PersistenceFailure(perr)
	}
	if speaker == nil || speaker.Role != models.RoleParticipant {
		return nil, NotFound("speaker is not a debate participant")
	}

	deadline := c.now().Add(time.Duration(timerSec) * time.Second)
	session.CurrentSpeakerID = &speakerID
	session.SpeakerDeadline = &deadline
	session.Round++
	if err := c.store.SaveSession(session); err != nil {
		return nil, PersistenceFailure(err)
	}

	return newEffects(session.ID).
		ToRoom("speaker-changed", map[string]interface{}{
			"speakerId": speakerID,
			"timer":     timerSec,
			"round":     session.Round,
		}).
		ToUser(speakerID, "your-turn", map[string]interface{}{
			"timer": timerSec,
		}), nil
}

// EndTurn clears the floor. Coordinator only.
func (c *DebateCoordinator) EndTurn(user Identity, eventID uint) (*Effects, error) {
	debate, err := c.debate(eventID)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(user, debate); err != nil {
		return nil, err
	}

	unlock := c.lockSession(eventID)
	defer unlock()

	session, perr := c.store.LiveSession(eventID)
	if perr != nil {
		return nil, PersistenceFailure(perr)
	}
	if session == nil || session.Status != models.SessionStatusActive {
		return nil, InvalidState("no active debate session")
	}

	session.CurrentSpeakerID = nil
	session.SpeakerDeadline = nil
	if err := c.store.SaveSession(session); err != nil {
		return nil, PersistenceFailure(err)
	}

	return newEffects(session.ID).ToRoom("speaker-changed", map[string]interface{}{
		"speakerId": nil,
		"timer":     0,
	}), nil
}

// UpdateTimer accepts a coordinator-pushed countdown tick. The value is
// clamped to the server-derived remainder, so a client can shorten a turn
// but never stretch it. A tick at or below zero ends the turn.
func (c *DebateCoordinator) UpdateTimer(user Identity, eventID uint, remaining int) (*Effects, error) {
	if remaining < 0 {
		return nil, Invalid("timer must not be negative")
	}

	debate, err := c.debate(eventID)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(user, debate); err != nil {
		return nil, err
	}

	unlock := c.lockSession(eventID)
	defer unlock()

	session, perr := c.store.LiveSession(eventID)
	if perr != nil {
		return nil, PersistenceFailure(perr)
	}
	if session == nil || session.Status != models.SessionStatusActive {
		return nil, InvalidState("no active debate session")
	}
	if session.CurrentSpeakerID == nil {
		return nil, InvalidState("no speaker has the floor")
	}

	if server := c.remainingSec(session); remaining > server {
		remaining = server
	}

	if remaining <= 0 {
		session.CurrentSpeakerID = nil
		session.SpeakerDeadline = nil
		if err := c.store.SaveSession(session); err != nil {
			return nil, PersistenceFailure(err)
		}
		return newEffects(session.ID).ToRoom("speaker-changed", map[string]interface{}{
			"speakerId": nil,
			"timer":     0,
		}), nil
	}

	deadline := c.now().Add(time.Duration(remaining) * time.Second)
	session.SpeakerDeadline = &deadline
	if err := c.store.SaveSession(session); err != nil {
		return nil, PersistenceFailure(err)
	}

	return newEffects(session.ID).ToRoom("timer-updated", map[string]interface{}{
		"speakerId": *session.CurrentSpeakerID,
		"timer":     remaining,
	}), nil
}

// AssignScore accumulates points for a team and merges the criteria
// breakdown additively. Coordinator only, active session required.
func (c *DebateCoordinator) AssignScore(user Identity, eventID, teamID uint, points int, criteria map[string]int) (*Effects, error) {
	debate, err := c.debate(eventID)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(user, debate); err != nil {
		return nil, err
	}

	team := false
	for _, t := range debate.Teams {
		if t.ID == teamID {
			team = true
			break
		}
	}
	if !team {
		return nil, NotFound("team is not registered for this debate")
	}

	unlock := c.lockSession(eventID)
	defer unlock()

	session, perr := c.store.LiveSession(eventID)
	if perr != nil {
		return nil, PersistenceFailure(perr)
	}
	if session == nil || session.Status != models.SessionStatusActive {
		return nil, InvalidState("no active debate session")
	}

	score, perr := c.store.TeamScore(session.ID, teamID)
	if perr != nil {
		return nil, PersistenceFailure(perr)
	}
	if score == nil {
		score = &models.DebateTeamScore{
			SessionID: session.ID,
			TeamID:    teamID,
			Criteria:  map[string]int{},
		}
	}
	if score.Criteria == nil {
		score.Criteria = map[string]int{}
	}

	score.Points += points
	for name, value := range criteria {
		score.Criteria[name] += value
	}
	if err := c.store.SaveTeamScore(score); err != nil {
		return nil, PersistenceFailure(err)
	}

	scores, perr := c.store.Scores(session.ID)
	if perr != nil {
		return nil, PersistenceFailure(perr)
	}

	return newEffects(session.ID).ToRoom("score-updated", map[string]interface{}{
		"eventId": eventID,
		"scores":  scores,
	}), nil
}

// Message appends a debater's message to the log and broadcasts only the
// new entry. Participants only.
func (c *DebateCoordinator) Message(user Identity, eventID uint, content string) (*Effects, error) {
	if content == "" {
		return nil, Invalid("message content must not be empty")
	}

	if _, err := c.debate(eventID); err != nil {
		return nil, err
	}

	unlock := c.lockSession(eventID)
	defer unlock()

	session, perr := c.store.LiveSession(eventID)
	if perr != nil {
		return nil, PersistenceFailure(perr)
	}
	if session == nil || session.Status != models.SessionStatusActive {
		return nil, InvalidState("no active debate session")
	}

	member, perr := c.store.Member(session.ID, user.ID)
	if perr != nil {
		return nil, PersistenceFailure(perr)
	}
	if member == nil || member.Role != models.RoleParticipant {
		return nil, Unauthorized("only debate participants may send messages")
	}

	msg := models.DebateMessage{
		SessionID: session.ID,
		SenderID:  user.ID,
		Role:      member.Role,
		Content:   content,
		CreatedAt: c.now(),
	}
	if err := c.store.AppendMessage(&msg); err != nil {
		return nil, PersistenceFailure(err)
	}

	return newEffects(session.ID).ToRoom("debate-message", map[string]interface{}{
		"senderId":  user.ID,
		"name":      user.Name,
		"content":   content,
		"timestamp": msg.CreatedAt,
	}), nil
}

func validVoteType(voteType string) bool {
	switch voteType {
	case models.VoteTypeUpvote, models.VoteTypeDownvote, models.VoteTypeLike, models.VoteTypeDislike:
		return true
	}
	return false
}

// Vote appends an audience reaction. Audience only.
func (c *DebateCoordinator) Vote(user Identity, eventID uint, voteType string) (*Effects, error) {
	if !validVoteType(voteType) {
		return nil, Invalid("unknown vote type")
	}

	if _, err := c.debate(eventID); err != nil {
		return nil, err
	}

	unlock := c.lockSession(eventID)
	defer unlock()

	session, perr := c.store.LiveSession(eventID)
	if perr != nil {
		return nil, PersistenceFailure(perr)
	}
	if session == nil || session.Status != models.SessionStatusActive {
		return nil, InvalidState("no active debate session")
	}

	member, perr := c.store.Member(session.ID, user.ID)
	if perr != nil {
		return nil, PersistenceFailure(perr)
	}
	if member == nil || member.Role != models.RoleAudience {
		return nil, Unauthorized("only audience members may vote")
	}

	vote := models.DebateVote{
		SessionID: session.ID,
		VoterID:   user.ID,
		VoteType:  voteType,
		CreatedAt: c.now(),
	}
	if err := c.store.AppendVote(&vote); err != nil {
		return nil, PersistenceFailure(err)
	}

	return newEffects(session.ID).ToRoom("debate-vote", map[string]interface{}{
		"voterId":   user.ID,
		"voteType":  voteType,
		"timestamp": vote.CreatedAt,
	}), nil
}

// Leaderboard broadcasts the scoreboard sorted by total points descending.
// Coordinator only; pure read.
func (c *DebateCoordinator) Leaderboard(user Identity, eventID uint) (*Effects, error) {
	debate, err := c.debate(eventID)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(user, debate); err != nil {
		return nil, err
	}

	session, perr := c.store.LatestSession(eventID)
	if perr != nil {
		return nil, PersistenceFailure(perr)
	}
	if session == nil {
		return nil, NotFound("debate session not found")
	}

	scores, perr := c.store.Scores(session.ID)
	if perr != nil {
		return nil, PersistenceFailure(perr)
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Points > scores[j].Points
	})

	return newEffects(session.ID).ToRoom("leaderboard", map[string]interface{}{
		"eventId": eventID,
		"scores":  scores,
	}), nil
}

// End finishes the session. Terminal: no further mutations are accepted.
func (c *DebateCoordinator) End(user Identity, eventID uint) (*Effects, error) {
	debate, err := c.debate(eventID)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(user, debate); err != nil {
		return nil, err
	}

	unlock := c.lockSession(eventID)
	defer unlock()

	session, perr := c.store.LiveSession(eventID)
	if perr != nil {
		return nil, PersistenceFailure(perr)
	}
	if session == nil {
		return nil, InvalidState("no open debate session")
	}

	now := c.now()
	session.Status = models.SessionStatusFinished
	session.CurrentSpeakerID = nil
	session.SpeakerDeadline = nil
	session.EndedAt = &now
	if err := c.store.SaveSession(session); err != nil {
		return nil, PersistenceFailure(err)
	}

	st, err := c.state(debate, session)
	if err != nil {
		return nil, err
	}
	return newEffects(session.ID).ToRoom("debate-ended", st), nil
}
