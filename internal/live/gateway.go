package live

import (
	"encoding/json"
	"log"

	"github.com/yashikaparyani/event-management-backend/internal/models"
)

// Gateway is the connection lifecycle manager: it owns the per-activity
// hubs, pumps inbound frames, routes them to the coordinators and applies
// the resulting effects. Every failure is reported to the offending caller
// only; a broken frame or a panicking handler never takes down the loop or
// leaks into other rooms.
type Gateway struct {
	quiz   *QuizCoordinator
	debate *DebateCoordinator

	quizRooms   *Hub
	debateRooms *Hub
}

func NewGateway(quiz *QuizCoordinator, debate *DebateCoordinator) *Gateway {
	return &Gateway{
		quiz:        quiz,
		debate:      debate,
		quizRooms:   NewHub(),
		debateRooms: NewHub(),
	}
}

func (g *Gateway) QuizRooms() *Hub   { return g.quizRooms }
func (g *Gateway) DebateRooms() *Hub { return g.debateRooms }

// inbound is a raw frame before payload decoding.
type inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type quizJoinPayload struct {
	QuizID  uint `json:"quizId"`
	UserID  uint `json:"userId"`
	EventID uint `json:"eventId"`
}

type quizActionPayload struct {
	QuizID uint `json:"quizId"`
	UserID uint `json:"userId"`
}

type quizAnswerPayload struct {
	QuizID         uint `json:"quizId"`
	UserID         uint `json:"userId"`
	QuestionIndex  int  `json:"questionIndex"`
	SelectedOption int  `json:"selectedOption"`
	TimeTaken      int  `json:"timeTaken"`
}

type debateJoinPayload struct {
	EventID uint        `json:"eventId"`
	UserID  uint        `json:"userId"`
	Role    models.Role `json:"role"`
}

type debateActionPayload struct {
	EventID uint `json:"eventId"`
	UserID  uint `json:"userId"`
}

type debateSpeakerPayload struct {
	EventID   uint `json:"eventId"`
	UserID    uint `json:"userId"`
	SpeakerID uint `json:"speakerId"`
	Timer     int  `json:"timer"`
}

type debateTimerPayload struct {
	EventID   uint `json:"eventId"`
	UserID    uint `json:"userId"`
	Remaining int  `json:"remaining"`
}

type debateScorePayload struct {
	EventID  uint           `json:"eventId"`
	UserID   uint           `json:"userId"`
	TeamID   uint           `json:"teamId"`
	Points   int            `json:"points"`
	Criteria map[string]int `json:"criteria"`
}

type debateMessagePayload struct {
	EventID uint   `json:"eventId"`
	UserID  uint   `json:"userId"`
	Content string `json:"content"`
}

type debateVotePayload struct {
	EventID  uint   `json:"eventId"`
	UserID   uint   `json:"userId"`
	VoteType string `json:"voteType"`
}

// ServeQuiz pumps one quiz connection until it closes, then drops it from
// its room. Disconnect does not abort an in-flight operation.
func (g *Gateway) ServeQuiz(client *Client) {
	defer func() {
		g.quizRooms.Leave(client)
		client.Close()
	}()

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			return
		}
		g.handleFrame(client, data, g.quizRooms, "error", g.routeQuiz)
	}
}

// ServeDebate pumps one debate connection until it closes.
func (g *Gateway) ServeDebate(client *Client) {
	defer func() {
		g.debateRooms.Leave(client)
		client.Close()
	}()

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			return
		}
		g.handleFrame(client, data, g.debateRooms, "debate-error", g.routeDebate)
	}
}

// handleFrame decodes, routes, and applies one inbound frame. Panics are
// converted to a generic error frame so one bad action cannot kill the
// connection loop.
func (g *Gateway) handleFrame(client *Client, data []byte, hub *Hub, errEvent string, route func(*Client, inbound) (*Effects, error)) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("live: recovered from panic in handler: %v", r)
			client.Send(errEvent, map[string]string{"message": "internal error"})
		}
	}()

	var msg inbound
	if err := json.Unmarshal(data, &msg); err != nil || msg.Event == "" {
		client.Send(errEvent, map[string]string{"message": "malformed frame"})
		return
	}

	effects, err := route(client, msg)
	if err != nil {
		g.reportError(client, errEvent, err)
		return
	}
	if effects != nil {
		g.apply(hub, client, effects)
	}
}

// reportError shapes the caller-only error frame. Persistence failures are
// logged with their cause and reported generically.
func (g *Gateway) reportError(client *Client, errEvent string, err error) {
	if KindOf(err) == KindPersistence {
		log.Printf("live: persistence failure: %v", err)
	}
	client.Send(errEvent, map[string]string{"message": err.Error()})
}

// apply executes effects in order: room join first so the caller receives
// the broadcasts its own action produced.
func (g *Gateway) apply(hub *Hub, client *Client, effects *Effects) {
	if effects.joinRoom {
		hub.Join(effects.roomID, client)
	}
	for _, f := range effects.caller {
		client.Send(f.event, f.data)
	}
	for _, f := range effects.room {
		hub.Broadcast(effects.roomID, f.event, f.data)
	}
	for _, f := range effects.users {
		hub.UnicastUser(effects.roomID, f.userID, f.event, f.data)
	}
}

// claimedUser rejects payloads that claim an identity other than the
// authenticated one. A zero user id in the payload defers to the token.
func claimedUser(client *Client, userID uint) error {
	if userID != 0 && userID != client.User.ID {
		return Unauthorized("payload user does not match the authenticated user")
	}
	return nil
}

func (g *Gateway) routeQuiz(client *Client, msg inbound) (*Effects, error) {
	switch msg.Event {
	case "join-quiz":
		var p quizJoinPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return nil, Invalid("malformed join-quiz payload")
		}
		if err := claimedUser(client, p.UserID); err != nil {
			return nil, err
		}
		return g.quiz.Join(client.User, p.QuizID, p.EventID)

	case "start-quiz":
		var p quizActionPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return nil, Invalid("malformed start-quiz payload")
		}
		if err := claimedUser(client, p.UserID); err != nil {
			return nil, err
		}
		return g.quiz.Start(client.User, p.QuizID)

	case "submit-answer":
		var p quizAnswerPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return nil, Invalid("malformed submit-answer payload")
		}
		if err := claimedUser(client, p.UserID); err != nil {
			return nil, err
		}
		return g.quiz.SubmitAnswer(client.User, p.QuizID, p.QuestionIndex, p.SelectedOption, p.TimeTaken)

	case "next-question":
		var p quizActionPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return nil, Invalid("malformed next-question payload")
		}
		if err := claimedUser(client, p.UserID); err != nil {
			return nil, err
		}
		return g.quiz.Next(client.User, p.QuizID)

	case "show-leaderboard":
		var p quizActionPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return nil, Invalid("malformed show-leaderboard payload")
		}
		if err := claimedUser(client, p.UserID); err != nil {
			return nil, err
		}
		return g.quiz.Leaderboard(p.QuizID)
	}

	return nil, Invalid("unknown event: " + msg.Event)
}

func (g *Gateway) routeDebate(client *Client, msg inbound) (*Effects, error) {
	switch msg.Event {
	case "join-debate":
		var p debateJoinPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return nil, Invalid("malformed join-debate payload")
		}
		if err := claimedUser(client, p.UserID); err != nil {
			return nil, err
		}
		return g.debate.Join(client.User, p.EventID, p.Role)

	case "start-debate":
		var p debateActionPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return nil, Invalid("malformed start-debate payload")
		}
		if err := claimedUser(client, p.UserID); err != nil {
			return nil, err
		}
		return g.debate.Start(client.User, p.EventID)

	case "assign-speaker":
		var p debateSpeakerPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return nil, Invalid("malformed assign-speaker payload")
		}
		if err := claimedUser(client, p.UserID); err != nil {
			return nil, err
		}
		return g.debate.AssignSpeaker(client.User, p.EventID, p.SpeakerID, p.Timer)

	case "end-turn":
		var p debateActionPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return nil, Invalid("malformed end-turn payload")
		}
		if err := claimedUser(client, p.UserID); err != nil {
			return nil, err
		}
		return g.debate.EndTurn(client.User, p.EventID)

	case "timer-update":
		var p debateTimerPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return nil, Invalid("malformed timer-update payload")
		}
		if err := claimedUser(client, p.UserID); err != nil {
			return nil, err
		}
		return g.debate.UpdateTimer(client.User, p.EventID, p.Remaining)

	case "assign-score":
		var p debateScorePayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return nil, Invalid("malformed assign-score payload")
		}
		if err := claimedUser(client, p.UserID); err != nil {
			return nil, err
		}
		return g.debate.AssignScore(client.User, p.EventID, p.TeamID, p.Points, p.Criteria)

	case "send-debate-message":
		var p debateMessagePayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return nil, Invalid("malformed send-debate-message payload")
		}
		if err := claimedUser(client, p.UserID); err != nil {
			return nil, err
		}
		return g.debate.Message(client.User, p.EventID, p.Content)

	case "send-vote":
		var p debateVotePayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return nil, Invalid("malformed send-vote payload")
		}
		if err := claimedUser(client, p.UserID); err != nil {
			return nil, err
		}
		return g.debate.Vote(client.User, p.EventID, p.VoteType)

	case "show-leaderboard":
		var p debateActionPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return nil, Invalid("malformed show-leaderboard payload")
		}
		if err := claimedUser(client, p.UserID); err != nil {
			return nil, err
		}
		return g.debate.Leaderboard(client.User, p.EventID)

	case "end-debate":
		var p debateActionPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return nil, Invalid("malformed end-debate payload")
		}
		if err := claimedUser(client, p.UserID); err != nil {
			return nil, err
		}
		return g.debate.End(client.User, p.EventID)
	}

	return nil, Invalid("unknown event: " + msg.Event)
}
