package live

import (
	"fmt"
	"sort"
	"time"

	"github.com/yashikaparyani/event-management-backend/internal/models"
)

// QuizCoordinator drives live quiz sessions: waiting -> active -> finished,
// one question at a time. Every operation validates fully before it writes
// anything, and mutating operations run under the session's lock.
type QuizCoordinator struct {
	store QuizStore
	dir   Directory
	locks *sessionLocks
	now   func() time.Time
}

func NewQuizCoordinator(store QuizStore, dir Directory) *QuizCoordinator {
	return &QuizCoordinator{
		store: store,
		dir:   dir,
		locks: newSessionLocks(),
		now:   time.Now,
	}
}

type questionPayload struct {
	QuestionIndex int      `json:"questionIndex"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	Timer         int      `json:"timer"`
}

// questionFor builds the participant-facing payload. The correct option
// index never leaves the server.
func questionFor(quiz *models.Quiz, index int) questionPayload {
	q := quiz.Questions[index]
	return questionPayload{
		QuestionIndex: index,
		Question:      q.Text,
		Options:       q.Options,
		Timer:         q.TimerSec,
	}
}

func (c *QuizCoordinator) lockSession(quizID, eventID uint) func() {
	return c.locks.acquire(fmt.Sprintf("quiz:%d:%d", quizID, eventID))
}

// Join finds or lazily creates the one live session for (quiz, event) and
// adds the caller to it. Rejoining is idempotent.
func (c *QuizCoordinator) Join(user Identity, quizID, eventID uint) (*Effects, error) {
	quiz, err := c.store.Quiz(quizID)
	if err != nil {
		return nil, PersistenceFailure(err)
	}
	if quiz == nil {
		return nil, NotFound("quiz not found")
	}
	if eventID != quiz.EventID {
		return nil, NotFound("quiz does not belong to this event")
	}

	unlock := c.lockSession(quizID, eventID)
	defer unlock()

	session, err := c.store.LiveSession(quizID, eventID)
	if err != nil {
		return nil, PersistenceFailure(err)
	}
	if session == nil {
		session = &models.QuizSession{
			QuizID:          quizID,
			EventID:         eventID,
			Status:          models.SessionStatusWaiting,
			CurrentQuestion: -1,
		}
		if err := c.store.CreateSession(session); err != nil {
			return nil, PersistenceFailure(err)
		}
	}

	if err := c.store.AddParticipant(session.ID, user.ID); err != nil {
		return nil, PersistenceFailure(err)
	}

	eff := newEffects(session.ID).JoinRoom().ToCaller("quiz-joined", map[string]interface{}{
		"quizId":          quizID,
		"sessionId":       session.ID,
		"status":          session.Status,
		"currentQuestion": session.CurrentQuestion,
		"totalQuestions":  len(quiz.Questions),
	})

	if session.Status == models.SessionStatusActive &&
		session.CurrentQuestion >= 0 && session.CurrentQuestion < len(quiz.Questions) {
		eff.ToCaller("current-question", questionFor(quiz, session.CurrentQuestion))
	}

	return eff, nil
}

// Start transitions the session to active and pushes the first question.
// Coordinator only.
func (c *QuizCoordinator) Start(user Identity, quizID uint) (*Effects, error) {
	if user.Role != models.RoleCoordinator {
		return nil, Unauthorized("only the coordinator can start the quiz")
	}

	quiz, err := c.store.Quiz(quizID)
	if err != nil {
		return nil, PersistenceFailure(err)
	}
	if quiz == nil {
		return nil, NotFound("quiz not found")
	}
	if len(quiz.Questions) == 0 {
		return nil, InvalidState("quiz has no questions")
	}

	unlock := c.lockSession(quizID, quiz.EventID)
	defer unlock()

	session, err := c.store.LiveSession(quizID, quiz.EventID)
	if err != nil {
		return nil, PersistenceFailure(err)
	}
	if session == nil {
		return nil, NotFound("quiz session not found")
	}
	if session.Status != models.SessionStatusWaiting {
		return nil, InvalidState("quiz already started")
	}

	now := c.now()
	session.Status = models.SessionStatusActive
	session.StartedAt = &now
	session.CurrentQuestion = 0
	if err := c.store.SaveSession(session); err != nil {
		return nil, PersistenceFailure(err)
	}

	return newEffects(session.ID).
		ToRoom("quiz-started", map[string]interface{}{
			"quizId":         quizID,
			"totalQuestions": len(quiz.Questions),
		}).
		ToRoom("current-question", questionFor(quiz, 0)), nil
}

// SubmitAnswer grades the caller's answer against the stored correct index
// and appends it to the answer log. The log keeps the first submission per
// (participant, question); resubmissions are rejected. Only the caller
// learns the verdict.
func (c *QuizCoordinator) SubmitAnswer(user Identity, quizID uint, questionIndex, selectedOption, timeTaken int) (*Effects, error) {
	if timeTaken < 0 {
		return nil, Invalid("timeTaken must not be negative")
	}

	quiz, err := c.store.Quiz(quizID)
	if err != nil {
		return nil, PersistenceFailure(err)
	}
	if quiz == nil {
		return nil, NotFound("quiz not found")
	}

	unlock := c.lockSession(quizID, quiz.EventID)
	defer unlock()

	session, err := c.store.LiveSession(quizID, quiz.EventID)
	if err != nil {
		return nil, PersistenceFailure(err)
	}
	if session == nil || session.Status != models.SessionStatusActive {
		return nil, InvalidState("no active quiz session")
	}
	if questionIndex < 0 || questionIndex >= len(quiz.Questions) {
		return nil, InvalidState("question index out of range")
	}

	question := quiz.Questions[questionIndex]
	if selectedOption < 0 || selectedOption >= len(question.Options) {
		return nil, Invalid("selected option out of range")
	}

	member, err := c.store.IsParticipant(session.ID, user.ID)
	if err != nil {
		return nil, PersistenceFailure(err)
	}
	if !member {
		return nil, Unauthorized("join the quiz before answering")
	}

	answered, err := c.store.HasAnswer(session.ID, user.ID, questionIndex)
	if err != nil {
		return nil, PersistenceFailure(err)
	}
	if answered {
		return nil, InvalidState("answer already submitted for this question")
	}

	isCorrect := selectedOption == question.CorrectIndex
	answer := models.QuizAnswer{
		SessionID:      session.ID,
		UserID:         user.ID,
		QuestionIndex:  questionIndex,
		SelectedOption: selectedOption,
		IsCorrect:      isCorrect,
		TimeTakenSec:   timeTaken,
		AnsweredAt:     c.now(),
	}
	if err := c.store.AppendAnswer(&answer); err != nil {
		return nil, PersistenceFailure(err)
	}

	return newEffects(session.ID).ToCaller("answer-submitted", map[string]interface{}{
		"questionIndex": questionIndex,
		"isCorrect":     isCorrect,
	}), nil
}

// Next advances the question cursor by one; past the last question it
// finishes the session. Coordinator only.
func (c *QuizCoordinator) Next(user Identity, quizID uint) (*Effects, error) {
	if user.Role != models.RoleCoordinator {
		return nil, Unauthorized("only the coordinator can advance the quiz")
	}

	quiz, err := c.store.Quiz(quizID)
	if err != nil {
		return nil, PersistenceFailure(err)
	}
	if quiz == nil {
		return nil, NotFound("quiz not found")
	}

	unlock := c.lockSession(quizID, quiz.EventID)
	defer unlock()

	session, err := c.store.LiveSession(quizID, quiz.EventID)
	if err != nil {
		return nil, PersistenceFailure(err)
	}
	if session == nil || session.Status != models.SessionStatusActive {
		return nil, InvalidState("no active quiz session")
	}

	session.CurrentQuestion++
	if session.CurrentQuestion >= len(quiz.Questions) {
		// Cursor freezes at the last question; the session is terminal.
		session.CurrentQuestion = len(quiz.Questions) - 1
		session.Status = models.SessionStatusFinished
		now := c.now()
		session.EndedAt = &now
		if err := c.store.SaveSession(session); err != nil {
			return nil, PersistenceFailure(err)
		}
		return newEffects(session.ID).ToRoom("quiz-finished", map[string]interface{}{
			"quizId": quizID,
		}), nil
	}

	if err := c.store.SaveSession(session); err != nil {
		return nil, PersistenceFailure(err)
	}
	return newEffects(session.ID).ToRoom("current-question", questionFor(quiz, session.CurrentQuestion)), nil
}

// QuizStanding is one leaderboard row.
type QuizStanding struct {
	UserID        uint    `json:"userId"`
	Name          string  `json:"name"`
	CorrectCount  int     `json:"correctCount"`
	TotalAnswered int     `json:"totalAnswered"`
	TotalTimeSec  int     `json:"totalTimeTaken"`
	Accuracy      float64 `json:"accuracy"`
}

// ComputeQuizStandings aggregates an answer log, counting only the first
// entry per (participant, question) so a log that predates the
// reject-duplicate policy still scores each question once. Sort order:
// correct answers descending, then total time ascending.
func ComputeQuizStandings(answers []models.QuizAnswer) []QuizStanding {
	type key struct {
		user     uint
		question int
	}
	seen := make(map[key]struct{})
	byUser := make(map[uint]*QuizStanding)
	order := make([]uint, 0)

	for _, a := range answers {
		k := key{user: a.UserID, question: a.QuestionIndex}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}

		st, ok := byUser[a.UserID]
		if !ok {
			st = &QuizStanding{UserID: a.UserID}
			byUser[a.UserID] = st
			order = append(order, a.UserID)
		}
		st.TotalAnswered++
		st.TotalTimeSec += a.TimeTakenSec
		if a.IsCorrect {
			st.CorrectCount++
		}
	}

	standings := make([]QuizStanding, 0, len(order))
	for _, id := range order {
		st := byUser[id]
		if st.TotalAnswered > 0 {
			st.Accuracy = float64(st.CorrectCount) / float64(st.TotalAnswered)
		}
		standings = append(standings, *st)
	}

	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].CorrectCount != standings[j].CorrectCount {
			return standings[i].CorrectCount > standings[j].CorrectCount
		}
		return standings[i].TotalTimeSec < standings[j].TotalTimeSec
	})
	return standings
}

// Leaderboard broadcasts the ranked standings. Pure read; works for live
// and finished sessions alike.
func (c *QuizCoordinator) Leaderboard(quizID uint) (*Effects, error) {
	quiz, err := c.store.Quiz(quizID)
	if err != nil {
		return nil, PersistenceFailure(err)
	}
	if quiz == nil {
		return nil, NotFound("quiz not found")
	}

	session, err := c.store.LatestSession(quizID)
	if err != nil {
		return nil, PersistenceFailure(err)
	}
	if session == nil {
		return nil, NotFound("quiz session not found")
	}

	answers, err := c.store.Answers(session.ID)
	if err != nil {
		return nil, PersistenceFailure(err)
	}

	standings := ComputeQuizStandings(answers)
	for i := range standings {
		if ident, err := c.dir.User(standings[i].UserID); err == nil && ident != nil {
			standings[i].Name = ident.Name
		}
	}

	return newEffects(session.ID).ToRoom("leaderboard", map[string]interface{}{
		"quizId":      quizID,
		"leaderboard": standings,
	}), nil
}
