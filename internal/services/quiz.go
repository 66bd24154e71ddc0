package services

import (
	"errors"

	"github.com/yashikaparyani/event-management-backend/internal/live"
	"github.com/yashikaparyani/event-management-backend/internal/models"

	"gorm.io/gorm"
)

type QuizService struct {
	db *gorm.DB
}

func NewQuizService(db *gorm.DB) *QuizService {
	return &QuizService{db: db}
}

type QuestionInput struct {
	Text         string   `json:"text" binding:"required"`
	Options      []string `json:"options" binding:"required,min=2"`
	CorrectIndex int      `json:"correct_index"`
	TimerSec     int      `json:"timer_sec"`
}

func (s *QuizService) CreateQuiz(eventID uint, caller *Claims, title, description string, questions []QuestionInput) (*models.Quiz, error) {
	var event models.Event
	if err := s.db.First(&event, eventID).Error; err != nil {
		return nil, errors.New("event not found")
	}
	if event.Type != models.EventTypeQuiz {
		return nil, errors.New("not a quiz event")
	}
	if caller.Role != models.RoleAdmin && caller.UserID != event.CoordinatorID {
		return nil, errors.New("only the event coordinator or an admin may create quizzes")
	}

	quiz := models.Quiz{
		EventID:     eventID,
		Title:       title,
		Description: description,
		CreatedByID: caller.UserID,
	}
	for i, q := range questions {
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return nil, errors.New("correct option index out of range")
		}
		timer := q.TimerSec
		if timer <= 0 {
			timer = 30
		}
		quiz.Questions = append(quiz.Questions, models.QuizQuestion{
			OrderNum:     i,
			Text:         q.Text,
			Options:      q.Options,
			CorrectIndex: q.CorrectIndex,
			TimerSec:     timer,
		})
	}

	if err := s.db.Create(&quiz).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

// GetQuiz loads a quiz with its questions. Questions marshal without the
// correct index, so participant-facing reads are safe by construction;
// coordinators learn results through the live layer, not this read.
func (s *QuizService) GetQuiz(id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := s.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_num ASC")
	}).First(&quiz, id).Error; err != nil {
		return nil, errors.New("quiz not found")
	}
	return &quiz, nil
}

func (s *QuizService) ListByEvent(eventID uint) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	if err := s.db.Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

// SessionState is the REST view of a quiz session: status and progress,
// never answer correctness data.
type SessionState struct {
	SessionID       uint   `json:"session_id"`
	QuizID          uint   `json:"quiz_id"`
	EventID         uint   `json:"event_id"`
	Status          string `json:"status"`
	CurrentQuestion int    `json:"current_question"`
	TotalQuestions  int    `json:"total_questions"`
	Participants    int    `json:"participants"`
}

func (s *QuizService) SessionState(quizID uint) (*SessionState, error) {
	quiz, err := s.GetQuiz(quizID)
	if err != nil {
		return nil, err
	}

	var session models.QuizSession
	if err := s.db.Where("quiz_id = ?", quizID).
		Order("created_at DESC").
		First(&session).Error; err != nil {
		return nil, errors.New("quiz session not found")
	}

	var participants int64
	s.db.Model(&models.QuizParticipant{}).Where("session_id = ?", session.ID).Count(&participants)

	return &SessionState{
		SessionID:       session.ID,
		QuizID:          quizID,
		EventID:         session.EventID,
		Status:          session.Status,
		CurrentQuestion: session.CurrentQuestion,
		TotalQuestions:  len(quiz.Questions),
		Participants:    int(participants),
	}, nil
}

// Leaderboard recomputes standings from the append-only answer log, the
// same aggregation the live layer broadcasts.
func (s *QuizService) Leaderboard(quizID uint) ([]live.QuizStanding, error) {
	var session models.QuizSession
	if err := s.db.Where("quiz_id = ?", quizID).
		Order("created_at DESC").
		First(&session).Error; err != nil {
		return nil, errors.New("quiz session not found")
	}

	var answers []models.QuizAnswer
	if err := s.db.Where("session_id = ?", session.ID).
		Order("answered_at ASC").
		Find(&answers).Error; err != nil {
		return nil, err
	}

	standings := live.ComputeQuizStandings(answers)
	for i := range standings {
		var user models.User
		if err := s.db.First(&user, standings[i].UserID).Error; err == nil {
			standings[i].Name = user.Name
		}
	}
	return standings, nil
}
