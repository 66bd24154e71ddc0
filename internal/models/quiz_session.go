package models

import "time"

// SessionStatus values are shared by quiz and debate sessions. Transitions
// only ever move forward: waiting -> active -> finished.
const (
	SessionStatusWaiting  = "waiting"
	SessionStatusActive   = "active"
	SessionStatusFinished = "finished"
)

type QuizSession struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	QuizID          uint              `gorm:"not null;index" json:"quiz_id"`
	EventID         uint              `gorm:"not null;index" json:"event_id"`
	Status          string            `gorm:"size:20;not null;default:'waiting'" json:"status"`
	CurrentQuestion int               `gorm:"not null;default:-1" json:"current_question"`
	Participants    []QuizParticipant `gorm:"foreignKey:SessionID" json:"participants,omitempty"`
	Answers         []QuizAnswer      `gorm:"foreignKey:SessionID" json:"answers,omitempty"`
	StartedAt       *time.Time        `json:"started_at,omitempty"`
	EndedAt         *time.Time        `json:"ended_at,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

type QuizParticipant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID uint      `gorm:"not null;uniqueIndex:idx_quiz_session_user" json:"session_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_quiz_session_user" json:"user_id"`
	JoinedAt  time.Time `json:"joined_at"`
}

// QuizAnswer rows are append-only; leaderboards are recomputed from them
// and never stored.
type QuizAnswer struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	SessionID      uint      `gorm:"not null;index" json:"session_id"`
	UserID         uint      `gorm:"not null" json:"user_id"`
	QuestionIndex  int       `gorm:"not null" json:"question_index"`
	SelectedOption int       `gorm:"not null" json:"selected_option"`
	IsCorrect      bool      `gorm:"not null" json:"is_correct"`
	TimeTakenSec   int       `gorm:"not null" json:"time_taken_sec"`
	AnsweredAt     time.Time `json:"answered_at"`
}
