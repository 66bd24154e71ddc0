package models

import "time"

const (
	EventTypeQuiz        = "quiz"
	EventTypeDebate      = "debate"
	EventTypePoetry      = "poetry"
	EventTypeSpeedCoding = "speed_coding"
)

type Event struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Type          string    `gorm:"size:30;not null;index" json:"type"`
	Description   string    `gorm:"type:text" json:"description,omitempty"`
	Venue         string    `gorm:"size:255" json:"venue,omitempty"`
	JoinCode      string    `gorm:"size:36;not null;uniqueIndex" json:"join_code"`
	CoordinatorID uint      `gorm:"not null;index" json:"coordinator_id"`
	Coordinator   User      `gorm:"foreignKey:CoordinatorID" json:"-"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// EventRegistration links a user to an event once; joining again with the
// same code is a no-op.
type EventRegistration struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   uint      `gorm:"not null;uniqueIndex:idx_event_user" json:"event_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_event_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
