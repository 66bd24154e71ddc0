package models

import "time"

type Quiz struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	EventID     uint           `gorm:"not null;index" json:"event_id"`
	Event       Event          `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	CreatedByID uint           `gorm:"not null" json:"created_by_id"`
	Questions   []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// QuizQuestion embeds its options as a JSON column. CorrectIndex is never
// serialized to clients; the live layer compares against it server-side.
type QuizQuestion struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	QuizID       uint     `gorm:"not null;index" json:"quiz_id"`
	OrderNum     int      `gorm:"not null" json:"order_num"`
	Text         string   `gorm:"type:text;not null" json:"text"`
	Options      []string `gorm:"serializer:json" json:"options"`
	CorrectIndex int      `gorm:"not null" json:"-"`
	TimerSec     int      `gorm:"not null;default:30" json:"timer_sec"`
}
