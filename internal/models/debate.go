package models

import "time"

type Debate struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	EventID       uint         `gorm:"not null;uniqueIndex" json:"event_id"`
	Event         Event        `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	Topics        []string     `gorm:"serializer:json" json:"topics"`
	Rules         []string     `gorm:"serializer:json" json:"rules"`
	CoordinatorID uint         `gorm:"not null;index" json:"coordinator_id"`
	TimerDefault  int          `gorm:"not null;default:120" json:"timer_default"`
	Teams         []DebateTeam `gorm:"foreignKey:DebateID" json:"teams,omitempty"`
	AudienceIDs   []uint       `gorm:"serializer:json" json:"audience_ids"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// AddAudience records an audience registration and reports whether the
// list changed. Registering twice is a no-op.
func (d *Debate) AddAudience(userID uint) bool {
	for _, id := range d.AudienceIDs {
		if id == userID {
			return false
		}
	}
	d.AudienceIDs = append(d.AudienceIDs, userID)
	return true
}

type DebateTeam struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DebateID  uint      `gorm:"not null;index" json:"debate_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	MemberIDs []uint    `gorm:"serializer:json" json:"member_ids"`
	CreatedAt time.Time `json:"created_at"`
}
