package models

import "time"

// Role is the closed set of account roles. It is resolved once at login
// and carried in the token; live handlers trust the stored role, never a
// client-declared one.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleCoordinator Role = "coordinator"
	RoleParticipant Role = "participant"
	RoleVolunteer   Role = "volunteer"
	RoleAudience    Role = "audience"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCoordinator, RoleParticipant, RoleVolunteer, RoleAudience:
		return true
	}
	return false
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"size:20;not null;default:'participant'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
