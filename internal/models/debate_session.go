package models

import "time"

type DebateSession struct {
	ID               uint                `gorm:"primaryKey" json:"id"`
	DebateID         uint                `gorm:"not null;index" json:"debate_id"`
	EventID          uint                `gorm:"not null;index" json:"event_id"`
	Status           string              `gorm:"size:20;not null;default:'waiting'" json:"status"`
	CurrentSpeakerID *uint               `json:"current_speaker_id,omitempty"`
	SpeakerDeadline  *time.Time          `json:"speaker_deadline,omitempty"`
	Round            int                 `gorm:"not null;default:0" json:"round"`
	Members          []DebateMember      `gorm:"foreignKey:SessionID" json:"members,omitempty"`
	Messages         []DebateMessage     `gorm:"foreignKey:SessionID" json:"messages,omitempty"`
	Votes            []DebateVote        `gorm:"foreignKey:SessionID" json:"votes,omitempty"`
	Scores           []DebateTeamScore   `gorm:"foreignKey:SessionID" json:"scores,omitempty"`
	StartedAt        *time.Time          `json:"started_at,omitempty"`
	EndedAt          *time.Time          `json:"ended_at,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// DebateMember covers both debaters and audience; Role distinguishes them.
type DebateMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID uint      `gorm:"not null;uniqueIndex:idx_debate_session_user" json:"session_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_debate_session_user" json:"user_id"`
	Role      Role      `gorm:"size:20;not null" json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
}

type DebateMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID uint      `gorm:"not null;index" json:"session_id"`
	SenderID  uint      `gorm:"not null" json:"sender_id"`
	Role      Role      `gorm:"size:20;not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type DebateVote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID uint      `gorm:"not null;index" json:"session_id"`
	VoterID   uint      `gorm:"not null" json:"voter_id"`
	VoteType  string    `gorm:"size:20;not null" json:"vote_type"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	VoteTypeUpvote   = "upvote"
	VoteTypeDownvote = "downvote"
	VoteTypeLike     = "like"
	VoteTypeDislike  = "dislike"
)

// DebateTeamScore accumulates in place: Points grows by each award and the
// criteria breakdown merges additively, never overwrites.
type DebateTeamScore struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	SessionID uint           `gorm:"not null;uniqueIndex:idx_debate_session_team" json:"session_id"`
	TeamID    uint           `gorm:"not null;uniqueIndex:idx_debate_session_team" json:"team_id"`
	Points    int            `gorm:"not null;default:0" json:"points"`
	Criteria  map[string]int `gorm:"serializer:json" json:"criteria"`
	UpdatedAt time.Time      `json:"updated_at"`
}
