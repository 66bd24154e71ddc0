package services

import (
	"errors"
	"sort"

	"github.com/yashikaparyani/event-management-backend/internal/models"

	"gorm.io/gorm"
)

type DebateService struct {
	db *gorm.DB
}

func NewDebateService(db *gorm.DB) *DebateService {
	return &DebateService{db: db}
}

// CreateDebate attaches a debate definition to a Debate-type event. The
// coordinator is inherited from the event.
func (s *DebateService) CreateDebate(eventID uint, topics, rules []string, timerDefault int) (*models.Debate, error) {
	var event models.Event
	if err := s.db.First(&event, eventID).Error; err != nil {
		return nil, errors.New("event not found")
	}
	if event.Type != models.EventTypeDebate {
		return nil, errors.New("not a debate event")
	}

	var existing models.Debate
	if err := s.db.Where("event_id = ?", eventID).First(&existing).Error; err == nil {
		return nil, errors.New("debate already exists for this event")
	}

	if timerDefault <= 0 {
		timerDefault = 120
	}
	debate := models.Debate{
		EventID:       eventID,
		Topics:        topics,
		Rules:         rules,
		CoordinatorID: event.CoordinatorID,
		TimerDefault:  timerDefault,
	}
	if err := s.db.Create(&debate).Error; err != nil {
		return nil, err
	}
	return &debate, nil
}

func (s *DebateService) GetDebate(id uint) (*models.Debate, error) {
	var debate models.Debate
	if err := s.db.Preload("Teams").First(&debate, id).Error; err != nil {
		return nil, errors.New("debate not found")
	}
	return &debate, nil
}

func (s *DebateService) GetDebateByEvent(eventID uint) (*models.Debate, error) {
	var debate models.Debate
	if err := s.db.Preload("Teams").Where("event_id = ?", eventID).First(&debate).Error; err != nil {
		return nil, errors.New("debate not found")
	}
	return &debate, nil
}

func (s *DebateService) RegisterTeam(debateID uint, name string, memberIDs []uint) (*models.DebateTeam, error) {
	var debate models.Debate
	if err := s.db.First(&debate, debateID).Error; err != nil {
		return nil, errors.New("debate not found")
	}
	if name == "" {
		return nil, errors.New("team name required")
	}

	team := models.DebateTeam{
		DebateID:  debateID,
		Name:      name,
		MemberIDs: memberIDs,
	}
	if err := s.db.Create(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// RegisterAudience signs a user up as audience for the debate. Idempotent,
// like event registration by join code.
func (s *DebateService) RegisterAudience(debateID, userID uint) (*models.Debate, error) {
	var debate models.Debate
	if err := s.db.First(&debate, debateID).Error; err != nil {
		return nil, errors.New("debate not found")
	}
	if debate.AddAudience(userID) {
		if err := s.db.Save(&debate).Error; err != nil {
			return nil, err
		}
	}
	return &debate, nil
}

// SessionState is the REST snapshot of the most recent debate session.
type DebateSessionState struct {
	SessionID        uint                     `json:"session_id"`
	EventID          uint                     `json:"event_id"`
	Status           string                   `json:"status"`
	Round            int                      `json:"round"`
	CurrentSpeakerID *uint                    `json:"current_speaker_id,omitempty"`
	Participants     int                      `json:"participants"`
	Audience         int                      `json:"audience"`
	Scores           []models.DebateTeamScore `json:"scores"`
}

func (s *DebateService) SessionState(eventID uint) (*DebateSessionState, error) {
	var session models.DebateSession
	if err := s.db.Where("event_id = ?", eventID).
		Order("created_at DESC").
		First(&session).Error; err != nil {
		return nil, errors.New("debate session not found")
	}

	var participants, audience int64
	s.db.Model(&models.DebateMember{}).
		Where("session_id = ? AND role = ?", session.ID, models.RoleParticipant).
		Count(&participants)
	s.db.Model(&models.DebateMember{}).
		Where("session_id = ? AND role = ?", session.ID, models.RoleAudience).
		Count(&audience)

	var scores []models.DebateTeamScore
	s.db.Where("session_id = ?", session.ID).Order("points DESC").Find(&scores)

	return &DebateSessionState{
		SessionID:        session.ID,
		EventID:          eventID,
		Status:           session.Status,
		Round:            session.Round,
		CurrentSpeakerID: session.CurrentSpeakerID,
		Participants:     int(participants),
		Audience:         int(audience),
		Scores:           scores,
	}, nil
}

func (s *DebateService) Leaderboard(eventID uint) ([]models.DebateTeamScore, error) {
	var session models.DebateSession
	if err := s.db.Where("event_id = ?", eventID).
		Order("created_at DESC").
		First(&session).Error; err != nil {
		return nil, errors.New("debate session not found")
	}

	var scores []models.DebateTeamScore
	if err := s.db.Where("session_id = ?", session.ID).Find(&scores).Error; err != nil {
		return nil, err
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Points > scores[j].Points
	})
	return scores, nil
}
