package services

import (
	"errors"
	"time"

	"github.com/yashikaparyani/event-management-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventService struct {
	db *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

type EventInput struct {
	Name          string
	Type          string
	Description   string
	Venue         string
	CoordinatorID uint
	StartsAt      time.Time
	EndsAt        time.Time
}

func validEventType(t string) bool {
	switch t {
	case models.EventTypeQuiz, models.EventTypeDebate, models.EventTypePoetry, models.EventTypeSpeedCoding:
		return true
	}
	return false
}

func (s *EventService) CreateEvent(in EventInput) (*models.Event, error) {
	if !validEventType(in.Type) {
		return nil, errors.New("unknown event type")
	}

	var coordinator models.User
	if err := s.db.First(&coordinator, in.CoordinatorID).Error; err != nil {
		return nil, errors.New("coordinator not found")
	}
	if coordinator.Role != models.RoleCoordinator {
		return nil, errors.New("assigned user is not a coordinator")
	}

	event := models.Event{
		Name:          in.Name,
		Type:          in.Type,
		Description:   in.Description,
		Venue:         in.Venue,
		JoinCode:      uuid.NewString(),
		CoordinatorID: in.CoordinatorID,
		StartsAt:      in.StartsAt,
		EndsAt:        in.EndsAt,
	}
	if err := s.db.Create(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *EventService) GetEvent(id uint) (*models.Event, error) {
	var event models.Event
	if err := s.db.First(&event, id).Error; err != nil {
		return nil, errors.New("event not found")
	}
	return &event, nil
}

func (s *EventService) ListEvents() ([]models.Event, error) {
	var events []models.Event
	if err := s.db.Order("starts_at ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// UpdateEvent is limited to the event's coordinator or an admin.
func (s *EventService) UpdateEvent(id uint, caller *Claims, in EventInput) (*models.Event, error) {
	var event models.Event
	if err := s.db.First(&event, id).Error; err != nil {
		return nil, errors.New("event not found")
	}
	if caller.Role != models.RoleAdmin && caller.UserID != event.CoordinatorID {
		return nil, errors.New("only the event coordinator or an admin may update this event")
	}
	if in.Type != "" && !validEventType(in.Type) {
		return nil, errors.New("unknown event type")
	}

	if in.Name != "" {
		event.Name = in.Name
	}
	if in.Type != "" {
		event.Type = in.Type
	}
	if in.Description != "" {
		event.Description = in.Description
	}
	if in.Venue != "" {
		event.Venue = in.Venue
	}
	if !in.StartsAt.IsZero() {
		event.StartsAt = in.StartsAt
	}
	if !in.EndsAt.IsZero() {
		event.EndsAt = in.EndsAt
	}
	if err := s.db.Save(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// RegisterByCode signs a user up for the event with the given join code.
// Idempotent; re-registering is not an error.
func (s *EventService) RegisterByCode(joinCode string, userID uint) (*models.Event, error) {
	var event models.Event
	if err := s.db.Where("join_code = ?", joinCode).First(&event).Error; err != nil {
		return nil, errors.New("event not found")
	}

	var existing models.EventRegistration
	if err := s.db.Where("event_id = ? AND user_id = ?", event.ID, userID).
		First(&existing).Error; err == nil {
		return &event, nil
	}

	reg := models.EventRegistration{EventID: event.ID, UserID: userID}
	if err := s.db.Create(&reg).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

type EventDashboard struct {
	EventID           uint   `json:"event_id"`
	Name              string `json:"name"`
	Type              string `json:"type"`
	RegisteredCount   int    `json:"registered_count"`
	QuizSessions      int    `json:"quiz_sessions"`
	DebateSessions    int    `json:"debate_sessions"`
	LiveQuizSession   bool   `json:"live_quiz_session"`
	LiveDebateSession bool   `json:"live_debate_session"`
}

func (s *EventService) Dashboard(eventID uint) (*EventDashboard, error) {
	event, err := s.GetEvent(eventID)
	if err != nil {
		return nil, err
	}

	d := &EventDashboard{EventID: event.ID, Name: event.Name, Type: event.Type}

	var count int64
	s.db.Model(&models.EventRegistration{}).Where("event_id = ?", eventID).Count(&count)
	d.RegisteredCount = int(count)

	s.db.Model(&models.QuizSession{}).Where("event_id = ?", eventID).Count(&count)
	d.QuizSessions = int(count)

	s.db.Model(&models.DebateSession{}).Where("event_id = ?", eventID).Count(&count)
	d.DebateSessions = int(count)

	liveStatuses := []string{models.SessionStatusWaiting, models.SessionStatusActive}
	s.db.Model(&models.QuizSession{}).Where("event_id = ? AND status IN ?", eventID, liveStatuses).Count(&count)
	d.LiveQuizSession = count > 0

	s.db.Model(&models.DebateSession{}).Where("event_id = ? AND status IN ?", eventID, liveStatuses).Count(&count)
	d.LiveDebateSession = count > 0

	return d, nil
}
