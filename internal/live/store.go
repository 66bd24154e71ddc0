package live

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yashikaparyani/event-management-backend/internal/models"
)

// Directory resolves authenticated identities. Lookups that miss return
// (nil, nil); an error means the store itself failed.
type Directory interface {
	User(id uint) (*Identity, error)
}

// QuizStore is the persistence collaborator of the quiz coordinator.
// Lookup methods return (nil, nil) when the record does not exist.
type QuizStore interface {
	Quiz(id uint) (*models.Quiz, error)
	LiveSession(quizID, eventID uint) (*models.QuizSession, error)
	LatestSession(quizID uint) (*models.QuizSession, error)
	CreateSession(s *models.QuizSession) error
	SaveSession(s *models.QuizSession) error
	AddParticipant(sessionID, userID uint) error
	IsParticipant(sessionID, userID uint) (bool, error)
	HasAnswer(sessionID, userID uint, questionIndex int) (bool, error)
	AppendAnswer(a *models.QuizAnswer) error
	Answers(sessionID uint) ([]models.QuizAnswer, error)
}

// DebateStore is the persistence collaborator of the debate coordinator.
type DebateStore interface {
	DebateByEvent(eventID uint) (*models.Debate, error)
	LiveSession(eventID uint) (*models.DebateSession, error)
	LatestSession(eventID uint) (*models.DebateSession, error)
	CreateSession(s *models.DebateSession) error
	SaveSession(s *models.DebateSession) error
	AddMember(sessionID, userID uint, role models.Role) error
	Member(sessionID, userID uint) (*models.DebateMember, error)
	Members(sessionID uint) ([]models.DebateMember, error)
	AppendMessage(m *models.DebateMessage) error
	AppendVote(v *models.DebateVote) error
	TeamScore(sessionID, teamID uint) (*models.DebateTeamScore, error)
	SaveTeamScore(s *models.DebateTeamScore) error
	Scores(sessionID uint) ([]models.DebateTeamScore, error)
}

var liveStatuses = []string{models.SessionStatusWaiting, models.SessionStatusActive}

func omitNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

// GormDirectory resolves identities against the users table.
type GormDirectory struct {
	db *gorm.DB
}

func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

func (d *GormDirectory) User(id uint) (*Identity, error) {
	var user models.User
	if err := d.db.First(&user, id).Error; err != nil {
		return nil, omitNotFound(err)
	}
	return &Identity{ID: user.ID, Name: user.Name, Role: user.Role}, nil
}

// GormQuizStore implements QuizStore on postgres.
type GormQuizStore struct {
	db *gorm.DB
}

func NewGormQuizStore(db *gorm.DB) *GormQuizStore {
	return &GormQuizStore{db: db}
}

func (s *GormQuizStore) Quiz(id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_num ASC")
	}).First(&quiz, id).Error
	if err != nil {
		return nil, omitNotFound(err)
	}
	return &quiz, nil
}

func (s *GormQuizStore) LiveSession(quizID, eventID uint) (*models.QuizSession, error) {
	var session models.QuizSession
	err := s.db.Where("quiz_id = ? AND event_id = ? AND status IN ?", quizID, eventID, liveStatuses).
		Order("created_at DESC").
		First(&session).Error
	if err != nil {
		return nil, omitNotFound(err)
	}
	return &session, nil
}

func (s *GormQuizStore) LatestSession(quizID uint) (*models.QuizSession, error) {
	var session models.QuizSession
	err := s.db.Where("quiz_id = ?", quizID).
		Order("created_at DESC").
		First(&session).Error
	if err != nil {
		return nil, omitNotFound(err)
	}
	return &session, nil
}

func (s *GormQuizStore) CreateSession(session *models.QuizSession) error {
	return s.db.Create(session).Error
}

func (s *GormQuizStore) SaveSession(session *models.QuizSession) error {
	return s.db.Save(session).Error
}

func (s *GormQuizStore) AddParticipant(sessionID, userID uint) error {
	p := models.QuizParticipant{SessionID: sessionID, UserID: userID, JoinedAt: time.Now()}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&p).Error
}

func (s *GormQuizStore) IsParticipant(sessionID, userID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.QuizParticipant{}).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Count(&count).Error
	return count > 0, err
}

func (s *GormQuizStore) HasAnswer(sessionID, userID uint, questionIndex int) (bool, error) {
	var count int64
	err := s.db.Model(&models.QuizAnswer{}).
		Where("session_id = ? AND user_id = ? AND question_index = ?", sessionID, userID, questionIndex).
		Count(&count).Error
	return count > 0, err
}

func (s *GormQuizStore) AppendAnswer(a *models.QuizAnswer) error {
	return s.db.Create(a).Error
}

func (s *GormQuizStore) Answers(sessionID uint) ([]models.QuizAnswer, error) {
	var answers []models.QuizAnswer
	err := s.db.Where("session_id = ?", sessionID).
		Order("answered_at ASC").
		Find(&answers).Error
	return answers, err
}

// GormDebateStore implements DebateStore on postgres.
type GormDebateStore struct {
	db *gorm.DB
}

func NewGormDebateStore(db *gorm.DB) *GormDebateStore {
	return &GormDebateStore{db: db}
}

func (s *GormDebateStore) DebateByEvent(eventID uint) (*models.Debate, error) {
	var debate models.Debate
	err := s.db.Preload("Teams").Where("event_id = ?", eventID).First(&debate).Error
	if err != nil {
		return nil, omitNotFound(err)
	}
	return &debate, nil
}

func (s *GormDebateStore) LiveSession(eventID uint) (*models.DebateSession, error) {
	var session models.DebateSession
	err := s.db.Where("event_id = ? AND status IN ?", eventID, liveStatuses).
		Order("created_at DESC").
		First(&session).Error
	if err != nil {
		return nil, omitNotFound(err)
	}
	return &session, nil
}

func (s *GormDebateStore) LatestSession(eventID uint) (*models.DebateSession, error) {
	var session models.DebateSession
	err := s.db.Where("event_id = ?", eventID).
		Order("created_at DESC").
		First(&session).Error
	if err != nil {
		return nil, omitNotFound(err)
	}
	return &session, nil
}

func (s *GormDebateStore) CreateSession(session *models.DebateSession) error {
	return s.db.Create(session).Error
}

func (s *GormDebateStore) SaveSession(session *models.DebateSession) error {
	return s.db.Save(session).Error
}

func (s *GormDebateStore) AddMember(sessionID, userID uint, role models.Role) error {
	m := models.DebateMember{SessionID: sessionID, UserID: userID, Role: role, JoinedAt: time.Now()}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&m).Error
}

func (s *GormDebateStore) Member(sessionID, userID uint) (*models.DebateMember, error) {
	var member models.DebateMember
	err := s.db.Where("session_id = ? AND user_id = ?", sessionID, userID).First(&member).Error
	if err != nil {
		return nil, omitNotFound(err)
	}
	return &member, nil
}

func (s *GormDebateStore) Members(sessionID uint) ([]models.DebateMember, error) {
	var members []models.DebateMember
	err := s.db.Where("session_id = ?", sessionID).
		Order("joined_at ASC").
		Find(&members).Error
	return members, err
}

func (s *GormDebateStore) AppendMessage(m *models.DebateMessage) error {
	return s.db.Create(m).Error
}

func (s *GormDebateStore) AppendVote(v *models.DebateVote) error {
	return s.db.Create(v).Error
}

func (s *GormDebateStore) TeamScore(sessionID, teamID uint) (*models.DebateTeamScore, error) {
	var score models.DebateTeamScore
	err := s.db.Where("session_id = ? AND team_id = ?", sessionID, teamID).First(&score).Error
	if err != nil {
		return nil, omitNotFound(err)
	}
	return &score, nil
}

func (s *GormDebateStore) SaveTeamScore(score *models.DebateTeamScore) error {
	return s.db.Save(score).Error
}

func (s *GormDebateStore) Scores(sessionID uint) ([]models.DebateTeamScore, error) {
	var scores []models.DebateTeamScore
	err := s.db.Where("session_id = ?", sessionID).
		Order("points DESC").
		Find(&scores).Error
	return scores, err
}
