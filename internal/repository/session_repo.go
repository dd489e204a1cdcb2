package repository

import (
	"errors"

	"skillbarter/internal/domain"
	"skillbarter/internal/models"

	"gorm.io/gorm"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(s *models.Session) error {
	return r.db.Create(s).Error
}

func (r *SessionRepository) GetByID(id string) (*models.Session, error) {
	var s models.Session
	if err := r.db.Where("id = ?", id).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return &s, nil
}

// SessionView is a session row joined with participant and skill names, the
// shape the session list endpoint returns.
type SessionView struct {
	models.Session
	StudentName string `json:"student_name"`
	TeacherName string `json:"teacher_name"`
	SkillName   string `json:"skill_name"`
}

// ListByUser returns sessions the user takes part in, newest first. role is
// "student", "teacher" or empty for both.
func (r *SessionRepository) ListByUser(userID uint, role string) ([]SessionView, error) {
	q := r.db.Model(&models.Session{}).
		Select("sessions.*, st.name AS student_name, t.name AS teacher_name, sk.name AS skill_name").
		Joins("JOIN users st ON sessions.student_id = st.id").
		Joins("JOIN users t ON sessions.teacher_id = t.id").
		Joins("JOIN skills sk ON sessions.skill_id = sk.id")
	switch role {
	case "student":
		q = q.Where("sessions.student_id = ?", userID)
	case "teacher":
		q = q.Where("sessions.teacher_id = ?", userID)
	default:
		q = q.Where("sessions.student_id = ? OR sessions.teacher_id = ?", userID, userID)
	}
	var views []SessionView
	if err := q.Order("sessions.scheduled_time DESC").Find(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}
