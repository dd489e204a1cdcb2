package models

import (
	"time"
)

type Session struct {
	ID               string     `gorm:"primaryKey;size:36" json:"id"`
	StudentID        uint       `gorm:"not null;index" json:"student_id"`
	TeacherID        uint       `gorm:"not null;index" json:"teacher_id"`
	SkillID          uint       `gorm:"not null" json:"skill_id"`
	CourseInstanceID *string    `gorm:"size:36;index" json:"course_instance_id"`
	SequenceNumber   int        `gorm:"not null;default:1" json:"sequence_number"`
	ScheduledTime    time.Time  `gorm:"not null" json:"scheduled_time"`
	DurationMinutes  int        `gorm:"not null" json:"duration_minutes"`
	Status           string     `gorm:"size:20;not null;default:'scheduled';index" json:"status"`
	CreditAmount     int64      `gorm:"not null;default:0" json:"credit_amount"`
	HeldCredits      int64      `gorm:"not null;default:0" json:"held_credits"` // escrow for non-course sessions
	EscrowedAt       *time.Time `json:"escrowed_at"`
	RoomName         string     `gorm:"size:80;not null" json:"room_name"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	Student User  `gorm:"foreignKey:StudentID" json:"-"`
	Teacher User  `gorm:"foreignKey:TeacherID" json:"-"`
	Skill   Skill `gorm:"foreignKey:SkillID" json:"-"`
}

func (Session) TableName() string {
	return "sessions"
}

// Escrowed reports whether the student's credits for this session were
// already moved into a held counter at join time.
func (s *Session) Escrowed() bool {
	return s.EscrowedAt != nil
}
