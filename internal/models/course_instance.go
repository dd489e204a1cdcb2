package models

import (
	"time"
)

// CourseInstance is one student's multi-session enrollment with one teacher
// for a skill, governed by a single payment plan. HeldCredits accumulates
// per-session escrow and drains to zero when the course pays out.
type CourseInstance struct {
	ID                string    `gorm:"primaryKey;size:36" json:"id"`
	SkillID           uint      `gorm:"not null" json:"skill_id"`
	StudentID         uint      `gorm:"not null;index" json:"student_id"`
	TeacherID         uint      `gorm:"not null;index" json:"teacher_id"`
	TotalSessions     int       `gorm:"not null;default:1" json:"total_sessions"`
	CompletedSessions int       `gorm:"not null;default:0" json:"completed_sessions"`
	PaymentPlan       string    `gorm:"size:20;not null;default:'per_session'" json:"payment_plan"`
	HeldCredits       int64     `gorm:"not null;default:0" json:"held_credits"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	Student User  `gorm:"foreignKey:StudentID" json:"-"`
	Teacher User  `gorm:"foreignKey:TeacherID" json:"-"`
	Skill   Skill `gorm:"foreignKey:SkillID" json:"-"`
}

func (CourseInstance) TableName() string {
	return "course_instances"
}
