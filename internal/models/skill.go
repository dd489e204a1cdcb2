package models

import (
	"time"
)

// Skill is the minimal catalog entry sessions and courses reference. The
// course shape (session count, payment plan) defaults from here at
// scheduling time.
type Skill struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:120;not null" json:"name"`
	TotalSessions int       `gorm:"not null;default:1" json:"total_sessions"`
	PaymentPlan   string    `gorm:"size:20;not null;default:'per_session'" json:"payment_plan"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Skill) TableName() string {
	return "skills"
}
