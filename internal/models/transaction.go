package models

import (
	"time"
)

// Transaction is one completed credit movement between two users. Rows are
// append-only: they are never updated or deleted, so the log is a full audit
// trail of who paid whom, when and how much.
type Transaction struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	SenderID   uint      `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;index" json:"receiver_id"`
	Amount     int64     `gorm:"not null" json:"amount"`
	Date       time.Time `gorm:"not null" json:"date"`

	Sender   User `gorm:"foreignKey:SenderID" json:"-"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}
