package repository

import (
	"time"

	"skillbarter/internal/models"

	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// HistoryEntry is one row of a user's transfer history, seen from their side.
type HistoryEntry struct {
	ID         string    `json:"id"`
	Amount     int64     `json:"amount"`
	Date       time.Time `json:"date"`
	Type       string    `json:"type"` // SENT or RECEIVED
	OtherParty string    `json:"other_party"`
}

// HistoryByUser returns the user's sent and received transfers, newest first,
// with the counterparty's display name resolved.
func (r *TransactionRepository) HistoryByUser(userID uint) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	err := r.db.Raw(`
		SELECT id, amount, date, type, other_party FROM (
			SELECT t.id, t.amount, t.date, 'SENT' AS type, u.name AS other_party
			FROM transactions t JOIN users u ON t.receiver_id = u.id
			WHERE t.sender_id = ?
			UNION ALL
			SELECT t.id, t.amount, t.date, 'RECEIVED' AS type, u.name AS other_party
			FROM transactions t JOIN users u ON t.sender_id = u.id
			WHERE t.receiver_id = ?
		) h ORDER BY date DESC`, userID, userID).Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// SumBetween returns the total amount transferred from sender to receiver.
// Used by reconciliation checks and tests against the append-only log.
func (r *TransactionRepository) SumBetween(senderID, receiverID uint) (int64, error) {
	var total int64
	err := r.db.Model(&models.Transaction{}).
		Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).
		Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
	return total, err
}

func (r *TransactionRepository) ListByUser(userID uint) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("date DESC").Find(&txs).Error
	return txs, err
}
