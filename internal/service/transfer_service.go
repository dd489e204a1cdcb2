package service

import (
	"errors"
	"time"

	"skillbarter/internal/domain"
	"skillbarter/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransferService moves time credits between users. Every transfer is
// all-or-nothing: the sender debit, receiver credit and transaction record
// land in one database transaction or not at all. Failed transfers are
// reported to the caller; there is no implicit retry.
type TransferService struct {
	db *gorm.DB
}

func NewTransferService(db *gorm.DB) *TransferService {
	return &TransferService{db: db}
}

// Transfer moves amount credits from sender to receiver and records the
// transaction. Self-transfers are rejected.
func (s *TransferService) Transfer(senderID, receiverID uint, amount int64) (*models.Transaction, error) {
	var rec *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		rec, err = s.TransferIn(tx, senderID, receiverID, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// TransferByEmail resolves the receiver by email address first, then
// transfers. This is the lookup path used for direct user-to-user transfers.
func (s *TransferService) TransferByEmail(senderID uint, receiverEmail string, amount int64) (*models.Transaction, error) {
	var receiver models.User
	if err := s.db.Where("email = ?", receiverEmail).First(&receiver).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReceiverNotFound
		}
		return nil, err
	}
	return s.Transfer(senderID, receiver.ID, amount)
}

// TransferIn performs the transfer inside an already-open transaction, so
// settlement can combine it with escrow bookkeeping in one atomic unit.
//
// The debit is a guarded update (time_credits >= amount in the WHERE clause),
// so the row lock it takes serializes concurrent transfers from the same
// sender and a balance can never go negative.
func (s *TransferService) TransferIn(tx *gorm.DB, senderID, receiverID uint, amount int64) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if senderID == receiverID {
		return nil, domain.ErrSelfTransfer
	}

	var sender models.User
	if err := tx.First(&sender, senderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSenderNotFound
		}
		return nil, err
	}
	var receiver models.User
	if err := tx.First(&receiver, receiverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReceiverNotFound
		}
		return nil, err
	}

	res := tx.Model(&models.User{}).
		Where("id = ? AND time_credits >= ?", senderID, amount).
		Update("time_credits", gorm.Expr("time_credits - ?", amount))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrInsufficientCredits
	}
	if err := tx.Model(&models.User{}).Where("id = ?", receiverID).
		Update("time_credits", gorm.Expr("time_credits + ?", amount)).Error; err != nil {
		return nil, err
	}

	rec := &models.Transaction{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Amount:     amount,
		Date:       time.Now().UTC(),
	}
	if err := tx.Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// creditIn adds amount to a user's balance inside tx and records a
// transaction row attributing the payment to sender. Used when releasing
// held credits: the sender's balance was already debited at escrow time, so
// only the receiver side moves here.
func creditIn(tx *gorm.DB, senderID, receiverID uint, amount int64) (*models.Transaction, error) {
	res := tx.Model(&models.User{}).Where("id = ?", receiverID).
		Update("time_credits", gorm.Expr("time_credits + ?", amount))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrReceiverNotFound
	}
	rec := &models.Transaction{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Amount:     amount,
		Date:       time.Now().UTC(),
	}
	if err := tx.Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// debitIn subtracts amount from a user's balance inside tx, failing with
// ErrInsufficientCredits when the balance does not cover it. No transaction
// row is written: moving credits into escrow is a relocation, not a payment.
func debitIn(tx *gorm.DB, userID uint, amount int64) error {
	var u models.User
	if err := tx.First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrSenderNotFound
		}
		return err
	}
	res := tx.Model(&models.User{}).
		Where("id = ? AND time_credits >= ?", userID, amount).
		Update("time_credits", gorm.Expr("time_credits - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInsufficientCredits
	}
	return nil
}
