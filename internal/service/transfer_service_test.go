package service

import (
	"testing"

	"skillbarter/internal/domain"
	"skillbarter/internal/models"
	"skillbarter/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferMovesCreditsAndLogsTransaction(t *testing.T) {
	db := newTestDB(t)
	svc := NewTransferService(db)
	alice := createUser(t, db, "alice", 10)
	bob := createUser(t, db, "bob", 3)

	rec, err := svc.Transfer(alice.ID, bob.ID, 4)
	require.NoError(t, err)

	assert.Equal(t, int64(6), balanceOf(t, db, alice.ID))
	assert.Equal(t, int64(7), balanceOf(t, db, bob.ID))
	assert.Equal(t, alice.ID, rec.SenderID)
	assert.Equal(t, bob.ID, rec.ReceiverID)
	assert.Equal(t, int64(4), rec.Amount)
	assert.NotEmpty(t, rec.ID)

	var logged models.Transaction
	require.NoError(t, db.Where("id = ?", rec.ID).First(&logged).Error)
	assert.Equal(t, int64(4), logged.Amount)
}

func TestTransferInsufficientCreditsLeavesStateUnchanged(t *testing.T) {
	db := newTestDB(t)
	svc := NewTransferService(db)
	alice := createUser(t, db, "alice", 3)
	bob := createUser(t, db, "bob", 0)

	_, err := svc.Transfer(alice.ID, bob.ID, 4)
	assert.ErrorIs(t, err, domain.ErrInsufficientCredits)

	assert.Equal(t, int64(3), balanceOf(t, db, alice.ID))
	assert.Equal(t, int64(0), balanceOf(t, db, bob.ID))
	assert.Equal(t, int64(0), transactionCount(t, db))
}

func TestTransferRejectsSelfTransfer(t *testing.T) {
	db := newTestDB(t)
	svc := NewTransferService(db)
	alice := createUser(t, db, "alice", 10)

	_, err := svc.Transfer(alice.ID, alice.ID, 1)
	assert.ErrorIs(t, err, domain.ErrSelfTransfer)
	assert.Equal(t, int64(10), balanceOf(t, db, alice.ID))
}

func TestTransferRejectsNonPositiveAmount(t *testing.T) {
	db := newTestDB(t)
	svc := NewTransferService(db)
	alice := createUser(t, db, "alice", 10)
	bob := createUser(t, db, "bob", 0)

	_, err := svc.Transfer(alice.ID, bob.ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	_, err = svc.Transfer(alice.ID, bob.ID, -5)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestTransferUnknownParties(t *testing.T) {
	db := newTestDB(t)
	svc := NewTransferService(db)
	alice := createUser(t, db, "alice", 10)

	_, err := svc.Transfer(9999, alice.ID, 1)
	assert.ErrorIs(t, err, domain.ErrSenderNotFound)

	_, err = svc.Transfer(alice.ID, 9999, 1)
	assert.ErrorIs(t, err, domain.ErrReceiverNotFound)
	assert.Equal(t, int64(10), balanceOf(t, db, alice.ID))
}

func TestTransferByEmailResolvesReceiver(t *testing.T) {
	db := newTestDB(t)
	svc := NewTransferService(db)
	alice := createUser(t, db, "alice", 10)
	bob := createUser(t, db, "bob", 0)

	rec, err := svc.TransferByEmail(alice.ID, "bob@example.com", 2)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, rec.ReceiverID)
	assert.Equal(t, int64(2), balanceOf(t, db, bob.ID))

	_, err = svc.TransferByEmail(alice.ID, "nobody@example.com", 2)
	assert.ErrorIs(t, err, domain.ErrReceiverNotFound)
}

func TestTransferConservation(t *testing.T) {
	db := newTestDB(t)
	svc := NewTransferService(db)
	alice := createUser(t, db, "alice", 20)
	bob := createUser(t, db, "bob", 5)
	carol := createUser(t, db, "carol", 0)

	before := totalCredits(t, db)

	_, err := svc.Transfer(alice.ID, bob.ID, 7)
	require.NoError(t, err)
	_, err = svc.Transfer(bob.ID, carol.ID, 12)
	require.NoError(t, err)
	_, err = svc.Transfer(carol.ID, alice.ID, 1)
	require.NoError(t, err)
	// a failing transfer must not leak credits either
	_, err = svc.Transfer(carol.ID, bob.ID, 1000)
	assert.ErrorIs(t, err, domain.ErrInsufficientCredits)

	assert.Equal(t, before, totalCredits(t, db))
}

func TestTransferHistoryShowsBothSides(t *testing.T) {
	db := newTestDB(t)
	svc := NewTransferService(db)
	txRepo := repository.NewTransactionRepository(db)
	alice := createUser(t, db, "alice", 10)
	bob := createUser(t, db, "bob", 10)

	_, err := svc.Transfer(alice.ID, bob.ID, 3)
	require.NoError(t, err)
	_, err = svc.Transfer(bob.ID, alice.ID, 1)
	require.NoError(t, err)

	history, err := txRepo.HistoryByUser(alice.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)

	types := map[string]string{}
	for _, h := range history {
		types[h.Type] = h.OtherParty
	}
	assert.Equal(t, "bob", types["SENT"])
	assert.Equal(t, "bob", types["RECEIVED"])
}
