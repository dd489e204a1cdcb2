package handler

import (
	"errors"
	"net/http"

	"skillbarter/internal/domain"
	"skillbarter/internal/middleware"
	"skillbarter/internal/repository"
	"skillbarter/internal/service"

	"github.com/gin-gonic/gin"
)

type CreditHandler struct {
	userRepo *repository.UserRepository
	txRepo   *repository.TransactionRepository
	transfer *service.TransferService
}

func NewCreditHandler(userRepo *repository.UserRepository, txRepo *repository.TransactionRepository, transfer *service.TransferService) *CreditHandler {
	return &CreditHandler{userRepo: userRepo, txRepo: txRepo, transfer: transfer}
}

// GetBalance returns the current user's time-credit balance.
func (h *CreditHandler) GetBalance(c *gin.Context) {
	userID := middleware.GetUserID(c)
	balance, err := h.userRepo.GetBalance(userID)
	if err != nil {
		if errors.Is(err, domain.ErrSenderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// GetHistory returns the user's transfer history, newest first.
func (h *CreditHandler) GetHistory(c *gin.Context) {
	userID := middleware.GetUserID(c)
	history, err := h.txRepo.HistoryByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	if history == nil {
		history = []repository.HistoryEntry{}
	}
	c.JSON(http.StatusOK, history)
}

// Transfer sends credits to another user looked up by email.
func (h *CreditHandler) Transfer(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		ReceiverEmail string `json:"receiver_email" binding:"required,email"`
		Amount        int64  `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := h.transfer.TransferByEmail(userID, req.ReceiverEmail, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrSelfTransfer),
			errors.Is(err, domain.ErrInsufficientCredits):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrReceiverNotFound), errors.Is(err, domain.ErrSenderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "transfer failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, rec)
}
