package handler

import (
	"net/http"

	"skillbarter/internal/domain"
	"skillbarter/internal/models"
	"skillbarter/internal/repository"

	"github.com/gin-gonic/gin"
)

type SkillHandler struct {
	skillRepo *repository.SkillRepository
}

func NewSkillHandler(skillRepo *repository.SkillRepository) *SkillHandler {
	return &SkillHandler{skillRepo: skillRepo}
}

func (h *SkillHandler) Create(c *gin.Context) {
	var req struct {
		Name          string `json:"name" binding:"required"`
		TotalSessions int    `json:"total_sessions"`
		PaymentPlan   string `json:"payment_plan"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.TotalSessions < 1 {
		req.TotalSessions = 1
	}
	if req.PaymentPlan == "" {
		req.PaymentPlan = domain.PlanPerSession
	}
	if !domain.ValidPaymentPlan(req.PaymentPlan) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment plan"})
		return
	}
	skill := &models.Skill{
		Name:          req.Name,
		TotalSessions: req.TotalSessions,
		PaymentPlan:   req.PaymentPlan,
	}
	if err := h.skillRepo.Create(skill); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, skill)
}

func (h *SkillHandler) List(c *gin.Context) {
	skills, err := h.skillRepo.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"skills": skills})
}
