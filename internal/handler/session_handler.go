package handler

import (
	"errors"
	"net/http"
	"time"

	"skillbarter/internal/domain"
	"skillbarter/internal/middleware"
	"skillbarter/internal/service"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessionSvc *service.SessionService
}

func NewSessionHandler(sessionSvc *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// Schedule creates a new session, optionally opening a course instance.
func (h *SessionHandler) Schedule(c *gin.Context) {
	studentID := middleware.GetUserID(c)
	var req struct {
		TeacherID        uint      `json:"teacher_id" binding:"required"`
		SkillID          uint      `json:"skill_id" binding:"required"`
		ScheduledTime    time.Time `json:"scheduled_time" binding:"required"`
		DurationMinutes  int       `json:"duration_minutes" binding:"required,min=1"`
		CourseInstanceID *string   `json:"course_instance_id"`
		SequenceNumber   int       `json:"sequence_number"`
		CreateCourse     bool      `json:"create_course"`
		TotalSessions    int       `json:"total_sessions"`
		PaymentPlan      string    `json:"payment_plan"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, err := h.sessionSvc.Schedule(studentID, service.ScheduleInput{
		TeacherID:        req.TeacherID,
		SkillID:          req.SkillID,
		ScheduledTime:    req.ScheduledTime,
		DurationMinutes:  req.DurationMinutes,
		CourseInstanceID: req.CourseInstanceID,
		SequenceNumber:   req.SequenceNumber,
		CreateCourse:     req.CreateCourse,
		TotalSessions:    req.TotalSessions,
		PaymentPlan:      req.PaymentPlan,
	})
	if err != nil {
		if errors.Is(err, domain.ErrCourseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "schedule failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":            "session scheduled",
		"session_id":         sess.ID,
		"room_name":          sess.RoomName,
		"credit_amount":      sess.CreditAmount,
		"course_instance_id": sess.CourseInstanceID,
	})
}

// List returns the user's sessions; ?role=student|teacher filters by side.
func (h *SessionHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	views, err := h.sessionSvc.List(userID, c.Query("role"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": views})
}

// Join admits the requester to the session's video room, escrowing the
// student's credits on first join.
func (h *SessionHandler) Join(c *gin.Context) {
	userID := middleware.GetUserID(c)
	result, err := h.sessionSvc.Join(c.Param("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrCourseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrNotAuthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "not authorized to join this session"})
		case errors.Is(err, domain.ErrInsufficientCredits):
			c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient credits to join the session"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "join failed"})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateStatus transitions the session; completion triggers settlement.
func (h *SessionHandler) UpdateStatus(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.sessionSvc.UpdateStatus(c.Param("id"), userID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrNotAuthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "not authorized to update this session"})
		case errors.Is(err, domain.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session status updated"})
}
