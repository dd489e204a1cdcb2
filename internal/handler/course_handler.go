package handler

import (
	"errors"
	"net/http"

	"skillbarter/internal/domain"
	"skillbarter/internal/middleware"
	"skillbarter/internal/repository"

	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	courseRepo *repository.CourseRepository
}

func NewCourseHandler(courseRepo *repository.CourseRepository) *CourseHandler {
	return &CourseHandler{courseRepo: courseRepo}
}

// ListMine returns course instances the user is enrolled in or teaches.
func (h *CourseHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	list, err := h.courseRepo.ListByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": list})
}

// Get returns one course instance; only its student or teacher may see it.
func (h *CourseHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	ci, err := h.courseRepo.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrCourseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	if ci.StudentID != userID && ci.TeacherID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized"})
		return
	}
	c.JSON(http.StatusOK, ci)
}
