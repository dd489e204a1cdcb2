package repository

import (
	"errors"

	"skillbarter/internal/domain"
	"skillbarter/internal/models"

	"gorm.io/gorm"
)

type CourseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) Create(ci *models.CourseInstance) error {
	return r.db.Create(ci).Error
}

func (r *CourseRepository) GetByID(id string) (*models.CourseInstance, error) {
	var ci models.CourseInstance
	if err := r.db.Where("id = ?", id).First(&ci).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, err
	}
	return &ci, nil
}

// ListByUser returns course instances where the user is the student or the teacher.
func (r *CourseRepository) ListByUser(userID uint) ([]models.CourseInstance, error) {
	var list []models.CourseInstance
	err := r.db.Where("student_id = ? OR teacher_id = ?", userID, userID).
		Order("created_at DESC").Find(&list).Error
	return list, err
}
