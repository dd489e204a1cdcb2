package repository

import (
	"errors"

	"skillbarter/internal/domain"
	"skillbarter/internal/models"

	"gorm.io/gorm"
)

type SkillRepository struct {
	db *gorm.DB
}

func NewSkillRepository(db *gorm.DB) *SkillRepository {
	return &SkillRepository{db: db}
}

func (r *SkillRepository) Create(s *models.Skill) error {
	return r.db.Create(s).Error
}

func (r *SkillRepository) GetByID(id uint) (*models.Skill, error) {
	var s models.Skill
	if err := r.db.First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSkillNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SkillRepository) List() ([]models.Skill, error) {
	var skills []models.Skill
	err := r.db.Order("name").Find(&skills).Error
	return skills, err
}
