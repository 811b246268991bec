package repository

import (
	"errors"

	"skill_assess_backend/internal/model"

	"gorm.io/gorm"
)

type SkillRepository struct {
	DB *gorm.DB
}

func NewSkillRepository(db *gorm.DB) *SkillRepository {
	return &SkillRepository{DB: db}
}

func (r *SkillRepository) Create(skill *model.Skill) error {
	return r.DB.Create(skill).Error
}

func (r *SkillRepository) FindByID(id uint) (*model.Skill, error) {
	var s model.Skill
	if err := r.DB.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SkillRepository) Exists(id uint) (bool, error) {
	var s model.Skill
	err := r.DB.Select("id").First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *SkillRepository) List() ([]model.Skill, error) {
	var skills []model.Skill
	err := r.DB.Order("name asc").Find(&skills).Error
	return skills, err
}
