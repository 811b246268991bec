package repository

import (
	"errors"

	"skill_assess_backend/internal/model"

	"gorm.io/gorm"
)

type RegistrationRepository struct {
	DB *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) *RegistrationRepository {
	return &RegistrationRepository{DB: db}
}

func (r *RegistrationRepository) FindActive(userID, skillID uint) (*model.UserSkillRegistration, error) {
	var reg model.UserSkillRegistration
	err := r.DB.Where("user_id = ? AND skill_id = ? AND status = ?",
		userID, skillID, model.RegistrationActive).First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// IsRegistered is the registration-status lookup consumed by the
// sampler's precondition check.
func (r *RegistrationRepository) IsRegistered(userID, skillID uint) (bool, error) {
	_, err := r.FindActive(userID, skillID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdateLevel escalates the registration level. gorm stamps
// UpdatedAt on the same write.
func (r *RegistrationRepository) UpdateLevel(userID, skillID uint, level model.SkillLevel) error {
	return r.DB.Model(&model.UserSkillRegistration{}).
		Where("user_id = ? AND skill_id = ? AND status = ?", userID, skillID, model.RegistrationActive).
		Update("level", level).Error
}
