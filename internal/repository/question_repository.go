package repository

import (
	"skill_assess_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) FindBySkillAndLevel(skillID uint, level model.SkillLevel) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("skill_id = ? AND level = ?", skillID, level).Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) FindByIDs(ids []uint) ([]model.Question, error) {
	var questions []model.Question
	if len(ids) == 0 {
		return questions, nil
	}
	err := r.DB.Where("id IN ?", ids).Find(&questions).Error
	return questions, err
}

// ExistingTexts returns the question texts already stored for a
// (skill, level) pair, used for dedup before insert.
func (r *QuestionRepository) ExistingTexts(skillID uint, level model.SkillLevel) ([]string, error) {
	var texts []string
	err := r.DB.Model(&model.Question{}).
		Where("skill_id = ? AND level = ?", skillID, level).
		Pluck("text", &texts).Error
	return texts, err
}

// CreateBatch inserts a generated batch in one transaction so a
// malformed batch never leaves partial rows behind.
func (r *QuestionRepository) CreateBatch(questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&questions).Error
	})
}
