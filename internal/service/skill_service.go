package service

import (
	"errors"

	"skill_assess_backend/internal/model"
	"skill_assess_backend/internal/repository"
	"skill_assess_backend/internal/util"

	"gorm.io/gorm"
)

// SkillService covers the administrative skill catalog the engine
// samples from. User-facing registration flows live in the external
// platform.
type SkillService struct {
	Repo *repository.SkillRepository
}

func NewSkillService(repo *repository.SkillRepository) *SkillService {
	return &SkillService{Repo: repo}
}

type SkillRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *SkillService) Create(req SkillRequest, createdBy uint) (*model.Skill, error) {
	skill := &model.Skill{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   createdBy,
	}
	if err := s.Repo.Create(skill); err != nil {
		return nil, err
	}
	return skill, nil
}

func (s *SkillService) List() ([]model.Skill, error) {
	return s.Repo.List()
}

func (s *SkillService) Get(id uint) (*model.Skill, error) {
	skill, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSkillNotFound
	}
	if err != nil {
		return nil, err
	}
	return skill, nil
}
