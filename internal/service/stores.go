package service

import (
	"time"

	"skill_assess_backend/internal/model"
)

// Store contracts consumed by the assessment services. The gorm
// repositories in internal/repository satisfy them; tests substitute
// in-memory fakes.

type SkillStore interface {
	FindByID(id uint) (*model.Skill, error)
	Exists(id uint) (bool, error)
}

type QuestionStore interface {
	FindBySkillAndLevel(skillID uint, level model.SkillLevel) ([]model.Question, error)
	FindByIDs(ids []uint) ([]model.Question, error)
	ExistingTexts(skillID uint, level model.SkillLevel) ([]string, error)
	CreateBatch(questions []model.Question) error
}

type AttemptStore interface {
	CreateWithQuestions(attempt *model.TestAttempt, questions []model.TestAttemptQuestion) error
	FindByID(id string) (*model.TestAttempt, error)
	QuestionsByAttempt(attemptID string) ([]model.TestAttemptQuestion, error)
	FinalizeSubmission(attempt *model.TestAttempt, answered []model.TestAttemptQuestion) (bool, error)
	ListSubmitted(userID, skillID uint) ([]model.TestAttempt, error)
	DeleteExpired(now time.Time) (int64, error)
}

type RegistrationStore interface {
	IsRegistered(userID, skillID uint) (bool, error)
	FindActive(userID, skillID uint) (*model.UserSkillRegistration, error)
	UpdateLevel(userID, skillID uint, level model.SkillLevel) error
}
