package repository

import (
	"time"

	"skill_assess_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// CreateWithQuestions persists the attempt and its sampled question
// rows atomically.
func (r *AttemptRepository) CreateWithQuestions(attempt *model.TestAttempt, questions []model.TestAttemptQuestion) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attempt).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].AttemptID = attempt.ID
		}
		return tx.Create(&questions).Error
	})
}

func (r *AttemptRepository) FindByID(id string) (*model.TestAttempt, error) {
	var a model.TestAttempt
	if err := r.DB.Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttemptRepository) QuestionsByAttempt(attemptID string) ([]model.TestAttemptQuestion, error) {
	var questions []model.TestAttemptQuestion
	err := r.DB.Where("attempt_id = ?", attemptID).Order("position asc").Find(&questions).Error
	return questions, err
}

// FinalizeSubmission freezes the attempt's aggregates behind a
// compare-and-set on the status column. Returns false when another
// submission already won the race; no rows are touched in that case.
func (r *AttemptRepository) FinalizeSubmission(attempt *model.TestAttempt, answered []model.TestAttemptQuestion) (bool, error) {
	claimed := false
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.TestAttempt{}).
			Where("id = ? AND status = ?", attempt.ID, model.AttemptInProgress).
			Updates(map[string]interface{}{
				"status":        model.AttemptSubmitted,
				"score":         attempt.Score,
				"correct_count": attempt.CorrectCount,
				"total_count":   attempt.TotalCount,
				"weak_topics":   attempt.WeakTopics,
				"expires_at":    nil,
				"submitted_at":  attempt.SubmittedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		claimed = true

		for _, q := range answered {
			if err := tx.Model(&model.TestAttemptQuestion{}).
				Where("id = ?", q.ID).
				Updates(map[string]interface{}{
					"submitted_answer": q.SubmittedAnswer,
					"is_correct":       q.IsCorrect,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return claimed, err
}

func (r *AttemptRepository) ListSubmitted(userID, skillID uint) ([]model.TestAttempt, error) {
	var attempts []model.TestAttempt
	err := r.DB.
		Where("user_id = ? AND skill_id = ? AND status = ?", userID, skillID, model.AttemptSubmitted).
		Order("submitted_at desc").
		Find(&attempts).Error
	return attempts, err
}

// DeleteExpired reaps unsubmitted attempts whose TTL has elapsed,
// together with their question rows.
func (r *AttemptRepository) DeleteExpired(now time.Time) (int64, error) {
	var reaped int64
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&model.TestAttempt{}).
			Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", model.AttemptInProgress, now).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("attempt_id IN ?", ids).Delete(&model.TestAttemptQuestion{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&model.TestAttempt{})
		reaped = res.RowsAffected
		return res.Error
	})
	return reaped, err
}
