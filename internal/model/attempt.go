package model

import (
	"encoding/json"
	"time"
)

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptSubmitted  AttemptStatus = "submitted"
)

// TestAttempt is one instance of a user taking a sampled test.
// Aggregate fields are written exactly once, by submission; ExpiresAt
// is cleared at the same moment.
// swagger:model TestAttempt
type TestAttempt struct {
	UUIDBase
	UserID       uint            `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	SkillID      uint            `gorm:"index;type:bigint unsigned;not null" json:"skillId"`
	Level        SkillLevel      `gorm:"size:20;not null" json:"level"`
	Status       AttemptStatus   `gorm:"size:20;default:'in_progress';index" json:"status"`
	Score        int             `gorm:"default:0" json:"score"`
	CorrectCount int             `gorm:"default:0" json:"correctCount"`
	TotalCount   int             `gorm:"default:0" json:"totalCount"`
	WeakTopics   json.RawMessage `gorm:"type:json" json:"weakTopics,omitempty"`
	ExpiresAt    *time.Time      `gorm:"index" json:"expiresAt,omitempty"`
	SubmittedAt  *time.Time      `json:"submittedAt,omitempty"`
}

func (TestAttempt) TableName() string {
	return "test_attempts"
}

func (a *TestAttempt) Expired(now time.Time) bool {
	return a.Status == AttemptInProgress && a.ExpiresAt != nil && now.After(*a.ExpiresAt)
}

// WeakTopicList decodes the stored weak-topic array.
func (a *TestAttempt) WeakTopicList() []string {
	var topics []string
	if len(a.WeakTopics) > 0 {
		_ = json.Unmarshal(a.WeakTopics, &topics)
	}
	return topics
}

// TestAttemptQuestion is one sampled question inside an attempt, in
// draw order. SubmittedAnswer and IsCorrect stay zero until the
// attempt is submitted.
// swagger:model TestAttemptQuestion
type TestAttemptQuestion struct {
	BaseModel
	AttemptID       string `gorm:"index;type:varchar(36);not null" json:"attemptId"`
	QuestionID      uint   `gorm:"index;type:bigint unsigned;not null" json:"questionId"`
	Position        int    `gorm:"default:0" json:"position"`
	SubmittedAnswer string `gorm:"type:text" json:"submittedAnswer"`
	IsCorrect       bool   `gorm:"default:false" json:"isCorrect"`
}

func (TestAttemptQuestion) TableName() string {
	return "test_attempt_questions"
}
