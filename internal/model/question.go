package model

import "encoding/json"

// Question is one AI-authored multiple-choice item in the bank for a
// (skill, level) pair. CorrectAnswer always holds canonical option
// text, never a letter or an index; rows are immutable after creation.
// swagger:model Question
type Question struct {
	BaseModel
	SkillID       uint            `gorm:"index:idx_questions_skill_level;type:bigint unsigned;not null" json:"skillId"`
	Level         SkillLevel      `gorm:"index:idx_questions_skill_level;size:20;not null" json:"level"`
	MainTopic     string          `gorm:"size:255" json:"mainTopic"`
	SubTopic      string          `gorm:"size:255" json:"subTopic"`
	Topic         string          `gorm:"size:255" json:"topic"`
	Text          string          `gorm:"type:text;not null" json:"text"`
	Options       json.RawMessage `gorm:"type:json" json:"options"`
	CorrectAnswer string          `gorm:"type:text;not null" json:"correctAnswer"`
}

func (Question) TableName() string {
	return "questions"
}

// OptionList decodes the stored options array.
func (q *Question) OptionList() ([]string, error) {
	var opts []string
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// WeakTopic returns the remediation key for this question: subTopic
// when present, otherwise topic.
func (q *Question) WeakTopic() string {
	if q.SubTopic != "" {
		return q.SubTopic
	}
	return q.Topic
}
