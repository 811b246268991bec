package model

// swagger:model Skill
type Skill struct {
	BaseModel
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	CreatedBy   uint   `gorm:"index;type:bigint unsigned" json:"createdBy"`
}

func (Skill) TableName() string {
	return "skills"
}

// SkillLevel is the ordered proficiency tier for questions, attempts
// and registrations.
type SkillLevel string

const (
	LevelBeginner     SkillLevel = "beginner"
	LevelIntermediate SkillLevel = "intermediate"
	LevelAdvanced     SkillLevel = "advanced"
)

func (l SkillLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Next returns the tier one step up. Advanced is terminal and
// returns itself.
func (l SkillLevel) Next() SkillLevel {
	switch l {
	case LevelBeginner:
		return LevelIntermediate
	case LevelIntermediate:
		return LevelAdvanced
	default:
		return LevelAdvanced
	}
}
