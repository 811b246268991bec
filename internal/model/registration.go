package model

type RegistrationStatus string

const (
	RegistrationActive    RegistrationStatus = "registered"
	RegistrationWithdrawn RegistrationStatus = "withdrawn"
)

// UserSkillRegistration ties a user to a skill at a proficiency level.
// Rows are created and withdrawn by the external registration flow;
// the engine only reads the status and escalates the level.
// swagger:model UserSkillRegistration
type UserSkillRegistration struct {
	BaseModel
	UserID  uint               `gorm:"index:idx_registrations_user_skill;type:bigint unsigned;not null" json:"userId"`
	SkillID uint               `gorm:"index:idx_registrations_user_skill;type:bigint unsigned;not null" json:"skillId"`
	Status  RegistrationStatus `gorm:"size:20;default:'registered'" json:"status"`
	Level   SkillLevel         `gorm:"size:20;default:'beginner'" json:"level"`
}

func (UserSkillRegistration) TableName() string {
	return "user_skill_registrations"
}
