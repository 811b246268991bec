package model

import "time"

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

// User is the minimal identity record backing JWT claims. Account
// creation, login and password handling live in the external auth
// service; this table only mirrors what the engine needs for
// foreign keys and activity tracking.
// swagger:model User
type User struct {
	BaseModel
	Name     string     `gorm:"size:100;not null" json:"name"`
	Email    string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role     UserRole   `gorm:"size:20;default:'student'" json:"role"`
	LastSeen *time.Time `json:"lastSeen,omitempty"`
}

func (User) TableName() string {
	return "users"
}
