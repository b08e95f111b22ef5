package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleOwner   = "OWNER"
	RoleCreator = "CREATOR"
)

type User struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"column:password_hash;not null" json:"-"` // Not show in JSON
	Role      string    `gorm:"not null" json:"role"`                   // OWNER (business) or CREATOR
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	assignID(&user.ID)
	return
}

func (User) TableName() string {
	return "users"
}

// assignID generates an id if the record does not carry one yet.
func assignID(id *string) {
	if *id == "" {
		*id = uuid.New().String()
	}
}

// All lists every model for AutoMigrate, parents before children.
func All() []any {
	return []any{
		&User{},
		&Organization{},
		&OrganizationMember{},
		&ReviewSource{},
		&Review{},
		&AspectScore{},
		&Insight{},
		&AILog{},
		&CreatorProfile{},
		&CreatorStats{},
		&Shortlist{},
		&TrainingResource{},
		&UsageEvent{},
	}
}
