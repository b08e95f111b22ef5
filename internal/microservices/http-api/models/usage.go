package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	UsageAICall = "AI_CALL"
	UsageUpload = "UPLOAD"
)

type UsageEvent struct {
	ID             string            `gorm:"primaryKey;type:uuid" json:"id"`
	OrganizationID string            `gorm:"type:uuid;not null;index:idx_usage_org_created" json:"organization_id"`
	Type           string            `gorm:"not null" json:"type"` // AI_CALL or UPLOAD
	Tokens         *int              `json:"tokens,omitempty"`
	MetaJSON       datatypes.JSONMap `gorm:"column:meta_json" json:"meta_json,omitempty"`
	CreatedAt      time.Time         `gorm:"index:idx_usage_org_created" json:"created_at"`
}

func (u *UsageEvent) BeforeCreate(tx *gorm.DB) (err error) {
	assignID(&u.ID)
	return
}

func (UsageEvent) TableName() string {
	return "usage_events"
}
