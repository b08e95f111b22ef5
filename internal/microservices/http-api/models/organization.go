package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	MemberRoleOwner  = "OWNER"
	MemberRoleAdmin  = "ADMIN"
	MemberRoleMember = "MEMBER"
)

type Organization struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) (err error) {
	assignID(&o.ID)
	return
}

func (Organization) TableName() string {
	return "organizations"
}

// OrganizationMember links a user to an organization; one row per pair.
type OrganizationMember struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	OrganizationID string `gorm:"type:uuid;not null;uniqueIndex:idx_org_member" json:"organization_id"`
	UserID         string `gorm:"type:uuid;not null;uniqueIndex:idx_org_member;index" json:"user_id"`
	Role           string `gorm:"not null" json:"role"`

	// Associations
	Organization *Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE;" json:"organization,omitempty"`
	User         *User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"user,omitempty"`
}

func (m *OrganizationMember) BeforeCreate(tx *gorm.DB) (err error) {
	assignID(&m.ID)
	return
}

func (OrganizationMember) TableName() string {
	return "organization_members"
}
