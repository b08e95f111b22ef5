package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ReviewSource struct {
	ID             string  `gorm:"primaryKey;type:uuid" json:"id"`
	OrganizationID string  `gorm:"type:uuid;not null;uniqueIndex:idx_source_org_name" json:"organization_id"`
	Name           string  `gorm:"not null;uniqueIndex:idx_source_org_name" json:"name"`
	URL            *string `json:"url,omitempty"`
}

func (s *ReviewSource) BeforeCreate(tx *gorm.DB) (err error) {
	assignID(&s.ID)
	return
}

func (ReviewSource) TableName() string {
	return "review_sources"
}

type Review struct {
	ID             string         `gorm:"primaryKey;type:uuid" json:"id"`
	OrganizationID string         `gorm:"type:uuid;not null;index:idx_reviews_org_created" json:"organization_id"`
	SourceID       string         `gorm:"type:uuid;not null;index" json:"source_id"`
	ExternalID     *string        `json:"external_id,omitempty"`
	Author         *string        `json:"author,omitempty"`
	Rating         int            `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Text           string         `gorm:"type:text;not null" json:"text"`
	CreatedAt      time.Time      `gorm:"index:idx_reviews_org_created" json:"created_at"`
	RawJSON        datatypes.JSON `gorm:"column:raw_json" json:"raw_json,omitempty"`

	// Associations
	Source       *ReviewSource `gorm:"foreignKey:SourceID;constraint:OnDelete:CASCADE;" json:"source,omitempty"`
	AspectScores []AspectScore `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE;" json:"aspect_scores,omitempty"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	assignID(&r.ID)
	return
}

func (Review) TableName() string {
	return "reviews"
}

// AspectScore stores score on the [0,1] scale (numeric(3,2)); the repository
// converts to and from the [0,100] domain scale.
type AspectScore struct {
	ID        string  `gorm:"primaryKey;type:uuid" json:"id"`
	ReviewID  string  `gorm:"type:uuid;not null;uniqueIndex:idx_review_aspect" json:"review_id"`
	Aspect    string  `gorm:"not null;uniqueIndex:idx_review_aspect" json:"aspect"`
	Sentiment string  `gorm:"not null" json:"sentiment"`
	Score     float64 `gorm:"type:numeric(3,2);not null" json:"score"`
}

func (a *AspectScore) BeforeCreate(tx *gorm.DB) (err error) {
	assignID(&a.ID)
	return
}

func (AspectScore) TableName() string {
	return "aspect_scores"
}
