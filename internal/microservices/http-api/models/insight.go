package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Insight struct {
	ID                    string         `gorm:"primaryKey;type:uuid" json:"id"`
	OrganizationID        string         `gorm:"type:uuid;not null;index" json:"organization_id"`
	Title                 string         `gorm:"not null" json:"title"`
	Summary               string         `gorm:"type:text;not null" json:"summary"`
	Aspects               pq.StringArray `gorm:"type:text[];not null" json:"aspects"`
	Severity              string         `gorm:"not null" json:"severity"`
	Recommendations       pq.StringArray `gorm:"type:text[]" json:"recommendations"`
	FromDate              time.Time      `gorm:"not null" json:"from_date"`
	ToDate                time.Time      `gorm:"not null" json:"to_date"`
	ContributingReviewIDs string         `gorm:"type:text;not null" json:"contributing_review_ids"` // comma separated
	CreatedAt             time.Time      `gorm:"index" json:"created_at"`
}

func (i *Insight) BeforeCreate(tx *gorm.DB) (err error) {
	assignID(&i.ID)
	return
}

func (Insight) TableName() string {
	return "insights"
}

// AILog records one classifier round trip.
type AILog struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	OrganizationID string    `gorm:"type:uuid;not null;index" json:"organization_id"`
	Route          string    `gorm:"not null" json:"route"`
	PromptHash     string    `gorm:"not null;index" json:"prompt_hash"`
	Prompt         string    `gorm:"type:text;not null" json:"prompt"`
	Response       string    `gorm:"type:text;not null" json:"response"`
	TokensIn       int       `gorm:"not null" json:"tokens_in"`
	TokensOut      int       `gorm:"not null" json:"tokens_out"`
	Success        bool      `gorm:"not null" json:"success"`
	CreatedAt      time.Time `json:"created_at"`
}

func (l *AILog) BeforeCreate(tx *gorm.DB) (err error) {
	assignID(&l.ID)
	return
}

func (AILog) TableName() string {
	return "ai_logs"
}
