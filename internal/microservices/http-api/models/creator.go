package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"reviewlens/internal/analytics"
)

type CreatorProfile struct {
	ID           string         `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string         `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	DisplayName  string         `gorm:"not null" json:"display_name"`
	Bio          string         `gorm:"type:text;not null" json:"bio"`
	City         string         `gorm:"not null" json:"city"`
	Country      string         `gorm:"not null" json:"country"`
	Niches       pq.StringArray `gorm:"type:text[];not null" json:"niches"`
	InstagramURL *string        `json:"instagram_url,omitempty"`
	FacebookURL  *string        `json:"facebook_url,omitempty"`
	TiktokURL    *string        `json:"tiktok_url,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`

	// Associations
	User  *User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
	Stats *CreatorStats `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE;" json:"stats,omitempty"`
}

func (p *CreatorProfile) BeforeCreate(tx *gorm.DB) (err error) {
	assignID(&p.ID)
	return
}

func (CreatorProfile) TableName() string {
	return "creator_profiles"
}

// BrandFitInput projects the profile and its stats onto the scorer input.
// A profile without stats scores with a zero engagement rate.
func (p *CreatorProfile) BrandFitInput() analytics.BrandFitInput {
	in := analytics.BrandFitInput{
		Niches:  p.Niches,
		Country: p.Country,
		City:    p.City,
	}
	if p.Stats != nil {
		in.EngagementRate = p.Stats.EngagementRate
	}
	return in
}

type CreatorStats struct {
	ID                   string    `gorm:"primaryKey;type:uuid" json:"id"`
	CreatorID            string    `gorm:"type:uuid;not null;uniqueIndex" json:"creator_id"`
	Followers            int       `gorm:"not null;check:followers >= 0" json:"followers"`
	EngagementRate       float64   `gorm:"type:numeric(5,2);not null" json:"engagement_rate"`
	Impressions30d       int       `gorm:"column:impressions_30d;not null" json:"impressions_30d"`
	PostFrequencyPerWeek int       `gorm:"not null" json:"post_frequency_per_week"`
	LastUpdated          time.Time `gorm:"autoUpdateTime" json:"last_updated"`
}

func (s *CreatorStats) BeforeCreate(tx *gorm.DB) (err error) {
	assignID(&s.ID)
	return
}

func (CreatorStats) TableName() string {
	return "creator_stats"
}

type Shortlist struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	OrganizationID string    `gorm:"type:uuid;not null;uniqueIndex:idx_shortlist_org_creator" json:"organization_id"`
	CreatorID      string    `gorm:"type:uuid;not null;uniqueIndex:idx_shortlist_org_creator" json:"creator_id"`
	CreatedAt      time.Time `json:"created_at"`

	// Associations
	Creator *CreatorProfile `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE;" json:"creator,omitempty"`
}

func (s *Shortlist) BeforeCreate(tx *gorm.DB) (err error) {
	assignID(&s.ID)
	return
}

func (Shortlist) TableName() string {
	return "shortlists"
}
