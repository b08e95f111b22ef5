package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	TrainingFormatDoc   = "DOC"
	TrainingFormatVideo = "VIDEO"
)

type TrainingResource struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Category  string    `gorm:"not null;index" json:"category"`
	Title     string    `gorm:"not null" json:"title"`
	Format    string    `gorm:"not null" json:"format"`
	URL       *string   `json:"url,omitempty"`
	Markdown  *string   `gorm:"type:text" json:"markdown,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *TrainingResource) BeforeCreate(tx *gorm.DB) (err error) {
	assignID(&t.ID)
	return
}

func (TrainingResource) TableName() string {
	return "training_resources"
}
