package repository

import (
	"context"

	"reviewlens/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// UsageRepository appends usage events and AI call logs.
type UsageRepository interface {
	LogEvent(ctx context.Context, event *models.UsageEvent) error
	LogAI(ctx context.Context, entry *models.AILog) error
}

type usageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) UsageRepository {
	return &usageRepository{db: db}
}

func (r *usageRepository) LogEvent(ctx context.Context, event *models.UsageEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *usageRepository) LogAI(ctx context.Context, entry *models.AILog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
