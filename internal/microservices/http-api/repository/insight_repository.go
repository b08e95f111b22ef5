package repository

import (
	"context"

	"reviewlens/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type InsightRepository interface {
	List(ctx context.Context, orgID string, limit int) ([]models.Insight, error)
	Create(ctx context.Context, insight *models.Insight) error
}

type insightRepository struct {
	db *gorm.DB
}

func NewInsightRepository(db *gorm.DB) InsightRepository {
	return &insightRepository{db: db}
}

// List returns the organization's insights, newest first; limit <= 0 returns all
func (r *insightRepository) List(ctx context.Context, orgID string, limit int) ([]models.Insight, error) {
	var insights []models.Insight
	query := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&insights).Error
	return insights, err
}

func (r *insightRepository) Create(ctx context.Context, insight *models.Insight) error {
	return r.db.WithContext(ctx).Create(insight).Error
}
