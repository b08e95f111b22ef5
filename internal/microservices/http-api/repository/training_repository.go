package repository

import (
	"context"

	"reviewlens/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type TrainingRepository interface {
	List(ctx context.Context, category string) ([]models.TrainingResource, error)
	Create(ctx context.Context, resource *models.TrainingResource) error
}

type trainingRepository struct {
	db *gorm.DB
}

func NewTrainingRepository(db *gorm.DB) TrainingRepository {
	return &trainingRepository{db: db}
}

// List returns resources ordered by title, optionally restricted to one category
func (r *trainingRepository) List(ctx context.Context, category string) ([]models.TrainingResource, error) {
	var resources []models.TrainingResource
	query := r.db.WithContext(ctx)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	err := query.Order("title").Find(&resources).Error
	return resources, err
}

func (r *trainingRepository) Create(ctx context.Context, resource *models.TrainingResource) error {
	return r.db.WithContext(ctx).Create(resource).Error
}
