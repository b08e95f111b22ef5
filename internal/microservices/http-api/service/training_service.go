package service

import (
	"context"
	"strings"

	"reviewlens/internal/analytics"
	"reviewlens/internal/microservices/http-api/models"
	"reviewlens/internal/microservices/http-api/repository"
)

const (
	recommendationInsights = 5
	maxRecommendations     = 3
)

type TrainingService interface {
	List(ctx context.Context, category string) ([]models.TrainingResource, error)
	Recommended(ctx context.Context, orgID string) ([]models.TrainingResource, error)
}

type trainingService struct {
	trainingRepo repository.TrainingRepository
	insightRepo  repository.InsightRepository
}

func NewTrainingService(trainingRepo repository.TrainingRepository, insightRepo repository.InsightRepository) TrainingService {
	return &trainingService{trainingRepo: trainingRepo, insightRepo: insightRepo}
}

func (s *trainingService) List(ctx context.Context, category string) ([]models.TrainingResource, error) {
	return s.trainingRepo.List(ctx, strings.TrimSpace(category))
}

// Recommended matches the aspects of the latest insights against resource titles
// and categories, returning at most three resources
func (s *trainingService) Recommended(ctx context.Context, orgID string) ([]models.TrainingResource, error) {
	insights, err := s.insightRepo.List(ctx, orgID, recommendationInsights)
	if err != nil {
		return nil, err
	}

	keywords := aspectKeywords(insights)
	if len(keywords) == 0 {
		return []models.TrainingResource{}, nil
	}

	resources, err := s.trainingRepo.List(ctx, "")
	if err != nil {
		return nil, err
	}

	recommended := make([]models.TrainingResource, 0, maxRecommendations)
	for _, r := range resources {
		title := strings.ToLower(r.Title)
		category := strings.ToLower(r.Category)
		for _, k := range keywords {
			if strings.Contains(title, k) || strings.Contains(category, k) {
				recommended = append(recommended, r)
				break
			}
		}
		if len(recommended) == maxRecommendations {
			break
		}
	}
	return recommended, nil
}

// aspectKeywords yields both spellings of every insight aspect, "food_quality" and "food quality"
func aspectKeywords(insights []models.Insight) []string {
	seen := make(map[string]struct{})
	var keywords []string
	add := func(k string) {
		if _, ok := seen[k]; ok || k == "" {
			return
		}
		seen[k] = struct{}{}
		keywords = append(keywords, k)
	}

	for _, i := range insights {
		for _, a := range i.Aspects {
			add(strings.ToLower(a))
			if aspect, ok := analytics.ParseAspect(a); ok {
				add(aspect.Label())
			}
		}
	}
	return keywords
}
