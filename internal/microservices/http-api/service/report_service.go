package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reviewlens/internal/analytics"
	"reviewlens/internal/classifier"
	"reviewlens/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

const reportInsights = 5

type ReportService interface {
	Weekly(ctx context.Context, orgID string) (*classifier.Report, error)
}

type reportService struct {
	orgRepo     repository.OrganizationRepository
	reviewRepo  repository.ReviewRepository
	insightRepo repository.InsightRepository
	aspects     AspectService
	ai          *AIGateway
	now         func() time.Time
}

func NewReportService(
	orgRepo repository.OrganizationRepository,
	reviewRepo repository.ReviewRepository,
	insightRepo repository.InsightRepository,
	aspects AspectService,
	ai *AIGateway,
) ReportService {
	return &reportService{
		orgRepo:     orgRepo,
		reviewRepo:  reviewRepo,
		insightRepo: insightRepo,
		aspects:     aspects,
		ai:          ai,
		now:         time.Now,
	}
}

// Weekly writes a plain-text report over the last seven days of reviews,
// the current aspect rollups and the latest insight titles
func (s *reportService) Weekly(ctx context.Context, orgID string) (*classifier.Report, error) {
	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("organization %s: %w", orgID, ErrNotFound)
		}
		return nil, err
	}

	weekAgo := s.now().AddDate(0, 0, -7)
	reviews, _, err := s.reviewRepo.List(ctx, orgID, repository.ReviewFilters{DateFrom: &weekAgo, PageSize: 1000})
	if err != nil {
		return nil, err
	}
	ratings := make([]int, 0, len(reviews))
	for _, r := range reviews {
		ratings = append(ratings, r.Rating)
	}
	summary := analytics.SummarizeRatings(ratings)

	rollups, err := s.aspects.Rollups(ctx, orgID)
	if err != nil {
		return nil, err
	}
	scores := make(map[string]int, len(rollups))
	for _, r := range rollups {
		scores[r.Aspect] = r.Score
	}

	insights, err := s.insightRepo.List(ctx, orgID, reportInsights)
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(insights))
	for _, i := range insights {
		titles = append(titles, i.Title)
	}

	return s.ai.WeeklyReport(ctx, orgID, classifier.ReportInput{
		OrganizationName: org.Name,
		TotalReviews:     summary.TotalReviews,
		AverageRating:    summary.AverageRating,
		AspectScores:     scores,
		KeyInsights:      titles,
	})
}
