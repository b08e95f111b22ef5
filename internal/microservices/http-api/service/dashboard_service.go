package service

import (
	"context"
	"time"

	"reviewlens/internal/analytics"
	"reviewlens/internal/microservices/http-api/dto"
	"reviewlens/internal/microservices/http-api/repository"
)

const (
	dashboardRecentReviews = 5
	dashboardInsights      = 5
	dashboardTrendDays     = 90
)

type DashboardService interface {
	Get(ctx context.Context, orgID string) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	reviewRepo  repository.ReviewRepository
	reportRepo  repository.ReportRepository
	insightRepo repository.InsightRepository
	aspects     AspectService
	now         func() time.Time
}

func NewDashboardService(
	reviewRepo repository.ReviewRepository,
	reportRepo repository.ReportRepository,
	insightRepo repository.InsightRepository,
	aspects AspectService,
) DashboardService {
	return &dashboardService{
		reviewRepo:  reviewRepo,
		reportRepo:  reportRepo,
		insightRepo: insightRepo,
		aspects:     aspects,
		now:         time.Now,
	}
}

// Get assembles headline metrics, recent reviews, weekly rating trends, aspect
// rollups and the latest insights
func (s *dashboardService) Get(ctx context.Context, orgID string) (*dto.DashboardResponse, error) {
	reviews, err := s.reviewRepo.ListForOrg(ctx, orgID, 0)
	if err != nil {
		return nil, err
	}
	ratings := make([]int, 0, len(reviews))
	for _, r := range reviews {
		ratings = append(ratings, r.Rating)
	}

	recent, err := s.reviewRepo.Recent(ctx, orgID, dashboardRecentReviews)
	if err != nil {
		return nil, err
	}
	recentResponses := make([]dto.ReviewResponse, 0, len(recent))
	for i := range recent {
		recentResponses = append(recentResponses, *dto.FromModelToReviewResponse(&recent[i]))
	}

	trends, err := s.reportRepo.RatingTrends(ctx, orgID, s.now().AddDate(0, 0, -dashboardTrendDays))
	if err != nil {
		return nil, err
	}

	keyAreas, err := s.aspects.Rollups(ctx, orgID)
	if err != nil {
		return nil, err
	}

	insights, err := s.insightRepo.List(ctx, orgID, dashboardInsights)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardResponse{
		Metrics:       analytics.SummarizeRatings(ratings),
		RecentReviews: recentResponses,
		RatingTrends:  trends,
		KeyAreas:      keyAreas,
		Insights:      insights,
	}, nil
}
