package dto

import (
	"reviewlens/internal/analytics"
	"reviewlens/internal/microservices/http-api/models"
	"reviewlens/internal/microservices/http-api/repository"
)

type DashboardResponse struct {
	Metrics       analytics.RatingSummary       `json:"metrics"`
	RecentReviews []ReviewResponse              `json:"recent_reviews"`
	RatingTrends  []repository.RatingTrendPoint `json:"rating_trends"`
	KeyAreas      []analytics.AspectRollup      `json:"key_areas"`
	Insights      []models.Insight              `json:"insights"`
}

type UsageResponse struct {
	Usage        map[string]repository.UsageTotal `json:"usage"`
	AICallsToday int64                            `json:"ai_calls_today"`
	DailyLimit   int64                            `json:"daily_limit"`
}
