package service

import (
	"context"
	"time"

	"reviewlens/internal/analytics"
	"reviewlens/internal/microservices/http-api/repository"
)

// trendWindow is the length of each period compared for aspect trends
const trendWindow = 30 * 24 * time.Hour

type AspectService interface {
	Rollups(ctx context.Context, orgID string) ([]analytics.AspectRollup, error)
}

type aspectService struct {
	aspectRepo repository.AspectScoreRepository
	now        func() time.Time
}

func NewAspectService(aspectRepo repository.AspectScoreRepository) AspectService {
	return &aspectService{aspectRepo: aspectRepo, now: time.Now}
}

// Rollups aggregates every aspect score of the organization. Each rollup's trend
// compares the last 30 days with the 30 days before; no data in either period is flat.
func (s *aspectService) Rollups(ctx context.Context, orgID string) ([]analytics.AspectRollup, error) {
	all, err := s.aspectRepo.CountsForOrg(ctx, orgID, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	rollups := analytics.AggregateCounts(all)
	if len(rollups) == 0 {
		return rollups, nil
	}

	now := s.now()
	recent, err := s.aspectRepo.CountsForOrg(ctx, orgID, now.Add(-trendWindow), time.Time{})
	if err != nil {
		return nil, err
	}
	previous, err := s.aspectRepo.CountsForOrg(ctx, orgID, now.Add(-2*trendWindow), now.Add(-trendWindow))
	if err != nil {
		return nil, err
	}

	trends := make(map[analytics.Aspect]string)
	for _, r := range analytics.ApplyTrends(analytics.AggregateCounts(recent), analytics.AggregateCounts(previous)) {
		trends[r.Key] = r.Trend
	}
	for i := range rollups {
		rollups[i].Trend = analytics.TrendFlat
		if t, ok := trends[rollups[i].Key]; ok {
			rollups[i].Trend = t
		}
	}

	return rollups, nil
}
