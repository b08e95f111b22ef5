package service

import (
	"context"
	"log/slog"
	"time"

	"reviewlens/internal/microservices/http-api/dto"
	"reviewlens/internal/microservices/http-api/repository"
)

const usageWindowDays = 30

type UsageService interface {
	Stats(ctx context.Context, orgID string) (*dto.UsageResponse, error)
}

type usageService struct {
	reportRepo repository.ReportRepository
	quota      CallQuota
	logger     *slog.Logger
	now        func() time.Time
}

func NewUsageService(reportRepo repository.ReportRepository, quota CallQuota, logger *slog.Logger) UsageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &usageService{reportRepo: reportRepo, quota: quota, logger: logger, now: time.Now}
}

// Stats totals usage events by type over the last 30 days. The live AI counter is
// best effort: a failing counter reports zero calls today.
func (s *usageService) Stats(ctx context.Context, orgID string) (*dto.UsageResponse, error) {
	totals, err := s.reportRepo.UsageStats(ctx, orgID, s.now().AddDate(0, 0, -usageWindowDays))
	if err != nil {
		return nil, err
	}

	resp := &dto.UsageResponse{Usage: totals}
	if s.quota == nil {
		return resp, nil
	}

	resp.DailyLimit = s.quota.Limit()
	today, err := s.quota.Today(ctx, orgID)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to read AI call counter", "org_id", orgID, "error", err)
		return resp, nil
	}
	resp.AICallsToday = today
	return resp, nil
}
