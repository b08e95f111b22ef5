package service

import (
	"context"
	"sort"
	"strings"

	"reviewlens/internal/analytics"
	"reviewlens/internal/microservices/http-api/models"
	"reviewlens/internal/microservices/http-api/repository"
)

const (
	insightReviewWindow = 100
	// aspects scoring below this are considered weak enough to focus an insight on
	weakAspectScore = 60
	maxFocusAspects = 3
	// reviews actually quoted to the model, matching the classifier's cap
	insightContributors = 20
)

type InsightService interface {
	List(ctx context.Context, orgID string) ([]models.Insight, error)
	Recompute(ctx context.Context, orgID string) (*models.Insight, error)
}

type insightService struct {
	reviewRepo  repository.ReviewRepository
	insightRepo repository.InsightRepository
	aspects     AspectService
	ai          *AIGateway
}

func NewInsightService(
	reviewRepo repository.ReviewRepository,
	insightRepo repository.InsightRepository,
	aspects AspectService,
	ai *AIGateway,
) InsightService {
	return &insightService{
		reviewRepo:  reviewRepo,
		insightRepo: insightRepo,
		aspects:     aspects,
		ai:          ai,
	}
}

func (s *insightService) List(ctx context.Context, orgID string) ([]models.Insight, error) {
	return s.insightRepo.List(ctx, orgID, 0)
}

// Recompute asks the classifier for a new insight over the latest reviews, focused
// on the weakest aspects, and stores it. A classifier failure stores nothing.
func (s *insightService) Recompute(ctx context.Context, orgID string) (*models.Insight, error) {
	reviews, err := s.reviewRepo.ListForOrg(ctx, orgID, insightReviewWindow)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, ErrNothingToScore
	}

	rollups, err := s.aspects.Rollups(ctx, orgID)
	if err != nil {
		return nil, err
	}
	focus := weakestAspects(rollups)

	contributors := reviews
	if len(contributors) > insightContributors {
		contributors = contributors[:insightContributors]
	}
	texts := make([]string, 0, len(contributors))
	ids := make([]string, 0, len(contributors))
	from, to := contributors[0].CreatedAt, contributors[0].CreatedAt
	for _, r := range contributors {
		texts = append(texts, r.Text)
		ids = append(ids, r.ID)
		if r.CreatedAt.Before(from) {
			from = r.CreatedAt
		}
		if r.CreatedAt.After(to) {
			to = r.CreatedAt
		}
	}

	draft, err := s.ai.GenerateInsight(ctx, orgID, texts, focus)
	if err != nil {
		return nil, err
	}

	aspects := make([]string, 0, len(focus))
	for _, a := range focus {
		aspects = append(aspects, string(a))
	}
	if len(aspects) == 0 {
		for _, a := range analytics.Aspects {
			aspects = append(aspects, string(a))
		}
	}

	insight := &models.Insight{
		OrganizationID:        orgID,
		Title:                 draft.Title,
		Summary:               draft.Summary,
		Aspects:               aspects,
		Severity:              string(draft.Severity),
		Recommendations:       draft.Recommendations,
		FromDate:              from,
		ToDate:                to,
		ContributingReviewIDs: strings.Join(ids, ","),
	}
	if err := s.insightRepo.Create(ctx, insight); err != nil {
		return nil, err
	}
	return insight, nil
}

// weakestAspects picks up to maxFocusAspects aspects under weakAspectScore, lowest first.
// None qualifying means no focus.
func weakestAspects(rollups []analytics.AspectRollup) []analytics.Aspect {
	weak := make([]analytics.AspectRollup, 0, len(rollups))
	for _, r := range rollups {
		if r.Score < weakAspectScore {
			weak = append(weak, r)
		}
	}
	sort.SliceStable(weak, func(i, j int) bool { return weak[i].Score < weak[j].Score })

	if len(weak) > maxFocusAspects {
		weak = weak[:maxFocusAspects]
	}
	focus := make([]analytics.Aspect, 0, len(weak))
	for _, r := range weak {
		focus = append(focus, r.Key)
	}
	return focus
}
