package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"reviewlens/internal/analytics"
	"reviewlens/internal/ingest"
	"reviewlens/internal/microservices/http-api/dto"
	"reviewlens/internal/microservices/http-api/models"
	"reviewlens/internal/microservices/http-api/repository"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type ReviewService interface {
	List(ctx context.Context, orgID string, filters repository.ReviewFilters) (*dto.PaginatedReviewResponse, error)
	Upload(ctx context.Context, orgID string, file io.Reader, classify bool) (*dto.UploadResponse, error)
	Classify(ctx context.Context, orgID, reviewID string) (*dto.ReviewResponse, error)
}

// An upload with classify=true labels at most maxUploadClassify reviews and stops
// starting new calls after uploadClassifyBudget, so the response is written well
// inside the server's write timeout. The rest are reported as unclassified.
const (
	maxUploadClassify    = 50
	uploadClassifyBudget = 90 * time.Second
)

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	aspectRepo  repository.AspectScoreRepository
	usageRepo   repository.UsageRepository
	ai          *AIGateway
	concurrency int
	logger      *slog.Logger
	now         func() time.Time

	classifyCap    int
	classifyBudget time.Duration
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	aspectRepo repository.AspectScoreRepository,
	usageRepo repository.UsageRepository,
	ai *AIGateway,
	concurrency int,
	logger *slog.Logger,
) ReviewService {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &reviewService{
		reviewRepo:  reviewRepo,
		aspectRepo:  aspectRepo,
		usageRepo:   usageRepo,
		ai:          ai,
		concurrency: concurrency,
		logger:      logger,
		now:         time.Now,

		classifyCap:    maxUploadClassify,
		classifyBudget: uploadClassifyBudget,
	}
}

// List retrieves one page of reviews, each labelled with its overall sentiment
func (s *reviewService) List(ctx context.Context, orgID string, filters repository.ReviewFilters) (*dto.PaginatedReviewResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	reviews, total, err := s.reviewRepo.List(ctx, orgID, filters)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, *dto.FromModelToReviewResponse(&reviews[i]))
	}

	return dto.NewPaginatedReviewResponse(responses, int(total), filters.Page, filters.PageSize), nil
}

// Upload stores every usable row of a CSV export. With classify set, the new
// reviews are labelled afterwards; a review the classifier fails on is reported
// and left unlabelled without undoing the upload.
func (s *reviewService) Upload(ctx context.Context, orgID string, file io.Reader, classify bool) (*dto.UploadResponse, error) {
	parsed, err := ingest.Parse(file, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	sources := make(map[string]string)
	reviews := make([]models.Review, 0, len(parsed.Rows))
	for _, row := range parsed.Rows {
		sourceID, ok := sources[row.Source]
		if !ok {
			source, err := s.reviewRepo.EnsureSource(ctx, orgID, row.Source)
			if err != nil {
				return nil, fmt.Errorf("resolving source %q: %w", row.Source, err)
			}
			sourceID = source.ID
			sources[row.Source] = sourceID
		}

		raw, err := json.Marshal(row.Raw)
		if err != nil {
			return nil, fmt.Errorf("encoding raw row: %w", err)
		}
		author := row.Author
		review := models.Review{
			OrganizationID: orgID,
			SourceID:       sourceID,
			Author:         &author,
			Rating:         row.Rating,
			Text:           row.Text,
			CreatedAt:      row.CreatedAt,
			RawJSON:        raw,
		}
		if row.ExternalID != "" {
			externalID := row.ExternalID
			review.ExternalID = &externalID
		}
		reviews = append(reviews, review)
	}

	if err := s.reviewRepo.BulkCreate(ctx, reviews); err != nil {
		return nil, err
	}

	event := &models.UsageEvent{
		OrganizationID: orgID,
		Type:           models.UsageUpload,
		MetaJSON:       map[string]interface{}{"reviewsUploaded": len(reviews), "rowsSkipped": parsed.Skipped},
	}
	if err := s.usageRepo.LogEvent(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to log upload", "org_id", orgID, "error", err)
	}

	s.logger.InfoContext(ctx, "reviews uploaded", "org_id", orgID, "count", len(reviews), "skipped", parsed.Skipped)

	resp := &dto.UploadResponse{
		Message: fmt.Sprintf("Successfully uploaded %d reviews", len(reviews)),
		Count:   len(reviews),
		Skipped: parsed.Skipped,
	}
	if classify && len(reviews) > 0 {
		batch := reviews
		if s.classifyCap > 0 && len(batch) > s.classifyCap {
			batch = batch[:s.classifyCap]
		}
		var unclassified int
		resp.Classified, unclassified, resp.Failures = s.classifyAll(ctx, orgID, batch)
		resp.Unclassified = unclassified + len(reviews) - len(batch)
	}

	return resp, nil
}

// classifyAll labels reviews with at most s.concurrency classifier calls in flight.
// Stops scheduling new work once the daily quota is exhausted. Reviews not started
// before the budget runs out are counted as unclassified.
func (s *reviewService) classifyAll(ctx context.Context, orgID string, reviews []models.Review) (classified, unclassified int, failures []dto.ClassifyFailure) {
	var mu sync.Mutex

	budgetCtx := ctx
	if s.classifyBudget > 0 {
		var cancel context.CancelFunc
		budgetCtx, cancel = context.WithTimeout(ctx, s.classifyBudget)
		defer cancel()
	}

	g, gctx := errgroup.WithContext(budgetCtx)
	g.SetLimit(s.concurrency)

	for i := range reviews {
		review := &reviews[i]
		g.Go(func() error {
			if budgetCtx.Err() != nil {
				mu.Lock()
				unclassified++
				mu.Unlock()
				return nil
			}
			err := s.label(gctx, orgID, review)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, dto.ClassifyFailure{ReviewID: review.ID, Error: err.Error()})
				if errors.Is(err, ErrQuotaExceeded) {
					// cancels gctx so queued reviews fail fast
					return err
				}
				return nil
			}
			classified++
			return nil
		})
	}
	_ = g.Wait()

	return classified, unclassified, failures
}

// Classify labels one stored review and replaces its aspect scores
func (s *reviewService) Classify(ctx context.Context, orgID, reviewID string) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.GetByID(ctx, orgID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("review %s: %w", reviewID, ErrNotFound)
		}
		return nil, err
	}

	if err := s.label(ctx, orgID, review); err != nil {
		return nil, err
	}

	review, err = s.reviewRepo.GetByID(ctx, orgID, reviewID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

// label runs the classifier over one review and stores the result. Nothing is
// written when the classifier fails.
func (s *reviewService) label(ctx context.Context, orgID string, review *models.Review) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	analysis, err := s.ai.AnalyzeReview(ctx, orgID, review.Text)
	if err != nil {
		return err
	}

	scores := make([]analytics.AspectScore, 0, len(analysis.AspectScores))
	for _, a := range analysis.AspectScores {
		scores = append(scores, analytics.AspectScore{
			ReviewID:  review.ID,
			Aspect:    a.Aspect,
			Sentiment: a.Sentiment,
			Score:     a.Score,
		})
	}
	return s.aspectRepo.ReplaceForReview(ctx, review.ID, scores)
}
