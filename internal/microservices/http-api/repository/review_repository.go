package repository

import (
	"context"
	"strings"
	"time"

	"reviewlens/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// ReviewFilters narrows a review listing. Zero values mean no filter.
type ReviewFilters struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Ratings  []int
	Sources  []string // source ids
	Aspects  []string // reviews with a score for any of these aspects
	Keyword  string
	Page     int
	PageSize int
}

type ReviewRepository interface {
	List(ctx context.Context, orgID string, filters ReviewFilters) ([]models.Review, int64, error)
	Recent(ctx context.Context, orgID string, limit int) ([]models.Review, error)
	ListForOrg(ctx context.Context, orgID string, limit int) ([]models.Review, error)
	GetByID(ctx context.Context, orgID, reviewID string) (*models.Review, error)
	BulkCreate(ctx context.Context, reviews []models.Review) error
	EnsureSource(ctx context.Context, orgID, name string) (*models.ReviewSource, error)
	ListSources(ctx context.Context, orgID string) ([]models.ReviewSource, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// List returns one page of filtered reviews, newest first, with their source and aspect scores
func (r *reviewRepository) List(ctx context.Context, orgID string, filters ReviewFilters) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	// Count total reviews
	err := applyReviewFilters(r.db.WithContext(ctx).Model(&models.Review{}), orgID, filters).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	page, pageSize := filters.Page, filters.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	err = applyReviewFilters(r.db.WithContext(ctx), orgID, filters).
		Preload("Source").
		Preload("AspectScores").
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

func applyReviewFilters(query *gorm.DB, orgID string, filters ReviewFilters) *gorm.DB {
	query = query.Where("organization_id = ?", orgID)

	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	if len(filters.Ratings) > 0 {
		query = query.Where("rating IN ?", filters.Ratings)
	}
	if len(filters.Sources) > 0 {
		query = query.Where("source_id IN ?", filters.Sources)
	}
	if len(filters.Aspects) > 0 {
		query = query.Where("id IN (SELECT review_id FROM aspect_scores WHERE aspect IN ?)", filters.Aspects)
	}
	if kw := strings.TrimSpace(filters.Keyword); kw != "" {
		query = query.Where("text ILIKE ?", "%"+escapeLike(kw)+"%")
	}
	return query
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Recent returns the latest reviews with source and aspect scores for the dashboard
func (r *reviewRepository) Recent(ctx context.Context, orgID string, limit int) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Preload("Source").
		Preload("AspectScores").
		Order("created_at DESC").
		Limit(limit).
		Find(&reviews).Error
	return reviews, err
}

// ListForOrg returns the latest reviews without associations; limit <= 0 returns all
func (r *reviewRepository) ListForOrg(ctx context.Context, orgID string, limit int) ([]models.Review, error) {
	var reviews []models.Review
	query := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) GetByID(ctx context.Context, orgID, reviewID string) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID, reviewID).
		Preload("Source").
		Preload("AspectScores").
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// BulkCreate inserts reviews in batches; ids are filled in on the passed slice
func (r *reviewRepository) BulkCreate(ctx context.Context, reviews []models.Review) error {
	if len(reviews) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&reviews, 100).Error
}

// EnsureSource returns the organization's source with this name, creating it if needed
func (r *reviewRepository) EnsureSource(ctx context.Context, orgID, name string) (*models.ReviewSource, error) {
	source := models.ReviewSource{OrganizationID: orgID, Name: name}
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND name = ?", orgID, name).
		FirstOrCreate(&source).Error
	if err != nil {
		return nil, err
	}
	return &source, nil
}

func (r *reviewRepository) ListSources(ctx context.Context, orgID string) ([]models.ReviewSource, error) {
	var sources []models.ReviewSource
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("name").
		Find(&sources).Error
	return sources, err
}
