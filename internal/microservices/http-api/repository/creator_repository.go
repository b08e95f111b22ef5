package repository

import (
	"context"
	"strings"

	"reviewlens/internal/microservices/http-api/models"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreatorFilters narrows the marketplace listing. Niches match any overlapping tag.
type CreatorFilters struct {
	Niches       []string
	Location     string
	MinFollowers int
}

type CreatorRepository interface {
	List(ctx context.Context, filters CreatorFilters) ([]models.CreatorProfile, error)
	GetByID(ctx context.Context, id string) (*models.CreatorProfile, error)
	GetByUserID(ctx context.Context, userID string) (*models.CreatorProfile, error)
	Save(ctx context.Context, profile *models.CreatorProfile) error

	AddToShortlist(ctx context.Context, orgID, creatorID string) error
	RemoveFromShortlist(ctx context.Context, orgID, creatorID string) error
	ListShortlist(ctx context.Context, orgID string) ([]models.Shortlist, error)
}

type creatorRepository struct {
	db *gorm.DB
}

func NewCreatorRepository(db *gorm.DB) CreatorRepository {
	return &creatorRepository{db: db}
}

func (r *creatorRepository) List(ctx context.Context, filters CreatorFilters) ([]models.CreatorProfile, error) {
	var creators []models.CreatorProfile

	query := r.db.WithContext(ctx).
		Model(&models.CreatorProfile{}).
		Joins("LEFT JOIN creator_stats ON creator_stats.creator_id = creator_profiles.id")

	if filters.MinFollowers > 0 {
		query = query.Where("creator_stats.followers >= ?", filters.MinFollowers)
	}
	if len(filters.Niches) > 0 {
		niches := make([]string, 0, len(filters.Niches))
		for _, n := range filters.Niches {
			if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
				niches = append(niches, n)
			}
		}
		if len(niches) > 0 {
			query = query.Where("creator_profiles.niches && ?", pq.Array(niches))
		}
	}
	if loc := strings.TrimSpace(filters.Location); loc != "" {
		pattern := "%" + escapeLike(loc) + "%"
		query = query.Where("(creator_profiles.city ILIKE ? OR creator_profiles.country ILIKE ?)", pattern, pattern)
	}

	err := query.
		Preload("Stats").
		Order("creator_profiles.display_name").
		Find(&creators).Error
	return creators, err
}

func (r *creatorRepository) GetByID(ctx context.Context, id string) (*models.CreatorProfile, error) {
	var creator models.CreatorProfile
	if err := r.db.WithContext(ctx).Preload("Stats").First(&creator, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &creator, nil
}

func (r *creatorRepository) GetByUserID(ctx context.Context, userID string) (*models.CreatorProfile, error) {
	var creator models.CreatorProfile
	if err := r.db.WithContext(ctx).Preload("Stats").First(&creator, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &creator, nil
}

// Save creates or updates a profile and its stats in one transaction
func (r *creatorRepository) Save(ctx context.Context, profile *models.CreatorProfile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stats := profile.Stats
		if err := tx.Omit("Stats", "User").Save(profile).Error; err != nil {
			return err
		}
		if stats == nil {
			return nil
		}

		stats.CreatorID = profile.ID
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "creator_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"followers", "engagement_rate", "impressions_30d", "post_frequency_per_week", "last_updated"}),
		}).Create(stats).Error
	})
}

// AddToShortlist is idempotent
func (r *creatorRepository) AddToShortlist(ctx context.Context, orgID, creatorID string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Shortlist{OrganizationID: orgID, CreatorID: creatorID}).Error
}

func (r *creatorRepository) RemoveFromShortlist(ctx context.Context, orgID, creatorID string) error {
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND creator_id = ?", orgID, creatorID).
		Delete(&models.Shortlist{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListShortlist returns shortlisted creators with stats, most recent first
func (r *creatorRepository) ListShortlist(ctx context.Context, orgID string) ([]models.Shortlist, error) {
	var entries []models.Shortlist
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Preload("Creator.Stats").
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}
