package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"reviewlens/internal/analytics"
	"reviewlens/internal/microservices/http-api/models"

	"github.com/huandu/go-sqlbuilder"
	"gorm.io/gorm"
)

// AspectScoreRepository reads and writes aspect scores on the [0,100] domain
// scale; rows are stored on [0,1].
type AspectScoreRepository interface {
	ReplaceForReview(ctx context.Context, reviewID string, scores []analytics.AspectScore) error
	ListForOrg(ctx context.Context, orgID string) ([]analytics.AspectScore, error)
	CountsForOrg(ctx context.Context, orgID string, since, until time.Time) ([]analytics.AspectSentimentCount, error)
}

type aspectScoreRepository struct {
	db *gorm.DB
}

func NewAspectScoreRepository(db *gorm.DB) AspectScoreRepository {
	return &aspectScoreRepository{db: db}
}

// ReplaceForReview swaps every score of a review for the given set in one transaction
func (r *aspectScoreRepository) ReplaceForReview(ctx context.Context, reviewID string, scores []analytics.AspectScore) error {
	rows := make([]models.AspectScore, 0, len(scores))
	for _, s := range scores {
		rows = append(rows, models.AspectScore{
			ReviewID:  reviewID,
			Aspect:    string(s.Aspect),
			Sentiment: string(s.Sentiment),
			Score:     analytics.ScoreToStorage(s.Score),
		})
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", reviewID).Delete(&models.AspectScore{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// ListForOrg returns every aspect score of the organization's reviews
func (r *aspectScoreRepository) ListForOrg(ctx context.Context, orgID string) ([]analytics.AspectScore, error) {
	var rows []models.AspectScore
	err := r.db.WithContext(ctx).
		Joins("JOIN reviews ON reviews.id = aspect_scores.review_id").
		Where("reviews.organization_id = ?", orgID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	scores := make([]analytics.AspectScore, 0, len(rows))
	for _, row := range rows {
		scores = append(scores, analytics.AspectScore{
			ReviewID:  row.ReviewID,
			Aspect:    analytics.Aspect(row.Aspect),
			Sentiment: analytics.Sentiment(row.Sentiment),
			Score:     analytics.ScoreFromStorage(row.Score),
		})
	}
	return scores, nil
}

// CountsForOrg groups the organization's scores by aspect and sentiment for reviews
// created in [since, until). Zero bounds are open.
func (r *aspectScoreRepository) CountsForOrg(ctx context.Context, orgID string, since, until time.Time) ([]analytics.AspectSentimentCount, error) {
	sqlDB, err := r.db.WithContext(ctx).DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql handle: %w", err)
	}

	query, args := aspectCountsQuery(orgID, since, until)
	rows, err := sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("running aspect counts query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := []analytics.AspectSentimentCount{}
	for rows.Next() {
		var (
			aspect, sentiment string
			count             int64
			avg               sql.NullFloat64
		)
		if err := rows.Scan(&aspect, &sentiment, &count, &avg); err != nil {
			return nil, fmt.Errorf("scanning aspect counts: %w", err)
		}
		counts = append(counts, analytics.AspectSentimentCount{
			Aspect:       analytics.Aspect(aspect),
			Sentiment:    analytics.Sentiment(sentiment),
			Count:        count,
			AverageScore: analytics.ScoreFromStorage(avg.Float64),
			HasAverage:   avg.Valid,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating aspect counts: %w", err)
	}

	return counts, nil
}

func aspectCountsQuery(orgID string, since, until time.Time) (string, []interface{}) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("a.aspect", "a.sentiment", "COUNT(*)", "AVG(a.score)")
	sb.From("aspect_scores a")
	sb.Join("reviews r", "r.id = a.review_id")

	conds := []string{sb.Equal("r.organization_id", orgID)}
	if !since.IsZero() {
		conds = append(conds, sb.GreaterEqualThan("r.created_at", since))
	}
	if !until.IsZero() {
		conds = append(conds, sb.LessThan("r.created_at", until))
	}
	sb.Where(conds...)
	sb.GroupBy("a.aspect", "a.sentiment")

	return sb.Build()
}
