package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"gorm.io/gorm"
)

// RatingTrendPoint is the average rating of one calendar week.
type RatingTrendPoint struct {
	Week          time.Time `json:"date"`
	AverageRating float64   `json:"avg_rating"`
	Count         int64     `json:"count"`
}

// UsageTotal aggregates usage events of one type.
type UsageTotal struct {
	Tokens int64 `json:"tokens"`
	Count  int64 `json:"count"`
}

// ReportRepository runs the aggregate queries behind dashboards and usage pages.
type ReportRepository interface {
	RatingTrends(ctx context.Context, orgID string, since time.Time) ([]RatingTrendPoint, error)
	UsageStats(ctx context.Context, orgID string, since time.Time) (map[string]UsageTotal, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) RatingTrends(ctx context.Context, orgID string, since time.Time) ([]RatingTrendPoint, error) {
	sqlDB, err := r.db.WithContext(ctx).DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql handle: %w", err)
	}

	query, args := ratingTrendsQuery(orgID, since)
	rows, err := sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("running rating trends query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	points := []RatingTrendPoint{}
	for rows.Next() {
		var p RatingTrendPoint
		var avg sql.NullFloat64
		if err := rows.Scan(&p.Week, &avg, &p.Count); err != nil {
			return nil, fmt.Errorf("scanning rating trends: %w", err)
		}
		p.AverageRating = math.Round(avg.Float64*10) / 10
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rating trends: %w", err)
	}

	return points, nil
}

func ratingTrendsQuery(orgID string, since time.Time) (string, []interface{}) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("date_trunc('week', created_at) AS week", "AVG(rating)", "COUNT(*)")
	sb.From("reviews")
	sb.Where(
		sb.Equal("organization_id", orgID),
		sb.GreaterEqualThan("created_at", since),
	)
	sb.GroupBy("week")
	sb.OrderBy("week")

	return sb.Build()
}

// UsageStats totals usage events by type since the given time
func (r *reportRepository) UsageStats(ctx context.Context, orgID string, since time.Time) (map[string]UsageTotal, error) {
	sqlDB, err := r.db.WithContext(ctx).DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql handle: %w", err)
	}

	query, args := usageStatsQuery(orgID, since)
	rows, err := sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("running usage stats query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	stats := make(map[string]UsageTotal)
	for rows.Next() {
		var eventType string
		var total UsageTotal
		if err := rows.Scan(&eventType, &total.Tokens, &total.Count); err != nil {
			return nil, fmt.Errorf("scanning usage stats: %w", err)
		}
		stats[eventType] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating usage stats: %w", err)
	}

	return stats, nil
}

func usageStatsQuery(orgID string, since time.Time) (string, []interface{}) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("type", "COALESCE(SUM(tokens), 0)", "COUNT(*)")
	sb.From("usage_events")
	sb.Where(
		sb.Equal("organization_id", orgID),
		sb.GreaterEqualThan("created_at", since),
	)
	sb.GroupBy("type")

	return sb.Build()
}
