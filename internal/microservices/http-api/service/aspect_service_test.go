package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"reviewlens/internal/analytics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAspectRollups_TrendAgainstPreviousWindow(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	repo := new(MockAspectScoreRepository)
	svc := &aspectService{aspectRepo: repo, now: fixedClock(now)}

	repo.On("CountsForOrg", mock.Anything, "org-1", time.Time{}, time.Time{}).Return([]analytics.AspectSentimentCount{
		{Aspect: analytics.AspectStaff, Sentiment: analytics.SentimentPositive, Count: 6},
		{Aspect: analytics.AspectStaff, Sentiment: analytics.SentimentNegative, Count: 4},
		{Aspect: analytics.AspectCleanliness, Sentiment: analytics.SentimentPositive, Count: 3},
		{Aspect: analytics.AspectSpeed, Sentiment: analytics.SentimentNeutral, Count: 2},
	}, nil)
	repo.On("CountsForOrg", mock.Anything, "org-1", now.Add(-trendWindow), time.Time{}).Return([]analytics.AspectSentimentCount{
		{Aspect: analytics.AspectStaff, Sentiment: analytics.SentimentPositive, Count: 4},
		{Aspect: analytics.AspectCleanliness, Sentiment: analytics.SentimentNegative, Count: 1},
	}, nil)
	repo.On("CountsForOrg", mock.Anything, "org-1", now.Add(-2*trendWindow), now.Add(-trendWindow)).Return([]analytics.AspectSentimentCount{
		{Aspect: analytics.AspectStaff, Sentiment: analytics.SentimentPositive, Count: 2},
		{Aspect: analytics.AspectStaff, Sentiment: analytics.SentimentNegative, Count: 4},
		{Aspect: analytics.AspectCleanliness, Sentiment: analytics.SentimentPositive, Count: 2},
	}, nil)

	rollups, err := svc.Rollups(context.Background(), "org-1")

	require.NoError(t, err)
	require.Len(t, rollups, 3)

	assert.Equal(t, analytics.AspectCleanliness, rollups[0].Key)
	assert.Equal(t, 100, rollups[0].Score)
	assert.Equal(t, analytics.TrendDown, rollups[0].Trend)

	assert.Equal(t, analytics.AspectStaff, rollups[1].Key)
	assert.Equal(t, 60, rollups[1].Score)
	assert.Equal(t, analytics.TrendUp, rollups[1].Trend)

	// no recent data
	assert.Equal(t, analytics.AspectSpeed, rollups[2].Key)
	assert.Equal(t, 0, rollups[2].Score)
	assert.Equal(t, analytics.TrendFlat, rollups[2].Trend)
}

func TestAspectRollups_EmptySkipsTrendQueries(t *testing.T) {
	repo := new(MockAspectScoreRepository)
	svc := NewAspectService(repo)

	repo.On("CountsForOrg", mock.Anything, "org-1", time.Time{}, time.Time{}).Return([]analytics.AspectSentimentCount{}, nil).Once()

	rollups, err := svc.Rollups(context.Background(), "org-1")

	require.NoError(t, err)
	assert.Empty(t, rollups)
	repo.AssertNumberOfCalls(t, "CountsForOrg", 1)
}

func TestAspectRollups_RepositoryError(t *testing.T) {
	repo := new(MockAspectScoreRepository)
	svc := NewAspectService(repo)

	repo.On("CountsForOrg", mock.Anything, "org-1", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	_, err := svc.Rollups(context.Background(), "org-1")

	assert.EqualError(t, err, "boom")
}
