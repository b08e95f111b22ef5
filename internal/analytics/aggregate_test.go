package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateCounts(t *testing.T) {
	cases := []struct {
		name     string
		rows     []AspectSentimentCount
		expected []AspectRollup
	}{
		{
			name:     "no_rows_no_rollups",
			rows:     nil,
			expected: []AspectRollup{},
		},
		{
			name: "all_negative_scores_zero",
			rows: []AspectSentimentCount{
				{Aspect: AspectSpeed, Sentiment: SentimentNegative, Count: 4},
			},
			expected: []AspectRollup{
				{Aspect: "speed", Key: AspectSpeed, Score: 0, NegativeCount: 4},
			},
		},
		{
			name: "all_positive_scores_hundred",
			rows: []AspectSentimentCount{
				{Aspect: AspectStaff, Sentiment: SentimentPositive, Count: 7},
			},
			expected: []AspectRollup{
				{Aspect: "staff", Key: AspectStaff, Score: 100, PositiveCount: 7},
			},
		},
		{
			name: "mixed_counts_rounded",
			rows: []AspectSentimentCount{
				{Aspect: AspectFoodQuality, Sentiment: SentimentPositive, Count: 2},
				{Aspect: AspectFoodQuality, Sentiment: SentimentNegative, Count: 1},
			},
			expected: []AspectRollup{
				{Aspect: "food quality", Key: AspectFoodQuality, Score: 67, PositiveCount: 2, NegativeCount: 1},
			},
		},
		{
			name: "neutral_counts_dilute_the_score",
			rows: []AspectSentimentCount{
				{Aspect: AspectValue, Sentiment: SentimentPositive, Count: 1},
				{Aspect: AspectValue, Sentiment: SentimentNeutral, Count: 3},
			},
			expected: []AspectRollup{
				{Aspect: "value", Key: AspectValue, Score: 25, PositiveCount: 1, NeutralCount: 3},
			},
		},
		{
			name: "split_groups_for_same_aspect_accumulate",
			rows: []AspectSentimentCount{
				{Aspect: AspectLocation, Sentiment: SentimentPositive, Count: 1},
				{Aspect: AspectLocation, Sentiment: SentimentPositive, Count: 2},
				{Aspect: AspectLocation, Sentiment: SentimentNegative, Count: 1},
			},
			expected: []AspectRollup{
				{Aspect: "location", Key: AspectLocation, Score: 75, PositiveCount: 3, NegativeCount: 1},
			},
		},
		{
			name: "unknown_sentiment_counts_as_neutral",
			rows: []AspectSentimentCount{
				{Aspect: AspectStaff, Sentiment: "MIXED", Count: 2},
				{Aspect: AspectStaff, Sentiment: SentimentPositive, Count: 2},
			},
			expected: []AspectRollup{
				{Aspect: "staff", Key: AspectStaff, Score: 50, PositiveCount: 2, NeutralCount: 2},
			},
		},
		{
			name: "unknown_aspect_and_empty_groups_dropped",
			rows: []AspectSentimentCount{
				{Aspect: "PARKING", Sentiment: SentimentPositive, Count: 2},
				{Aspect: AspectSpeed, Sentiment: SentimentPositive, Count: 0},
			},
			expected: []AspectRollup{},
		},
		{
			name: "ordered_by_aspect_enumeration",
			rows: []AspectSentimentCount{
				{Aspect: AspectSpeed, Sentiment: SentimentPositive, Count: 1},
				{Aspect: AspectCleanliness, Sentiment: SentimentNegative, Count: 1},
			},
			expected: []AspectRollup{
				{Aspect: "cleanliness", Key: AspectCleanliness, Score: 0, NegativeCount: 1},
				{Aspect: "speed", Key: AspectSpeed, Score: 100, PositiveCount: 1},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, AggregateCounts(tc.rows))
		})
	}
}

func TestAggregateCountsWeightsAverageScore(t *testing.T) {
	rollups := AggregateCounts([]AspectSentimentCount{
		{Aspect: AspectStaff, Sentiment: SentimentPositive, Count: 3, AverageScore: 90, HasAverage: true},
		{Aspect: AspectStaff, Sentiment: SentimentNegative, Count: 1, AverageScore: 10, HasAverage: true},
	})

	require.Len(t, rollups, 1)
	assert.InDelta(t, 70.0, rollups[0].AverageScore, 0.001)
}

func TestAggregateCountsAverageScore(t *testing.T) {
	cases := []struct {
		name     string
		rows     []AspectSentimentCount
		expected float64
	}{
		{
			name: "zero_average_group_is_weighted",
			rows: []AspectSentimentCount{
				{Aspect: AspectStaff, Sentiment: SentimentNegative, Count: 2, AverageScore: 0, HasAverage: true},
				{Aspect: AspectStaff, Sentiment: SentimentPositive, Count: 2, AverageScore: 100, HasAverage: true},
			},
			expected: 50,
		},
		{
			name: "unknown_average_group_is_skipped",
			rows: []AspectSentimentCount{
				{Aspect: AspectStaff, Sentiment: SentimentNegative, Count: 2},
				{Aspect: AspectStaff, Sentiment: SentimentPositive, Count: 2, AverageScore: 80, HasAverage: true},
			},
			expected: 80,
		},
		{
			name: "all_zero_scores",
			rows: []AspectSentimentCount{
				{Aspect: AspectSpeed, Sentiment: SentimentNegative, Count: 3, AverageScore: 0, HasAverage: true},
			},
			expected: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rollups := AggregateCounts(tc.rows)
			require.Len(t, rollups, 1)
			assert.InDelta(t, tc.expected, rollups[0].AverageScore, 0.001)
		})
	}
}

func TestAggregateScores_ZeroScoresCountTowardsAverage(t *testing.T) {
	rollups := AggregateScores([]AspectScore{
		{ReviewID: "r1", Aspect: AspectStaff, Sentiment: SentimentNegative, Score: 0},
		{ReviewID: "r2", Aspect: AspectStaff, Sentiment: SentimentNegative, Score: 0},
		{ReviewID: "r3", Aspect: AspectStaff, Sentiment: SentimentPositive, Score: 100},
		{ReviewID: "r4", Aspect: AspectStaff, Sentiment: SentimentPositive, Score: 100},
	})

	require.Len(t, rollups, 1)
	assert.Equal(t, 50, rollups[0].Score)
	assert.InDelta(t, 50.0, rollups[0].AverageScore, 0.001)
}

func TestAggregateIsIdempotent(t *testing.T) {
	rows := []AspectSentimentCount{
		{Aspect: AspectStaff, Sentiment: SentimentPositive, Count: 3},
		{Aspect: AspectSpeed, Sentiment: SentimentNegative, Count: 2},
		{Aspect: AspectSpeed, Sentiment: SentimentNeutral, Count: 1},
		{Aspect: AspectValue, Sentiment: SentimentPositive, Count: 5},
	}

	first := AggregateCounts(rows)
	second := AggregateCounts(rows)
	assert.Equal(t, first, second)
}

func TestAggregateSwappedCountsInvertScore(t *testing.T) {
	cases := []struct{ pos, neg int64 }{
		{1, 0}, {0, 1}, {2, 1}, {1, 3}, {7, 3}, {5, 5}, {13, 4},
	}

	for _, tc := range cases {
		original := AggregateCounts([]AspectSentimentCount{
			{Aspect: AspectValue, Sentiment: SentimentPositive, Count: tc.pos},
			{Aspect: AspectValue, Sentiment: SentimentNegative, Count: tc.neg},
		})
		swapped := AggregateCounts([]AspectSentimentCount{
			{Aspect: AspectValue, Sentiment: SentimentPositive, Count: tc.neg},
			{Aspect: AspectValue, Sentiment: SentimentNegative, Count: tc.pos},
		})

		require.Len(t, original, 1)
		require.Len(t, swapped, 1)
		assert.Equal(t, 100-original[0].Score, swapped[0].Score, "pos=%d neg=%d", tc.pos, tc.neg)
	}
}

func TestAggregateScores(t *testing.T) {
	scores := []AspectScore{
		{ReviewID: "r1", Aspect: AspectCleanliness, Sentiment: SentimentPositive, Score: 85},
		{ReviewID: "r2", Aspect: AspectCleanliness, Sentiment: SentimentNegative, Score: 20},
		{ReviewID: "r3", Aspect: AspectCleanliness, Sentiment: SentimentPositive, Score: 95},
		{ReviewID: "r1", Aspect: AspectStaff, Sentiment: SentimentPositive, Score: 90},
	}

	rollups := AggregateScores(scores)

	require.Len(t, rollups, 2)
	assert.Equal(t, AspectCleanliness, rollups[0].Key)
	assert.Equal(t, 67, rollups[0].Score)
	assert.Equal(t, int64(2), rollups[0].PositiveCount)
	assert.Equal(t, int64(1), rollups[0].NegativeCount)
	assert.InDelta(t, 66.67, rollups[0].AverageScore, 0.01)

	assert.Equal(t, AspectStaff, rollups[1].Key)
	assert.Equal(t, 100, rollups[1].Score)
}

func TestApplyTrends(t *testing.T) {
	current := []AspectRollup{
		{Key: AspectStaff, Score: 80},
		{Key: AspectSpeed, Score: 40},
		{Key: AspectValue, Score: 60},
		{Key: AspectLocation, Score: 90},
	}
	previous := []AspectRollup{
		{Key: AspectStaff, Score: 70},
		{Key: AspectSpeed, Score: 55},
		{Key: AspectValue, Score: 60},
	}

	got := ApplyTrends(current, previous)

	require.Len(t, got, 4)
	assert.Equal(t, TrendUp, got[0].Trend)
	assert.Equal(t, TrendDown, got[1].Trend)
	assert.Equal(t, TrendFlat, got[2].Trend)
	assert.Equal(t, TrendFlat, got[3].Trend)
	assert.Empty(t, current[0].Trend, "input must not be modified")
}
