package analytics

import "math"

// Overall labels derived from a review's aspect scores.
const (
	OverallPositive = "positive"
	OverallNegative = "negative"
	OverallNeutral  = "neutral"
)

// OverallSentiment labels a review from the mean of its [0,100] aspect scores.
// A review without scores is neutral.
func OverallSentiment(scores []float64) string {
	if len(scores) == 0 {
		return OverallNeutral
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}
	avg := sum / float64(len(scores))

	switch {
	case avg >= 70:
		return OverallPositive
	case avg <= 40:
		return OverallNegative
	default:
		return OverallNeutral
	}
}

// RatingSummary holds the headline numbers shown on the dashboard.
type RatingSummary struct {
	TotalReviews    int     `json:"total_reviews"`
	AverageRating   float64 `json:"average_rating"`
	PositiveReviews int     `json:"positive_reviews"`
}

// SummarizeRatings averages star ratings to one decimal; ratings of 4 and 5 count as positive.
func SummarizeRatings(ratings []int) RatingSummary {
	s := RatingSummary{TotalReviews: len(ratings)}
	if len(ratings) == 0 {
		return s
	}

	sum := 0
	for _, r := range ratings {
		sum += r
		if r >= 4 {
			s.PositiveReviews++
		}
	}
	s.AverageRating = math.Round(float64(sum)/float64(len(ratings))*10) / 10
	return s
}

// Aspect scores are persisted as numeric(3,2) in [0,1] and used everywhere else on [0,100].

// ScoreFromStorage converts a stored [0,1] score to the [0,100] scale.
func ScoreFromStorage(v float64) float64 {
	return math.Round(clamp(v, 0, 1)*10000) / 100
}

// ScoreToStorage converts a [0,100] score to the stored [0,1] scale, rounded to two decimals.
func ScoreToStorage(v float64) float64 {
	return math.Round(clamp(v, 0, 100)) / 100
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
