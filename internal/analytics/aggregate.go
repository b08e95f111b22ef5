package analytics

import (
	"math"
	"sort"
)

// NeutralAspectScore is reported for an aspect whose counts add up to zero.
const NeutralAspectScore = 50

// Trend directions attached to a rollup when a previous period is available.
const (
	TrendUp   = "up"
	TrendDown = "down"
	TrendFlat = "flat"
)

// AspectSentimentCount is one (aspect, sentiment) group as produced by the storage layer.
// AverageScore is the mean [0,100] score of the group's rows; it only counts
// towards the rollup average when HasAverage is set.
type AspectSentimentCount struct {
	Aspect       Aspect
	Sentiment    Sentiment
	Count        int64
	AverageScore float64
	HasAverage   bool
}

// AspectScore is a single classified aspect of a review, score on the [0,100] scale.
type AspectScore struct {
	ReviewID  string
	Aspect    Aspect
	Sentiment Sentiment
	Score     float64
}

// AspectRollup summarises every score recorded for one aspect.
type AspectRollup struct {
	Aspect        string  `json:"aspect"`
	Key           Aspect  `json:"key"`
	Score         int     `json:"score"`
	PositiveCount int64   `json:"positive_count"`
	NegativeCount int64   `json:"negative_count"`
	NeutralCount  int64   `json:"neutral_count"`
	AverageScore  float64 `json:"average_score"`
	Trend         string  `json:"trend,omitempty"`
}

// Total is the number of scores behind the rollup.
func (r AspectRollup) Total() int64 {
	return r.PositiveCount + r.NegativeCount + r.NeutralCount
}

type rollupAcc struct {
	pos, neg, neutral int64
	scoreSum          float64
	scoreWeight       int64
}

// AggregateCounts rolls pre-grouped counts up to one record per observed aspect.
// Rows with an unknown aspect or a non-positive count are ignored; an unknown
// sentiment counts as neutral. The result is ordered by the Aspects enumeration.
func AggregateCounts(rows []AspectSentimentCount) []AspectRollup {
	accs := make(map[Aspect]*rollupAcc)
	for _, row := range rows {
		if !row.Aspect.Valid() || row.Count <= 0 {
			continue
		}
		acc, ok := accs[row.Aspect]
		if !ok {
			acc = &rollupAcc{}
			accs[row.Aspect] = acc
		}

		switch row.Sentiment {
		case SentimentPositive:
			acc.pos += row.Count
		case SentimentNegative:
			acc.neg += row.Count
		default:
			acc.neutral += row.Count
		}
		if row.HasAverage {
			acc.scoreSum += row.AverageScore * float64(row.Count)
			acc.scoreWeight += row.Count
		}
	}

	out := make([]AspectRollup, 0, len(accs))
	for aspect, acc := range accs {
		r := AspectRollup{
			Aspect:        aspect.Label(),
			Key:           aspect,
			PositiveCount: acc.pos,
			NegativeCount: acc.neg,
			NeutralCount:  acc.neutral,
		}
		r.Score = rollupScore(r.PositiveCount, r.Total())
		if acc.scoreWeight > 0 {
			r.AverageScore = math.Round(acc.scoreSum/float64(acc.scoreWeight)*100) / 100
		}
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Key.order() < out[j].Key.order()
	})
	return out
}

// AggregateScores groups raw per-review scores and rolls them up like AggregateCounts.
func AggregateScores(scores []AspectScore) []AspectRollup {
	type key struct {
		aspect    Aspect
		sentiment Sentiment
	}
	groups := make(map[key]*AspectSentimentCount)
	order := make([]key, 0)
	for _, s := range scores {
		k := key{s.Aspect, s.Sentiment}
		g, ok := groups[k]
		if !ok {
			g = &AspectSentimentCount{Aspect: s.Aspect, Sentiment: s.Sentiment, HasAverage: true}
			groups[k] = g
			order = append(order, k)
		}
		// running mean keeps AverageScore meaningful without a second pass
		g.Count++
		g.AverageScore += (s.Score - g.AverageScore) / float64(g.Count)
	}

	rows := make([]AspectSentimentCount, 0, len(order))
	for _, k := range order {
		rows = append(rows, *groups[k])
	}
	return AggregateCounts(rows)
}

// ApplyTrends marks each current rollup as up, down or flat against the matching
// rollup of a previous period. Aspects missing from previous are flat.
func ApplyTrends(current, previous []AspectRollup) []AspectRollup {
	prev := make(map[Aspect]int, len(previous))
	for _, r := range previous {
		prev[r.Key] = r.Score
	}

	out := make([]AspectRollup, len(current))
	for i, r := range current {
		r.Trend = TrendFlat
		if before, ok := prev[r.Key]; ok {
			switch {
			case r.Score > before:
				r.Trend = TrendUp
			case r.Score < before:
				r.Trend = TrendDown
			}
		}
		out[i] = r
	}
	return out
}

func rollupScore(positive, total int64) int {
	if total <= 0 {
		return NeutralAspectScore
	}
	return int(math.Round(float64(positive) / float64(total) * 100))
}
