package analytics

import (
	"math"
	"strings"
)

// targetNiches are the tags that make a creator relevant to a hospitality/travel brand.
var targetNiches = []string{"travel", "tourism", "luxury", "lifestyle"}

const (
	nichePoints   = 15
	maxNicheScore = 60
	maxBrandFit   = 100
)

// BrandFitInput carries the creator attributes the score depends on.
// Zero values are valid and simply earn fewer points.
type BrandFitInput struct {
	Niches         []string
	Country        string
	City           string
	EngagementRate float64 // percentage points, 8.2 means 8.2%
}

// BrandFitComponents is the per-component breakdown of a brand fit score.
type BrandFitComponents struct {
	Niche      int `json:"niche"`
	Location   int `json:"location"`
	Engagement int `json:"engagement"`
	Total      int `json:"total"`
}

// BrandFitScore rates a creator against the hospitality/travel brand profile, in [0, 100].
// It is the only implementation of the heuristic; every listing and ranking goes through it.
func BrandFitScore(in BrandFitInput) int {
	return BrandFitBreakdown(in).Total
}

// BrandFitBreakdown returns the score together with the points earned by each component.
func BrandFitBreakdown(in BrandFitInput) BrandFitComponents {
	c := BrandFitComponents{
		Niche:      nicheComponent(in.Niches),
		Location:   locationComponent(in.Country, in.City),
		Engagement: engagementComponent(in.EngagementRate),
	}
	total := float64(c.Niche + c.Location + c.Engagement)
	c.Total = int(math.Round(math.Min(total, maxBrandFit)))
	return c
}

func nicheComponent(niches []string) int {
	matches := 0
	for _, n := range niches {
		tag := strings.ToLower(n)
		for _, target := range targetNiches {
			if strings.Contains(tag, target) {
				matches++
				break
			}
		}
	}
	return min(matches*nichePoints, maxNicheScore)
}

// locationComponent checks the branches in priority order; only one applies.
func locationComponent(country, city string) int {
	country = strings.ToLower(country)
	city = strings.ToLower(city)

	switch {
	case strings.Contains(country, "jamaica") || strings.Contains(city, "caribbean"):
		return 30
	case strings.Contains(country, "caribbean"):
		return 20
	default:
		return 10
	}
}

func engagementComponent(rate float64) int {
	switch {
	case rate > 8:
		return 10
	case rate > 5:
		return 7
	case rate > 3:
		return 5
	default:
		return 0
	}
}
