package classifier

import (
	"encoding/json"
	"fmt"
	"strings"

	"reviewlens/internal/analytics"
)

// maxInsightReviews bounds how many review texts go into one insight prompt.
const maxInsightReviews = 20

const analyzeReviewPrompt = `You are a sentiment analysis expert for business reviews. Analyze the review across these 6 aspects:
- CLEANLINESS: How clean and well-maintained the business is
- STAFF: Quality of service, friendliness, and professionalism of staff
- FOOD_QUALITY: Quality, taste, and presentation of food/products
- VALUE: Price-to-quality ratio and overall value for money
- LOCATION: Accessibility, convenience, and appeal of location
- SPEED: Timeliness of service and efficiency

For each aspect mentioned in the review, provide:
- sentiment: NEG, NEUTRAL, or POS
- score: 0-100 (0=very negative, 50=neutral, 100=very positive)
- reasoning: brief explanation

Only include aspects the review actually mentions, at most once each.
Respond with JSON in this format:
{
  "aspectScores": [
    {"aspect": "CLEANLINESS", "sentiment": "POS", "score": 85, "reasoning": "Customer praised the spotless rooms"}
  ],
  "overallSentiment": "POS",
  "keyPoints": ["Clean facilities", "Friendly staff"]
}`

const insightPrompt = `You are a business intelligence analyst. Analyze customer reviews to generate actionable insights.

Focus on the aspects: %s

Provide insights in JSON format:
{
  "title": "Brief insight title",
  "summary": "2-3 sentence summary of the key finding",
  "severity": "LOW, MEDIUM or HIGH based on impact",
  "recommendations": ["actionable recommendation 1", "actionable recommendation 2"]
}`

const weeklyReportPrompt = `You are a business analyst creating a weekly review summary report.
Write a professional, concise report that business owners can use to understand their customer feedback trends.
Include key metrics, insights, and actionable recommendations.`

func insightSystemPrompt(aspects []analytics.Aspect) string {
	names := make([]string, 0, len(aspects))
	for _, a := range aspects {
		names = append(names, string(a))
	}
	if len(names) == 0 {
		for _, a := range analytics.Aspects {
			names = append(names, string(a))
		}
	}
	return fmt.Sprintf(insightPrompt, strings.Join(names, ", "))
}

func insightUserPrompt(reviewTexts []string) string {
	if len(reviewTexts) > maxInsightReviews {
		reviewTexts = reviewTexts[:maxInsightReviews]
	}
	return "Analyze these customer reviews:\n\n" + strings.Join(reviewTexts, "\n\n")
}

func weeklyReportUserPrompt(in ReportInput) string {
	scores, _ := json.Marshal(in.AspectScores)
	return fmt.Sprintf(`Create a weekly report for %s with this data:

Total Reviews: %d
Average Rating: %.1f/5
Aspect Scores: %s
Key Insights: %s

Make it concise but comprehensive, focusing on actionable insights.`,
		in.OrganizationName, in.TotalReviews, in.AverageRating, scores, strings.Join(in.KeyInsights, ", "))
}
