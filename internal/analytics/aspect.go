package analytics

import "strings"

// Aspect is one of the fixed review categories sentiment is bucketed into.
type Aspect string

const (
	AspectCleanliness Aspect = "CLEANLINESS"
	AspectStaff       Aspect = "STAFF"
	AspectFoodQuality Aspect = "FOOD_QUALITY"
	AspectValue       Aspect = "VALUE"
	AspectLocation    Aspect = "LOCATION"
	AspectSpeed       Aspect = "SPEED"
)

// Aspects lists every aspect in display order.
var Aspects = []Aspect{
	AspectCleanliness,
	AspectStaff,
	AspectFoodQuality,
	AspectValue,
	AspectLocation,
	AspectSpeed,
}

// Valid reports whether a is one of the known aspects.
func (a Aspect) Valid() bool {
	return a.order() >= 0
}

// Label is the human readable form used in dashboards: "FOOD_QUALITY" -> "food quality".
func (a Aspect) Label() string {
	return strings.ReplaceAll(strings.ToLower(string(a)), "_", " ")
}

func (a Aspect) order() int {
	for i, known := range Aspects {
		if known == a {
			return i
		}
	}
	return -1
}

// ParseAspect accepts the enum name in any case, with spaces or underscores.
func ParseAspect(s string) (Aspect, bool) {
	a := Aspect(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "_")))
	return a, a.Valid()
}

// Sentiment is the polarity assigned to one aspect of one review.
type Sentiment string

const (
	SentimentNegative Sentiment = "NEG"
	SentimentNeutral  Sentiment = "NEUTRAL"
	SentimentPositive Sentiment = "POS"
)

func (s Sentiment) Valid() bool {
	switch s {
	case SentimentNegative, SentimentNeutral, SentimentPositive:
		return true
	}
	return false
}

// ParseSentiment is case-insensitive.
func ParseSentiment(s string) (Sentiment, bool) {
	v := Sentiment(strings.ToUpper(strings.TrimSpace(s)))
	return v, v.Valid()
}
