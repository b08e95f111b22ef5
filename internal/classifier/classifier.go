// Package classifier talks to the LLM service that labels review text with
// aspect sentiment and drafts insights and reports. Calls are single shot:
// a failure is returned to the caller as is, never retried or defaulted.
package classifier

import (
	"context"
	"errors"
	"fmt"

	"reviewlens/internal/analytics"
)

// Classifier is the boundary the rest of the application depends on.
type Classifier interface {
	AnalyzeReview(ctx context.Context, text string) (*ReviewAnalysis, error)
	GenerateInsight(ctx context.Context, reviewTexts []string, aspects []analytics.Aspect) (*InsightDraft, error)
	WeeklyReport(ctx context.Context, in ReportInput) (*Report, error)
}

// AspectAnalysis is the model's verdict on one aspect of a review.
type AspectAnalysis struct {
	Aspect    analytics.Aspect    `json:"aspect"`
	Sentiment analytics.Sentiment `json:"sentiment"`
	Score     float64             `json:"score"` // [0,100]
	Reasoning string              `json:"reasoning"`
}

// ReviewAnalysis is the structured result for a single review.
type ReviewAnalysis struct {
	AspectScores     []AspectAnalysis    `json:"aspect_scores"`
	OverallSentiment analytics.Sentiment `json:"overall_sentiment"`
	KeyPoints        []string            `json:"key_points"`
	Call             CallInfo            `json:"-"`
}

// Severity of a generated insight.
type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// InsightDraft is an insight proposed by the model, not yet persisted.
type InsightDraft struct {
	Title           string   `json:"title"`
	Summary         string   `json:"summary"`
	Severity        Severity `json:"severity"`
	Recommendations []string `json:"recommendations"`
	Call            CallInfo `json:"-"`
}

// ReportInput is the data a weekly report is written from.
type ReportInput struct {
	OrganizationName string
	TotalReviews     int
	AverageRating    float64
	AspectScores     map[string]int
	KeyInsights      []string
}

// Report is a generated plain-text weekly report.
type Report struct {
	Text string
	Call CallInfo
}

// CallInfo describes the exchange with the model, for usage accounting.
type CallInfo struct {
	Model     string
	Prompt    string
	Response  string
	TokensIn  int
	TokensOut int
}

// Error kinds. Every error returned by a Classifier matches exactly one of them with errors.Is.
var (
	ErrUnavailable       = errors.New("classifier unavailable")
	ErrMalformedResponse = errors.New("classifier returned a malformed response")
	ErrTimeout           = errors.New("classifier timed out")
)

// Error carries the failed operation, its kind and the underlying cause.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op string, kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// Disabled is used when no API key is configured. Every call fails as unavailable.
type Disabled struct{}

var _ Classifier = Disabled{}

func (Disabled) AnalyzeReview(context.Context, string) (*ReviewAnalysis, error) {
	return nil, newError("analyze review", ErrUnavailable, errors.New("no API key configured"))
}

func (Disabled) GenerateInsight(context.Context, []string, []analytics.Aspect) (*InsightDraft, error) {
	return nil, newError("generate insight", ErrUnavailable, errors.New("no API key configured"))
}

func (Disabled) WeeklyReport(context.Context, ReportInput) (*Report, error) {
	return nil, newError("weekly report", ErrUnavailable, errors.New("no API key configured"))
}
