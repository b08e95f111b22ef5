package dto

import (
	"time"

	"reviewlens/internal/analytics"
	"reviewlens/internal/microservices/http-api/models"
)

// AspectScoreResponse is one classified aspect, score on [0,100]
type AspectScoreResponse struct {
	Aspect    string  `json:"aspect"`
	Sentiment string  `json:"sentiment"`
	Score     float64 `json:"score"`
}

// ReviewResponse for returning a review with its source and aspect scores
type ReviewResponse struct {
	ID           string                `json:"id"`
	Author       string                `json:"author,omitempty"`
	Rating       int                   `json:"rating"`
	Text         string                `json:"text"`
	CreatedAt    time.Time             `json:"created_at"`
	SourceID     string                `json:"source_id"`
	SourceName   string                `json:"source_name,omitempty"`
	Sentiment    string                `json:"sentiment"`
	AspectScores []AspectScoreResponse `json:"aspect_scores"`
}

// FromModelToReviewResponse converts a Review model, scores already on the
// storage scale, to a ReviewResponse with its overall sentiment
func FromModelToReviewResponse(review *models.Review) *ReviewResponse {
	resp := &ReviewResponse{
		ID:           review.ID,
		Rating:       review.Rating,
		Text:         review.Text,
		CreatedAt:    review.CreatedAt,
		SourceID:     review.SourceID,
		AspectScores: make([]AspectScoreResponse, 0, len(review.AspectScores)),
	}
	if review.Author != nil {
		resp.Author = *review.Author
	}
	if review.Source != nil {
		resp.SourceName = review.Source.Name
	}

	scores := make([]float64, 0, len(review.AspectScores))
	for _, s := range review.AspectScores {
		score := analytics.ScoreFromStorage(s.Score)
		scores = append(scores, score)
		resp.AspectScores = append(resp.AspectScores, AspectScoreResponse{
			Aspect:    s.Aspect,
			Sentiment: s.Sentiment,
			Score:     score,
		})
	}
	resp.Sentiment = analytics.OverallSentiment(scores)

	return resp
}

// PaginatedReviewResponse for returning paginated reviews
type PaginatedReviewResponse struct {
	Data       []ReviewResponse `json:"data"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	Total      int              `json:"total"`
	TotalPages int              `json:"total_pages"`
}

// NewPaginatedReviewResponse creates a paginated review response
func NewPaginatedReviewResponse(data []ReviewResponse, total, page, pageSize int) *PaginatedReviewResponse {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	return &PaginatedReviewResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// ClassifyFailure reports a review the classifier could not label during an upload
type ClassifyFailure struct {
	ReviewID string `json:"review_id"`
	Error    string `json:"error"`
}

// UploadResponse summarises a CSV upload
type UploadResponse struct {
	Message      string            `json:"message"`
	Count        int               `json:"count"`
	Skipped      int               `json:"skipped"`
	Classified   int               `json:"classified"`
	Unclassified int               `json:"unclassified"`
	Failures     []ClassifyFailure `json:"failures,omitempty"`
}
