package dto

import (
	"time"

	"reviewlens/internal/analytics"
	"reviewlens/internal/microservices/http-api/models"
)

// CreatorResponse is a creator profile annotated with its brand fit
type CreatorResponse struct {
	*models.CreatorProfile
	BrandFitScore int                           `json:"brand_fit_score"`
	BrandFit      *analytics.BrandFitComponents `json:"brand_fit,omitempty"`
}

// FromModelToCreatorResponse scores the profile; withBreakdown adds the components
func FromModelToCreatorResponse(profile *models.CreatorProfile, withBreakdown bool) *CreatorResponse {
	breakdown := analytics.BrandFitBreakdown(profile.BrandFitInput())
	resp := &CreatorResponse{
		CreatorProfile: profile,
		BrandFitScore:  breakdown.Total,
	}
	if withBreakdown {
		resp.BrandFit = &breakdown
	}
	return resp
}

// SaveCreatorProfileRequest for creating or updating the caller's creator profile
type SaveCreatorProfileRequest struct {
	DisplayName          string   `json:"display_name" binding:"required,max=120"`
	Bio                  string   `json:"bio" binding:"max=2000"`
	City                 string   `json:"city" binding:"required"`
	Country              string   `json:"country" binding:"required"`
	Niches               []string `json:"niches" binding:"max=20,dive,required,max=50"`
	InstagramURL         *string  `json:"instagram_url" binding:"omitempty,url"`
	FacebookURL          *string  `json:"facebook_url" binding:"omitempty,url"`
	TiktokURL            *string  `json:"tiktok_url" binding:"omitempty,url"`
	Followers            *int     `json:"followers" binding:"omitempty,min=0"`
	EngagementRate       *float64 `json:"engagement_rate" binding:"omitempty,min=0,max=100"`
	Impressions30d       *int     `json:"impressions_30d" binding:"omitempty,min=0"`
	PostFrequencyPerWeek *int     `json:"post_frequency_per_week" binding:"omitempty,min=0"`
}

// ShortlistEntryResponse is a shortlisted creator with its brand fit
type ShortlistEntryResponse struct {
	CreatorResponse
	ShortlistedAt time.Time `json:"shortlisted_at"`
}
