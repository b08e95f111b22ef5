package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"reviewlens/internal/microservices/http-api/dto"
	"reviewlens/internal/microservices/http-api/models"
	"reviewlens/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

// CreatorQuery is the marketplace listing request: storage filters plus a brand
// fit threshold and ordering applied after scoring
type CreatorQuery struct {
	repository.CreatorFilters
	MinBrandFit int
	SortByFit   bool
}

type CreatorService interface {
	List(ctx context.Context, query CreatorQuery) ([]dto.CreatorResponse, error)
	GetProfile(ctx context.Context, userID string) (*dto.CreatorResponse, error)
	SaveProfile(ctx context.Context, userID string, req dto.SaveCreatorProfileRequest) (*dto.CreatorResponse, error)

	Shortlist(ctx context.Context, orgID string) ([]dto.ShortlistEntryResponse, error)
	AddToShortlist(ctx context.Context, orgID, creatorID string) error
	RemoveFromShortlist(ctx context.Context, orgID, creatorID string) error
}

type creatorService struct {
	creatorRepo repository.CreatorRepository
}

func NewCreatorService(creatorRepo repository.CreatorRepository) CreatorService {
	return &creatorService{creatorRepo: creatorRepo}
}

func (s *creatorService) List(ctx context.Context, query CreatorQuery) ([]dto.CreatorResponse, error) {
	creators, err := s.creatorRepo.List(ctx, query.CreatorFilters)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CreatorResponse, 0, len(creators))
	for i := range creators {
		resp := dto.FromModelToCreatorResponse(&creators[i], false)
		if resp.BrandFitScore < query.MinBrandFit {
			continue
		}
		responses = append(responses, *resp)
	}

	if query.SortByFit {
		sort.SliceStable(responses, func(i, j int) bool {
			return responses[i].BrandFitScore > responses[j].BrandFitScore
		})
	}
	return responses, nil
}

func (s *creatorService) GetProfile(ctx context.Context, userID string) (*dto.CreatorResponse, error) {
	profile, err := s.creatorRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("creator profile: %w", ErrNotFound)
		}
		return nil, err
	}
	return dto.FromModelToCreatorResponse(profile, true), nil
}

// SaveProfile creates the caller's profile or updates the existing one. Stats are
// only touched when the request carries any of them.
func (s *creatorService) SaveProfile(ctx context.Context, userID string, req dto.SaveCreatorProfileRequest) (*dto.CreatorResponse, error) {
	profile, err := s.creatorRepo.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		profile = &models.CreatorProfile{UserID: userID}
	}

	profile.DisplayName = strings.TrimSpace(req.DisplayName)
	profile.Bio = req.Bio
	profile.City = strings.TrimSpace(req.City)
	profile.Country = strings.TrimSpace(req.Country)
	profile.Niches = normalizeNiches(req.Niches)
	profile.InstagramURL = req.InstagramURL
	profile.FacebookURL = req.FacebookURL
	profile.TiktokURL = req.TiktokURL

	if req.Followers != nil || req.EngagementRate != nil || req.Impressions30d != nil || req.PostFrequencyPerWeek != nil {
		stats := profile.Stats
		if stats == nil {
			stats = &models.CreatorStats{}
		}
		if req.Followers != nil {
			stats.Followers = *req.Followers
		}
		if req.EngagementRate != nil {
			stats.EngagementRate = *req.EngagementRate
		}
		if req.Impressions30d != nil {
			stats.Impressions30d = *req.Impressions30d
		}
		if req.PostFrequencyPerWeek != nil {
			stats.PostFrequencyPerWeek = *req.PostFrequencyPerWeek
		}
		profile.Stats = stats
	}

	if err := s.creatorRepo.Save(ctx, profile); err != nil {
		return nil, err
	}
	return dto.FromModelToCreatorResponse(profile, true), nil
}

func (s *creatorService) Shortlist(ctx context.Context, orgID string) ([]dto.ShortlistEntryResponse, error) {
	entries, err := s.creatorRepo.ListShortlist(ctx, orgID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ShortlistEntryResponse, 0, len(entries))
	for _, e := range entries {
		if e.Creator == nil {
			continue
		}
		responses = append(responses, dto.ShortlistEntryResponse{
			CreatorResponse: *dto.FromModelToCreatorResponse(e.Creator, false),
			ShortlistedAt:   e.CreatedAt,
		})
	}
	return responses, nil
}

func (s *creatorService) AddToShortlist(ctx context.Context, orgID, creatorID string) error {
	if _, err := s.creatorRepo.GetByID(ctx, creatorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("creator %s: %w", creatorID, ErrNotFound)
		}
		return err
	}
	return s.creatorRepo.AddToShortlist(ctx, orgID, creatorID)
}

func (s *creatorService) RemoveFromShortlist(ctx context.Context, orgID, creatorID string) error {
	if err := s.creatorRepo.RemoveFromShortlist(ctx, orgID, creatorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("shortlist entry %s: %w", creatorID, ErrNotFound)
		}
		return err
	}
	return nil
}

// normalizeNiches lowercases and de-duplicates tags, dropping blanks
func normalizeNiches(niches []string) []string {
	out := make([]string, 0, len(niches))
	seen := make(map[string]struct{}, len(niches))
	for _, n := range niches {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
