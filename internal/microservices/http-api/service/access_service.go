package service

import (
	"context"
	"errors"
	"fmt"

	"reviewlens/internal/microservices/http-api/models"
	"reviewlens/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

// AccessService answers organization membership questions for the org-scoped routes.
type AccessService interface {
	Authorize(ctx context.Context, orgID, userID string) error
	Organizations(ctx context.Context, userID string) ([]models.Organization, error)
}

type accessService struct {
	orgRepo repository.OrganizationRepository
}

func NewAccessService(orgRepo repository.OrganizationRepository) AccessService {
	return &accessService{orgRepo: orgRepo}
}

// Authorize returns ErrNotFound for an unknown organization and ErrForbidden
// when userID is not a member.
func (s *accessService) Authorize(ctx context.Context, orgID, userID string) error {
	if _, err := s.orgRepo.GetByID(ctx, orgID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("organization %s: %w", orgID, ErrNotFound)
		}
		return err
	}

	member, err := s.orgRepo.IsMember(ctx, orgID, userID)
	if err != nil {
		return err
	}
	if !member {
		return ErrForbidden
	}
	return nil
}

func (s *accessService) Organizations(ctx context.Context, userID string) ([]models.Organization, error) {
	return s.orgRepo.ListForUser(ctx, userID)
}
