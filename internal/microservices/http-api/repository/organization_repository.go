package repository

import (
	"context"

	"reviewlens/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type OrganizationRepository interface {
	GetByID(ctx context.Context, id string) (*models.Organization, error)
	IsMember(ctx context.Context, orgID, userID string) (bool, error)
	ListForUser(ctx context.Context, userID string) ([]models.Organization, error)
	Create(ctx context.Context, org *models.Organization, ownerID string) error
}

type organizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).First(&org, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// IsMember reports whether userID belongs to orgID in any role
func (r *organizationRepository) IsMember(ctx context.Context, orgID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.OrganizationMember{}).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *organizationRepository) ListForUser(ctx context.Context, userID string) ([]models.Organization, error) {
	var orgs []models.Organization
	err := r.db.WithContext(ctx).
		Joins("JOIN organization_members m ON m.organization_id = organizations.id").
		Where("m.user_id = ?", userID).
		Order("organizations.name").
		Find(&orgs).Error
	return orgs, err
}

// Create inserts the organization and its owner membership in one transaction
func (r *organizationRepository) Create(ctx context.Context, org *models.Organization, ownerID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrganizationMember{
			OrganizationID: org.ID,
			UserID:         ownerID,
			Role:           models.MemberRoleOwner,
		}).Error
	})
}
