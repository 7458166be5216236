package repos

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arcvault/arcvault/internal/db/models"
)

// OrgRepository provides access to organization database operations
type OrgRepository struct {
	db *gorm.DB
}

// NewOrgRepository creates a new organization repository instance
func NewOrgRepository(db *gorm.DB) *OrgRepository {
	return &OrgRepository{db: db}
}

// Create creates a new organization in the database
func (r *OrgRepository) Create(ctx context.Context, org *models.Organization) error {
	if err := org.Validate(); err != nil {
		return fmt.Errorf("invalid organization: %w", err)
	}
	return r.db.WithContext(ctx).Create(org).Error
}

// GetByID retrieves an organization by its ID
func (r *OrgRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	var org models.Organization
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("organization not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return &org, nil
}
