package repos

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arcvault/arcvault/internal/db/models"
)

// CrawlFileRepository provides access to crawl and upload file records
type CrawlFileRepository struct {
	db *gorm.DB
}

// NewCrawlFileRepository creates a new crawl file repository instance
func NewCrawlFileRepository(db *gorm.DB) *CrawlFileRepository {
	return &CrawlFileRepository{db: db}
}

// Create creates a new crawl file record in the database
func (r *CrawlFileRepository) Create(ctx context.Context, file *models.CrawlFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

// AddReplica records that a copy of the named crawl file now exists at the
// referenced storage. It reports false when no matching file record exists,
// which happens when the file was deleted while its replication job ran.
func (r *CrawlFileRepository) AddReplica(ctx context.Context, crawlID, filename string, ref models.StorageRef) (bool, error) {
	var file models.CrawlFile
	err := r.db.WithContext(ctx).
		Where("crawl_id = ? AND filename = ?", crawlID, filename).
		First(&file).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get crawl file: %w", err)
	}

	if file.Replicas.Contains(ref) {
		return true, nil
	}
	file.Replicas = append(file.Replicas, ref)
	if err := r.db.WithContext(ctx).Model(&file).Update("replicas", file.Replicas).Error; err != nil {
		return false, fmt.Errorf("failed to update crawl file replicas: %w", err)
	}
	return true, nil
}

// ProfileFileRepository provides access to browser profile file records
type ProfileFileRepository struct {
	db *gorm.DB
}

// NewProfileFileRepository creates a new profile file repository instance
func NewProfileFileRepository(db *gorm.DB) *ProfileFileRepository {
	return &ProfileFileRepository{db: db}
}

// Create creates a new profile file record in the database
func (r *ProfileFileRepository) Create(ctx context.Context, file *models.ProfileFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

// AddReplica records that a copy of the named profile file now exists at the
// referenced storage. It reports false when no matching file record exists.
func (r *ProfileFileRepository) AddReplica(ctx context.Context, profileID uuid.UUID, filename string, ref models.StorageRef) (bool, error) {
	var file models.ProfileFile
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND filename = ?", profileID, filename).
		First(&file).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get profile file: %w", err)
	}

	if file.Replicas.Contains(ref) {
		return true, nil
	}
	file.Replicas = append(file.Replicas, ref)
	if err := r.db.WithContext(ctx).Model(&file).Update("replicas", file.Replicas).Error; err != nil {
		return false, fmt.Errorf("failed to update profile file replicas: %w", err)
	}
	return true, nil
}
