package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arcvault/arcvault/internal/db/models"
)

// JobRepository provides access to background-job database operations
type JobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new job repository instance
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Upsert inserts a job record or replaces the existing record with the same
// ID. Job IDs come from the external orchestrator, and a re-dispatched job
// reuses its ID.
func (r *JobRepository) Upsert(ctx context.Context, job *models.BackgroundJob) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("invalid job: %w", err)
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(job).Error
}

// GetByID retrieves a job by its ID
// if oid is uuid.Nil, the job is returned regardless of the owning organization
// if jobType is empty, the job is returned regardless of its type
func (r *JobRepository) GetByID(ctx context.Context, oid uuid.UUID, id string, jobType models.JobType) (*models.BackgroundJob, error) {
	qry := r.db.WithContext(ctx).Where("id = ?", id)
	if oid != uuid.Nil {
		qry = qry.Where("oid = ?", oid)
	}
	if jobType != "" {
		qry = qry.Where(models.JobTypeField+" = ?", jobType)
	}

	var job models.BackgroundJob
	err := qry.First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("job not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// List returns a page of an organization's jobs. The options control
// filtering, sorting and the page window; the sort field is checked against
// the sortable columns before it reaches the query.
func (r *JobRepository) List(ctx context.Context, oid uuid.UUID, opts *models.ListOptions) ([]models.BackgroundJob, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	order := models.JobStartedField + " DESC, id"
	if opts.SortBy != "" {
		direction := "ASC"
		if opts.SortDirection == models.SortDescending {
			direction = "DESC"
		}
		order = fmt.Sprintf("%s %s, id", opts.SortBy, direction)
	}

	var jobs []models.BackgroundJob
	err := r.filtered(ctx, oid, opts).
		Order(order).
		Offset(opts.Skip()).Limit(opts.Limit()).
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

// Count returns the number of an organization's jobs matching the filter
// options
func (r *JobRepository) Count(ctx context.Context, oid uuid.UUID, opts *models.ListOptions) (int64, error) {
	if err := opts.Validate(); err != nil {
		return 0, err
	}

	var count int64
	if err := r.filtered(ctx, oid, opts).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return count, nil
}

// UpdateFinished records the outcome of a job scoped to its owning
// organization
func (r *JobRepository) UpdateFinished(ctx context.Context, oid uuid.UUID, id string, success bool, finished time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.BackgroundJob{}).
		Where("id = ? AND oid = ?", id, oid).
		Updates(map[string]interface{}{
			models.JobSuccessField:  success,
			models.JobFinishedField: finished,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update job: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("job not found: %w", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *JobRepository) filtered(ctx context.Context, oid uuid.UUID, opts *models.ListOptions) *gorm.DB {
	qry := r.db.WithContext(ctx).Model(&models.BackgroundJob{}).Where("oid = ?", oid)
	if opts.Success != nil {
		qry = qry.Where(models.JobSuccessField+" = ?", *opts.Success)
	}
	if opts.JobType != "" {
		qry = qry.Where(models.JobTypeField+" = ?", opts.JobType)
	}
	return qry
}
