package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arcvault/arcvault/internal/db/models"
	"github.com/arcvault/arcvault/internal/db/repos"
	"github.com/arcvault/arcvault/internal/events"
	"github.com/arcvault/arcvault/internal/logger"
	"github.com/arcvault/arcvault/internal/orchestrator"
	"github.com/arcvault/arcvault/internal/storage"
)

// BackgroundJob service errors
var (
	ErrOrganizationNotFound      = errors.New("organization not found")
	ErrJobNotFound               = errors.New("job not found")
	ErrReplicaJobNotFound        = errors.New("replicate job not found")
	ErrMissingFileForReplica     = errors.New("missing file for replica")
	ErrDeleteReplicaNotSupported = errors.New("delete replica jobs not supported")
)

// JobDispatcher hands replication work to the external orchestrator
type JobDispatcher interface {
	RunReplicateJob(ctx context.Context, oid uuid.UUID, params orchestrator.ReplicateJobParams) (string, error)
}

// CrawlFileUpdater records replica locations on crawl and upload file records
type CrawlFileUpdater interface {
	AddReplica(ctx context.Context, crawlID, filename string, ref models.StorageRef) (bool, error)
}

// ProfileFileUpdater records replica locations on profile file records
type ProfileFileUpdater interface {
	AddReplica(ctx context.Context, profileID uuid.UUID, filename string, ref models.StorageRef) (bool, error)
}

// BackgroundJob provides business logic for tracking jobs that run in the
// external orchestrator
type BackgroundJob struct {
	jobRepo      *repos.JobRepository
	orgRepo      *repos.OrgRepository
	registry     *storage.Registry
	dispatcher   JobDispatcher
	crawlFiles   CrawlFileUpdater
	profileFiles ProfileFileUpdater
}

// NewBackgroundJobService creates a new background job service instance
func NewBackgroundJobService(
	jobRepo *repos.JobRepository,
	orgRepo *repos.OrgRepository,
	registry *storage.Registry,
	dispatcher JobDispatcher,
	crawlFiles CrawlFileUpdater,
	profileFiles ProfileFileUpdater,
) *BackgroundJob {
	return &BackgroundJob{
		jobRepo:      jobRepo,
		orgRepo:      orgRepo,
		registry:     registry,
		dispatcher:   dispatcher,
		crawlFiles:   crawlFiles,
		profileFiles: profileFiles,
	}
}

// GetOrg retrieves an organization by ID
func (s *BackgroundJob) GetOrg(ctx context.Context, oid uuid.UUID) (*models.Organization, error) {
	org, err := s.orgRepo.GetByID(ctx, oid)
	if err != nil {
		return nil, errors.Join(ErrOrganizationNotFound, err)
	}
	return org, nil
}

// CreateReplicationJobs dispatches one replication job per configured replica
// location for the given file and records each dispatched job. It returns the
// job IDs assigned by the orchestrator.
func (s *BackgroundJob) CreateReplicationJobs(ctx context.Context, oid uuid.UUID, file *models.BaseFile, objectID string, objectType models.ObjectType) ([]string, error) {
	org, err := s.GetOrg(ctx, oid)
	if err != nil {
		return nil, err
	}

	primaryStorage, err := s.registry.GetOrgStorageByRef(org, file.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve primary storage: %w", err)
	}
	primaryEndpoint, bucketSuffix := storage.StripBucket(primaryStorage.EndpointURL)
	primaryFilePath := bucketSuffix + file.Filename

	replicaRefs := s.registry.GetOrgReplicasStorageRefs(org)

	ids := make([]string, 0, len(replicaRefs))
	for _, replicaRef := range replicaRefs {
		replicaStorage, err := s.registry.GetOrgStorageByRef(org, replicaRef)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve replica storage: %w", err)
		}
		replicaEndpoint, bucketSuffix := storage.StripBucket(replicaStorage.EndpointURL)
		replicaFilePath := bucketSuffix + file.Filename

		logger.DebugWithFields("Dispatching replication job", map[string]interface{}{
			"primary_secret":   file.Storage.SecretName(oid),
			"primary_endpoint": primaryEndpoint,
			"primary_path":     primaryFilePath,
			"replica_secret":   replicaRef.SecretName(oid),
			"replica_endpoint": replicaEndpoint,
			"replica_path":     replicaFilePath,
		})

		jobID, err := s.dispatcher.RunReplicateJob(ctx, oid, orchestrator.ReplicateJobParams{
			PrimaryStorage:  file.Storage,
			PrimaryFilePath: primaryFilePath,
			PrimaryEndpoint: primaryEndpoint,
			ReplicaStorage:  replicaRef,
			ReplicaFilePath: replicaFilePath,
			ReplicaEndpoint: replicaEndpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to dispatch replication job: %w", err)
		}

		job := &models.BackgroundJob{
			ID:             jobID,
			OID:            oid,
			Type:           models.JobTypeReplicate,
			Started:        models.UTCNow(),
			FilePath:       file.Filename,
			ObjectType:     objectType,
			ObjectID:       objectID,
			Primary:        file.Storage,
			ReplicaStorage: replicaRef,
		}
		if err := s.jobRepo.Upsert(ctx, job); err != nil {
			return nil, fmt.Errorf("failed to record job %s: %w", jobID, err)
		}

		events.Publish(events.Event{
			Type:    events.EventJobDispatched,
			JobID:   jobID,
			JobType: models.JobTypeReplicate,
			OID:     oid,
		})
		ids = append(ids, jobID)
	}

	return ids, nil
}

// OnReplicationJobComplete records the outcome the orchestrator reported for
// a replication job. Completions are idempotent: repeating one for an already
// finished job changes nothing. On success the replica is recorded on the
// file the job replicated; when that file no longer exists the job record is
// still finalized and ErrMissingFileForReplica is returned.
func (s *BackgroundJob) OnReplicationJobComplete(ctx context.Context, oid uuid.UUID, jobID string, success bool, finished time.Time) error {
	job, err := s.GetReplicaBackgroundJob(ctx, oid, jobID)
	if err != nil {
		return err
	}

	// Already finished, nothing to do
	if job.Finished != nil {
		return nil
	}

	if finished.IsZero() {
		finished = models.UTCNow()
	}

	missingFile := false
	if success {
		found, err := s.addFileReplica(ctx, job)
		if err != nil {
			return err
		}
		missingFile = !found
	}

	if err := s.jobRepo.UpdateFinished(ctx, oid, jobID, success, finished); err != nil {
		return fmt.Errorf("failed to finalize job %s: %w", jobID, err)
	}

	events.Publish(events.Event{
		Type:    events.EventJobFinished,
		JobID:   jobID,
		JobType: job.Type,
		OID:     oid,
		Success: &success,
	})

	if missingFile {
		return ErrMissingFileForReplica
	}
	return nil
}

// addFileReplica routes the replica update to the subsystem owning the
// replicated file
func (s *BackgroundJob) addFileReplica(ctx context.Context, job *models.BackgroundJob) (bool, error) {
	switch job.ObjectType {
	case models.ObjectTypeCrawl, models.ObjectTypeUpload:
		return s.crawlFiles.AddReplica(ctx, job.ObjectID, job.FilePath, job.ReplicaStorage)
	case models.ObjectTypeProfile:
		profileID, err := uuid.Parse(job.ObjectID)
		if err != nil {
			return false, fmt.Errorf("invalid profile id %q: %w", job.ObjectID, err)
		}
		return s.profileFiles.AddReplica(ctx, profileID, job.FilePath, job.ReplicaStorage)
	default:
		return false, fmt.Errorf("unknown object type: %s", job.ObjectType)
	}
}

// CreateDeleteReplicaJob dispatches removal of a file from a replica storage
// location.
//
// TODO: enable once the replication workers handle replica:delete tasks
func (s *BackgroundJob) CreateDeleteReplicaJob(_ context.Context, _ uuid.UUID, _ string) error {
	return ErrDeleteReplicaNotSupported
}

// GetBackgroundJob retrieves a job scoped to an organization
func (s *BackgroundJob) GetBackgroundJob(ctx context.Context, oid uuid.UUID, jobID string) (*models.BackgroundJob, error) {
	job, err := s.jobRepo.GetByID(ctx, oid, jobID, "")
	if err != nil {
		return nil, errors.Join(ErrJobNotFound, err)
	}
	return job, nil
}

// GetReplicaBackgroundJob retrieves a replication job scoped to an
// organization
func (s *BackgroundJob) GetReplicaBackgroundJob(ctx context.Context, oid uuid.UUID, jobID string) (*models.BackgroundJob, error) {
	job, err := s.jobRepo.GetByID(ctx, oid, jobID, models.JobTypeReplicate)
	if err != nil {
		return nil, errors.Join(ErrReplicaJobNotFound, err)
	}
	return job, nil
}

// ListBackgroundJobs returns a page of an organization's jobs together with
// the total number of jobs matching the filters
func (s *BackgroundJob) ListBackgroundJobs(ctx context.Context, oid uuid.UUID, opts *models.ListOptions) ([]models.BackgroundJob, int64, error) {
	jobs, err := s.jobRepo.List(ctx, oid, opts)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.jobRepo.Count(ctx, oid, opts)
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}
