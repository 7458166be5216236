package test

import (
	"context"
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcvault/arcvault/internal/db/models"
	"github.com/arcvault/arcvault/internal/orchestrator"
	"github.com/arcvault/arcvault/internal/types"
)

// createTestOrg seeds an organization that stores primaries in the default
// location and replicates to the backup location.
func createTestOrg(t *testing.T, suite *Suite) *models.Organization {
	t.Helper()
	org := &models.Organization{
		ID:              uuid.New(),
		Name:            "Flow Test Org",
		Slug:            "flow-test-" + uuid.NewString()[:8],
		Storage:         models.StorageRef{Name: "default"},
		StorageReplicas: models.StorageRefs{{Name: "backup"}},
	}
	require.NoError(t, suite.OrgRepo.Create(suite.Context(), org))
	return org
}

func TestReplicationFlow(t *testing.T) {
	suite := NewSuite(t)
	defer suite.Cleanup()

	org := createTestOrg(t, suite)

	// The crawl file the replication copies
	file := &models.CrawlFile{
		CrawlID:  "crawl-e2e",
		Filename: "archive.wacz",
		Hash:     "sha256:abc123",
		Size:     2048,
		Storage:  models.StorageRef{Name: "default"},
	}
	require.NoError(t, suite.CrawlFileRepo.Create(suite.Context(), file))

	// Start replication through the API
	started, err := suite.APIClient.ReplicateJob(suite.Context(), org.ID.String(), types.ReplicateJobRequest{
		File: models.BaseFile{
			Filename: "archive.wacz",
			Hash:     "sha256:abc123",
			Size:     2048,
			Storage:  models.StorageRef{Name: "default"},
		},
		ObjectID:   "crawl-e2e",
		ObjectType: "crawl",
	})
	require.NoError(t, err)
	assert.True(t, started.Added)
	require.Len(t, started.IDs, 1)
	jobID := started.IDs[0]

	// The dispatcher received the resolved bucket paths, not the bare filename
	calls := suite.Dispatcher.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, org.ID, calls[0].OrgID)
	assert.Equal(t, "bucket/archive.wacz", calls[0].Params.PrimaryFilePath)
	assert.Equal(t, "replicas/archive.wacz", calls[0].Params.ReplicaFilePath)

	// The job is visible through the API while still running
	job, err := suite.APIClient.GetJob(suite.Context(), org.ID.String(), jobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobTypeReplicate, job.Type)
	assert.Nil(t, job.Success, "job should still be running")
	assert.Equal(t, "archive.wacz", job.FilePath)

	listed, err := suite.APIClient.ListJobs(suite.Context(), org.ID.String(), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, listed.Total)
	require.Len(t, listed.Items, 1)
	assert.Equal(t, jobID, listed.Items[0].ID)

	// Report completion the way the orchestrator callback does
	success := true
	err = suite.APIClient.CompleteJob(suite.Context(), org.ID.String(), jobID, types.CompleteJobRequest{
		Success: &success,
	})
	require.NoError(t, err)

	// The job is finalized
	job, err = suite.APIClient.GetJob(suite.Context(), org.ID.String(), jobID)
	require.NoError(t, err)
	require.NotNil(t, job.Success)
	assert.True(t, *job.Success)
	require.NotNil(t, job.Finished)

	// The replica landed on the crawl file record
	var updated models.CrawlFile
	err = suite.DB.Where("crawl_id = ? AND filename = ?", "crawl-e2e", "archive.wacz").First(&updated).Error
	require.NoError(t, err)
	assert.True(t, updated.Replicas.Contains(models.StorageRef{Name: "backup"}))
}

func TestReplicationFlowDispatchFailure(t *testing.T) {
	suite := NewSuite(t)
	defer suite.Cleanup()

	org := createTestOrg(t, suite)

	suite.Dispatcher.RunReplicateJobFunc = func(_ context.Context, _ uuid.UUID, _ orchestrator.ReplicateJobParams) (string, error) {
		return "", errors.New("queue unavailable")
	}

	_, err := suite.APIClient.ReplicateJob(suite.Context(), org.ID.String(), types.ReplicateJobRequest{
		File: models.BaseFile{
			Filename: "archive.wacz",
			Storage:  models.StorageRef{Name: "default"},
		},
		ObjectID:   "crawl-e2e",
		ObjectType: "crawl",
	})
	require.Error(t, err)

	var fiberErr *fiber.Error
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusInternalServerError, fiberErr.Code)

	// No job rows linger after a failed dispatch
	jobs, err := suite.JobRepo.List(suite.Context(), org.ID, &models.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestReplicationFlowUnknownOrg(t *testing.T) {
	suite := NewSuite(t)
	defer suite.Cleanup()

	_, err := suite.APIClient.ReplicateJob(suite.Context(), uuid.NewString(), types.ReplicateJobRequest{
		File: models.BaseFile{
			Filename: "archive.wacz",
			Storage:  models.StorageRef{Name: "default"},
		},
		ObjectID:   "crawl-e2e",
		ObjectType: "crawl",
	})
	require.Error(t, err)

	var fiberErr *fiber.Error
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusNotFound, fiberErr.Code)
}

func TestHealthCheckFlow(t *testing.T) {
	suite := NewSuite(t)
	defer suite.Cleanup()

	health, err := suite.APIClient.HealthCheck(suite.Context())
	require.NoError(t, err)
	assert.Equal(t, "healthy", health["status"])
}
