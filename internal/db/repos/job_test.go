package repos

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/arcvault/arcvault/internal/db/models"
)

type JobRepositoryTestSuite struct {
	DBRepositoryTestSuite
}

func TestJobRepository(t *testing.T) {
	suite.Run(t, new(JobRepositoryTestSuite))
}

func (s *JobRepositoryTestSuite) TestUpsert() {
	oid := uuid.New()
	job := s.createTestJob(oid, "job-1", models.UTCNow())

	// Upserting the same ID again replaces the record instead of adding a row
	job.ReplicaStorage = models.StorageRef{Name: "replica-1"}
	s.NoError(s.jobRepo.Upsert(s.ctx, job))

	var count int64
	s.NoError(s.db.Model(&models.BackgroundJob{}).Count(&count).Error)
	s.Equal(int64(1), count)

	found, err := s.jobRepo.GetByID(s.ctx, oid, "job-1", "")
	s.NoError(err)
	s.Equal("replica-1", found.ReplicaStorage.Name)
	s.Nil(found.Success)
	s.Nil(found.Finished)
}

func (s *JobRepositoryTestSuite) TestUpsertInvalid() {
	job := &models.BackgroundJob{OID: uuid.New(), Type: models.JobTypeReplicate}
	s.Error(s.jobRepo.Upsert(s.ctx, job), "job without an ID should be rejected")
}

func (s *JobRepositoryTestSuite) TestGetByID() {
	oid := uuid.New()
	original := s.createTestJob(oid, "job-1", models.UTCNow())

	found, err := s.jobRepo.GetByID(s.ctx, oid, original.ID, "")
	s.NoError(err)
	s.Equal(original.ID, found.ID)
	s.Equal(original.FilePath, found.FilePath)

	// Test getting without an org filter
	found, err = s.jobRepo.GetByID(s.ctx, uuid.Nil, original.ID, "")
	s.NoError(err)
	s.Equal(original.ID, found.ID)

	// Test with the wrong org
	_, err = s.jobRepo.GetByID(s.ctx, uuid.New(), original.ID, "")
	s.Error(err)
	s.True(errors.Is(err, gorm.ErrRecordNotFound))

	// Test with a non-existent ID
	_, err = s.jobRepo.GetByID(s.ctx, oid, "missing", "")
	s.Error(err)
	s.True(errors.Is(err, gorm.ErrRecordNotFound))
}

func (s *JobRepositoryTestSuite) TestGetByIDTypeFilter() {
	oid := uuid.New()
	s.createTestJob(oid, "job-1", models.UTCNow())

	found, err := s.jobRepo.GetByID(s.ctx, oid, "job-1", models.JobTypeReplicate)
	s.NoError(err)
	s.Equal(models.JobTypeReplicate, found.Type)

	_, err = s.jobRepo.GetByID(s.ctx, oid, "job-1", models.JobTypeDeleteReplica)
	s.Error(err)
	s.True(errors.Is(err, gorm.ErrRecordNotFound))
}

func (s *JobRepositoryTestSuite) TestListDefaultOrder() {
	oid := uuid.New()
	base := models.UTCNow().Add(-time.Hour)
	s.createTestJob(oid, "job-old", base)
	s.createTestJob(oid, "job-mid", base.Add(time.Minute))
	s.createTestJob(oid, "job-new", base.Add(2*time.Minute))

	// Jobs from another org must not appear
	s.createTestJob(uuid.New(), "job-other", base)

	jobs, err := s.jobRepo.List(s.ctx, oid, &models.ListOptions{})
	s.NoError(err)
	s.Len(jobs, 3)
	s.Equal("job-new", jobs[0].ID)
	s.Equal("job-mid", jobs[1].ID)
	s.Equal("job-old", jobs[2].ID)
}

func (s *JobRepositoryTestSuite) TestListPagination() {
	oid := uuid.New()
	base := models.UTCNow().Add(-time.Hour)
	ids := []string{"job-a", "job-b", "job-c", "job-d", "job-e"}
	for i, id := range ids {
		s.createTestJob(oid, id, base.Add(time.Duration(i)*time.Minute))
	}

	// Walk the pages and check the concatenation covers every job exactly once
	var seen []string
	for page := 1; ; page++ {
		jobs, err := s.jobRepo.List(s.ctx, oid, &models.ListOptions{PageSize: 2, Page: page})
		s.NoError(err)
		s.LessOrEqual(len(jobs), 2)
		if len(jobs) == 0 {
			break
		}
		for _, job := range jobs {
			seen = append(seen, job.ID)
		}
	}
	s.Equal([]string{"job-e", "job-d", "job-c", "job-b", "job-a"}, seen)

	total, err := s.jobRepo.Count(s.ctx, oid, &models.ListOptions{})
	s.NoError(err)
	s.Equal(int64(5), total)
}

func (s *JobRepositoryTestSuite) TestListFilters() {
	oid := uuid.New()
	base := models.UTCNow().Add(-time.Hour)
	s.createTestJob(oid, "job-a", base)
	s.createTestJob(oid, "job-b", base.Add(time.Minute))

	succeeded := true
	s.NoError(s.jobRepo.UpdateFinished(s.ctx, oid, "job-a", succeeded, models.UTCNow()))

	jobs, err := s.jobRepo.List(s.ctx, oid, &models.ListOptions{Success: &succeeded})
	s.NoError(err)
	s.Len(jobs, 1)
	s.Equal("job-a", jobs[0].ID)

	failed := false
	jobs, err = s.jobRepo.List(s.ctx, oid, &models.ListOptions{Success: &failed})
	s.NoError(err)
	s.Empty(jobs)

	jobs, err = s.jobRepo.List(s.ctx, oid, &models.ListOptions{JobType: models.JobTypeDeleteReplica})
	s.NoError(err)
	s.Empty(jobs)

	count, err := s.jobRepo.Count(s.ctx, oid, &models.ListOptions{Success: &succeeded})
	s.NoError(err)
	s.Equal(int64(1), count)
}

func (s *JobRepositoryTestSuite) TestListSorting() {
	oid := uuid.New()
	base := models.UTCNow().Add(-time.Hour)
	s.createTestJob(oid, "job-a", base.Add(2*time.Minute))
	s.createTestJob(oid, "job-b", base)
	s.createTestJob(oid, "job-c", base.Add(time.Minute))

	jobs, err := s.jobRepo.List(s.ctx, oid, &models.ListOptions{
		SortBy:        models.JobStartedField,
		SortDirection: models.SortAscending,
	})
	s.NoError(err)
	s.Equal([]string{"job-b", "job-c", "job-a"}, []string{jobs[0].ID, jobs[1].ID, jobs[2].ID})

	jobs, err = s.jobRepo.List(s.ctx, oid, &models.ListOptions{
		SortBy:        models.JobStartedField,
		SortDirection: models.SortDescending,
	})
	s.NoError(err)
	s.Equal([]string{"job-a", "job-c", "job-b"}, []string{jobs[0].ID, jobs[1].ID, jobs[2].ID})
}

func (s *JobRepositoryTestSuite) TestListInvalidSort() {
	oid := uuid.New()
	s.createTestJob(oid, "job-a", models.UTCNow())

	_, err := s.jobRepo.List(s.ctx, oid, &models.ListOptions{SortBy: "oid", SortDirection: 1})
	s.ErrorIs(err, models.ErrInvalidSortBy)

	_, err = s.jobRepo.List(s.ctx, oid, &models.ListOptions{SortBy: models.JobTypeField, SortDirection: 3})
	s.ErrorIs(err, models.ErrInvalidSortDirection)

	_, err = s.jobRepo.Count(s.ctx, oid, &models.ListOptions{SortBy: "oid", SortDirection: 1})
	s.ErrorIs(err, models.ErrInvalidSortBy)
}

func (s *JobRepositoryTestSuite) TestUpdateFinished() {
	oid := uuid.New()
	s.createTestJob(oid, "job-1", models.UTCNow().Add(-time.Minute))

	finished := models.UTCNow()
	s.NoError(s.jobRepo.UpdateFinished(s.ctx, oid, "job-1", true, finished))

	found, err := s.jobRepo.GetByID(s.ctx, oid, "job-1", "")
	s.NoError(err)
	s.Require().NotNil(found.Success)
	s.True(*found.Success)
	s.Require().NotNil(found.Finished)
	s.WithinDuration(finished, *found.Finished, time.Second)

	// Wrong org leaves the record untouched
	err = s.jobRepo.UpdateFinished(s.ctx, uuid.New(), "job-1", false, finished)
	s.Error(err)
	s.True(errors.Is(err, gorm.ErrRecordNotFound))
}
