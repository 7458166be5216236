// Package handlers provides HTTP request handling
package handlers

import (
	"errors"
	"strconv"
	"time"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/arcvault/arcvault/internal/db/models"
	"github.com/arcvault/arcvault/internal/services"
	"github.com/arcvault/arcvault/internal/storage"
	"github.com/arcvault/arcvault/internal/types"
)

// JobHandler handles HTTP requests for background jobs
type JobHandler struct {
	service *services.BackgroundJob
}

// NewJobHandler creates a new instance of JobHandler
func NewJobHandler(service *services.BackgroundJob) *JobHandler {
	return &JobHandler{
		service: service,
	}
}

// GetJob handles retrieving a background job by ID within an org
func (h *JobHandler) GetJob(c *fiber.Ctx) error {
	oid, err := uuid.Parse(c.Params("orgid"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{Error: ErrMsgInvalidOrgID})
	}

	if _, err := h.service.GetOrg(c.Context(), oid); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(types.ErrorResponse{Error: ErrMsgOrgNotFound})
	}

	job, err := h.service.GetBackgroundJob(c.Context(), oid, c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrJobNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ErrorResponse{Error: ErrMsgJobNotFound})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
			Error:   ErrMsgGetJobFailed,
			Details: err.Error(),
		})
	}

	return c.JSON(job)
}

// ListJobs handles retrieving an org's background jobs with pagination
func (h *JobHandler) ListJobs(c *fiber.Ctx) error {
	oid, err := uuid.Parse(c.Params("orgid"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{Error: ErrMsgInvalidOrgID})
	}

	if _, err := h.service.GetOrg(c.Context(), oid); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(types.ErrorResponse{Error: ErrMsgOrgNotFound})
	}

	opts := models.ListOptions{
		PageSize:      c.QueryInt("pageSize", models.DefaultPageSize),
		Page:          c.QueryInt("page", 1),
		SortBy:        c.Query("sortBy"),
		SortDirection: c.QueryInt("sortDirection", models.SortDescending),
	}

	if successStr := c.Query("success"); successStr != "" {
		success, err := strconv.ParseBool(successStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{Error: ErrMsgInvalidSuccess})
		}
		opts.Success = &success
	}

	if jobTypeStr := c.Query("jobType"); jobTypeStr != "" {
		jobType, err := models.ParseJobType(jobTypeStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{Error: ErrMsgInvalidJobType})
		}
		opts.JobType = jobType
	}

	jobs, total, err := h.service.ListBackgroundJobs(c.Context(), oid, &opts)
	if err != nil {
		if errors.Is(err, models.ErrInvalidSortBy) {
			return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{Error: ErrMsgInvalidSortBy})
		}
		if errors.Is(err, models.ErrInvalidSortDirection) {
			return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{Error: ErrMsgInvalidSortDirection})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
			Error:   ErrMsgListJobsFailed,
			Details: err.Error(),
		})
	}

	if jobs == nil {
		jobs = []models.BackgroundJob{}
	}

	return c.JSON(types.PaginatedResponse[models.BackgroundJob]{
		Items:    jobs,
		Total:    total,
		Page:     opts.Page,
		PageSize: opts.PageSize,
	})
}

// ReplicateJob handles dispatching replication jobs for a stored file, one
// per configured replica location
func (h *JobHandler) ReplicateJob(c *fiber.Ctx) error {
	oid, err := uuid.Parse(c.Params("orgid"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{Error: ErrMsgInvalidOrgID})
	}

	var req types.ReplicateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{Error: ErrMsgInvalidReqBody})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
			Error:   ErrMsgInvalidReqBody,
			Details: err.Error(),
		})
	}
	objectType, _ := models.ParseObjectType(req.ObjectType)

	ids, err := h.service.CreateReplicationJobs(c.Context(), oid, &req.File, req.ObjectID, objectType)
	if err != nil {
		if errors.Is(err, services.ErrOrganizationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ErrorResponse{Error: ErrMsgOrgNotFound})
		}
		if errors.Is(err, storage.ErrStorageNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{Error: ErrMsgInvalidStorageRef})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
			Error:   ErrMsgReplicationJobFailed,
			Details: err.Error(),
		})
	}

	if ids == nil {
		ids = []string{}
	}

	return c.Status(fiber.StatusCreated).JSON(types.ReplicationStartedResponse{
		Added: true,
		IDs:   ids,
	})
}

// CompleteJob handles the orchestrator's completion callback for a
// replication job. Repeated callbacks for the same job are accepted and
// ignored.
func (h *JobHandler) CompleteJob(c *fiber.Ctx) error {
	oid, err := uuid.Parse(c.Params("orgid"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{Error: ErrMsgInvalidOrgID})
	}

	if _, err := h.service.GetOrg(c.Context(), oid); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(types.ErrorResponse{Error: ErrMsgOrgNotFound})
	}

	var req types.CompleteJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{Error: ErrMsgInvalidReqBody})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
			Error:   ErrMsgInvalidReqBody,
			Details: err.Error(),
		})
	}

	var finished time.Time
	if req.Finished != nil {
		finished = *req.Finished
	}

	err = h.service.OnReplicationJobComplete(c.Context(), oid, c.Params("id"), *req.Success, finished)
	if err != nil {
		if errors.Is(err, services.ErrReplicaJobNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ErrorResponse{Error: ErrMsgReplicaJobNotFound})
		}
		if errors.Is(err, services.ErrMissingFileForReplica) {
			return c.Status(fiber.StatusNotFound).JSON(types.ErrorResponse{Error: ErrMsgMissingFileForRepl})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
			Error:   ErrMsgCompleteJobFailed,
			Details: err.Error(),
		})
	}

	return c.JSON(types.SuccessResponse{Success: true})
}

// DeleteReplicaJob handles dispatching a job to delete a file from a replica
// location
func (h *JobHandler) DeleteReplicaJob(c *fiber.Ctx) error {
	oid, err := uuid.Parse(c.Params("orgid"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{Error: ErrMsgInvalidOrgID})
	}

	if _, err := h.service.GetOrg(c.Context(), oid); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(types.ErrorResponse{Error: ErrMsgOrgNotFound})
	}

	var req types.DeleteReplicaJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{Error: ErrMsgInvalidReqBody})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
			Error:   ErrMsgInvalidReqBody,
			Details: err.Error(),
		})
	}

	if err := h.service.CreateDeleteReplicaJob(c.Context(), oid, req.FilePath); err != nil {
		if errors.Is(err, services.ErrDeleteReplicaNotSupported) {
			return c.Status(fiber.StatusNotImplemented).JSON(types.ErrorResponse{Error: ErrMsgDeleteReplicaUnsupp})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
			Error:   ErrMsgReplicationJobFailed,
			Details: err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(types.SuccessResponse{Success: true})
}
