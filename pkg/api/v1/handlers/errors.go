// Package handlers provides HTTP request handling
package handlers

// Common error slugs
const (
	ErrMsgInvalidOrgID   = "invalid_org_id"
	ErrMsgOrgNotFound    = "org_not_found"
	ErrMsgInvalidReqBody = "invalid_request_body"
)

// Job error slugs
const (
	ErrMsgJobNotFound          = "job_not_found"
	ErrMsgReplicaJobNotFound   = "replicate_job_not_found"
	ErrMsgMissingFileForRepl   = "missing_file_for_replica"
	ErrMsgDeleteReplicaUnsupp  = "delete_replica_not_supported"
	ErrMsgInvalidStorageRef    = "invalid_storage_ref"
	ErrMsgReplicationJobFailed = "replication_job_failed"
	ErrMsgCompleteJobFailed    = "complete_job_failed"
	ErrMsgGetJobFailed         = "get_job_failed"
	ErrMsgListJobsFailed       = "list_jobs_failed"
)

// List parameter error slugs
const (
	ErrMsgInvalidJobType       = "invalid_job_type"
	ErrMsgInvalidSuccess       = "invalid_success"
	ErrMsgInvalidSortBy        = "invalid_sort_by"
	ErrMsgInvalidSortDirection = "invalid_sort_direction"
)
