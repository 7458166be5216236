// Package types defines the request and response bodies shared by the API
// handlers and the client
package types

import (
	"fmt"
	"time"

	"github.com/arcvault/arcvault/internal/db/models"
)

// ReplicateJobRequest asks for a file to be copied to every configured
// replica location of the org
type ReplicateJobRequest struct {
	// File is the stored file to replicate, including its primary storage ref
	File models.BaseFile `json:"file"`

	// ObjectID identifies the crawl, upload, or profile that owns the file
	ObjectID string `json:"object_id"`

	// ObjectType is the owning subsystem: crawl, upload, or profile
	ObjectType string `json:"object_type"`
}

// Validate checks that the request carries everything dispatch needs
func (r *ReplicateJobRequest) Validate() error {
	if r.File.Filename == "" {
		return fmt.Errorf("file filename cannot be empty")
	}
	if r.File.Storage.Name == "" {
		return fmt.Errorf("file storage ref cannot be empty")
	}
	if r.ObjectID == "" {
		return fmt.Errorf("object id cannot be empty")
	}
	if _, err := models.ParseObjectType(r.ObjectType); err != nil {
		return err
	}
	return nil
}

// DeleteReplicaJobRequest asks for a replica copy of a file to be removed
type DeleteReplicaJobRequest struct {
	// FilePath is the path of the replica to delete, relative to its bucket
	FilePath string `json:"file_path"`
}

// Validate checks that the request names a replica path
func (r *DeleteReplicaJobRequest) Validate() error {
	if r.FilePath == "" {
		return fmt.Errorf("file path cannot be empty")
	}
	return nil
}

// CompleteJobRequest is the orchestrator's completion callback body
type CompleteJobRequest struct {
	// Success reports whether the replication task succeeded. Required.
	Success *bool `json:"success"`

	// Finished is when the task finished. Defaults to now when omitted.
	Finished *time.Time `json:"finished,omitempty"`
}

// Validate checks that the callback states an outcome
func (r *CompleteJobRequest) Validate() error {
	if r.Success == nil {
		return fmt.Errorf("success is required")
	}
	return nil
}

// ReplicationStartedResponse reports the jobs dispatched for a replicate
// request
type ReplicationStartedResponse struct {
	// Added is true when every job was dispatched and recorded
	Added bool `json:"added"`

	// IDs are the background job ids assigned by the orchestrator
	IDs []string `json:"ids"`
}
