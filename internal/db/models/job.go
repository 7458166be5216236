package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Field names for the background job model
const (
	// JobSuccessField is the column name for the job outcome
	JobSuccessField = "success"
	// JobTypeField is the column name for the job type
	JobTypeField = "type"
	// JobStartedField is the column name for the dispatch timestamp
	JobStartedField = "started"
	// JobFinishedField is the column name for the completion timestamp
	JobFinishedField = "finished"
)

// jobSortFields are the columns list queries may sort by
var jobSortFields = []string{JobSuccessField, JobTypeField, JobStartedField, JobFinishedField}

// IsJobSortField reports whether field names a sortable job column
func IsJobSortField(field string) bool {
	for _, f := range jobSortFields {
		if field == f {
			return true
		}
	}
	return false
}

// JobType represents the kind of work a background job performs
type JobType string

// Job type constants
const (
	// JobTypeReplicate indicates a job copying a file to a replica storage
	// location
	JobTypeReplicate JobType = "replicate"
	// JobTypeDeleteReplica indicates a job removing a file from a replica
	// storage location
	JobTypeDeleteReplica JobType = "delete-replica"
)

// String returns the string representation of the job type
func (t JobType) String() string {
	return string(t)
}

// ParseJobType converts a string to a JobType
func ParseJobType(str string) (JobType, error) {
	switch str {
	case string(JobTypeReplicate):
		return JobTypeReplicate, nil
	case string(JobTypeDeleteReplica):
		return JobTypeDeleteReplica, nil
	default:
		return "", fmt.Errorf("invalid job type: %s", str)
	}
}

// UnmarshalJSON implements json.Unmarshaler for JobType
func (t *JobType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	jobType, err := ParseJobType(str)
	if err != nil {
		return err
	}

	*t = jobType
	return nil
}

// MarshalJSON implements json.Marshaler for JobType
func (t *JobType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// ObjectType identifies which subsystem owns a replicated file
type ObjectType string

// Object type constants
const (
	// ObjectTypeCrawl marks a file produced by a crawl
	ObjectTypeCrawl ObjectType = "crawl"
	// ObjectTypeUpload marks a file added through an upload
	ObjectTypeUpload ObjectType = "upload"
	// ObjectTypeProfile marks a stored browser profile
	ObjectTypeProfile ObjectType = "profile"
)

// String returns the string representation of the object type
func (t ObjectType) String() string {
	return string(t)
}

// ParseObjectType converts a string to an ObjectType
func ParseObjectType(str string) (ObjectType, error) {
	switch str {
	case string(ObjectTypeCrawl):
		return ObjectTypeCrawl, nil
	case string(ObjectTypeUpload):
		return ObjectTypeUpload, nil
	case string(ObjectTypeProfile):
		return ObjectTypeProfile, nil
	default:
		return "", fmt.Errorf("invalid object type: %s", str)
	}
}

// BackgroundJob represents a unit of work running in the external job
// orchestrator, tracked from dispatch to completion. The ID is assigned by
// the orchestrator when the job is enqueued.
type BackgroundJob struct {
	ID       string     `json:"id" gorm:"primaryKey"`
	OID      uuid.UUID  `json:"oid" gorm:"column:oid;type:uuid;not null;index"`
	Type     JobType    `json:"type" gorm:"not null;index"`
	Success  *bool      `json:"success" gorm:"index"`
	Started  time.Time  `json:"started" gorm:"not null;index"`
	Finished *time.Time `json:"finished"`

	// Replication fields, populated for replicate and delete-replica jobs
	FilePath       string     `json:"file_path,omitempty"`
	ObjectType     ObjectType `json:"object_type,omitempty"`
	ObjectID       string     `json:"object_id,omitempty"`
	Primary        StorageRef `json:"primary" gorm:"type:jsonb"`
	ReplicaStorage StorageRef `json:"replica_storage" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Validate ensures that the job data is valid
func (j *BackgroundJob) Validate() error {
	if j.ID == "" {
		return fmt.Errorf("job id cannot be empty")
	}
	if _, err := ParseJobType(string(j.Type)); err != nil {
		return err
	}
	if j.OID == uuid.Nil {
		return fmt.Errorf("job organization id cannot be empty")
	}
	return nil
}

// BeforeCreate is a GORM hook that runs before inserting a job row
func (j *BackgroundJob) BeforeCreate(_ *gorm.DB) error {
	if j.Started.IsZero() {
		j.Started = UTCNow()
	}
	return j.Validate()
}
