// Package orchestrator dispatches background jobs to the external job
// orchestration system. This service only records and queries job state; the
// orchestrator owns scheduling, retries and the actual data movement.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	redis "github.com/redis/go-redis/v9"

	"github.com/arcvault/arcvault/internal/db/models"
)

// Task types understood by the replication workers
const (
	// TaskTypeReplicaCopy copies a file from primary storage to a replica
	// location
	TaskTypeReplicaCopy = "replica:copy"
	// TaskTypeReplicaDelete removes a file from a replica location
	TaskTypeReplicaDelete = "replica:delete"
	// ReplicationQueue is the queue replication tasks are enqueued on
	ReplicationQueue = "replication"
)

// ReplicateJobParams describes a single file copy from primary storage to one
// replica location
type ReplicateJobParams struct {
	PrimaryStorage  models.StorageRef
	PrimaryFilePath string
	PrimaryEndpoint string
	ReplicaStorage  models.StorageRef
	ReplicaFilePath string
	ReplicaEndpoint string
}

// DeleteReplicaJobParams describes the removal of a file from a replica
// location
type DeleteReplicaJobParams struct {
	ReplicaSecretName string
	ReplicaFilePath   string
}

// replicaCopyPayload is the wire payload for replica copy tasks. Workers read
// storage credentials from the named secrets.
type replicaCopyPayload struct {
	OID               string `json:"oid"`
	PrimarySecretName string `json:"primary_secret_name"`
	PrimaryFilePath   string `json:"primary_file_path"`
	PrimaryEndpoint   string `json:"primary_endpoint"`
	ReplicaSecretName string `json:"replica_secret_name"`
	ReplicaFilePath   string `json:"replica_file_path"`
	ReplicaEndpoint   string `json:"replica_endpoint"`
}

// replicaDeletePayload is the wire payload for replica delete tasks
type replicaDeletePayload struct {
	OID               string `json:"oid"`
	ReplicaSecretName string `json:"replica_secret_name"`
	ReplicaFilePath   string `json:"replica_file_path"`
}

// Dispatcher enqueues replication work on the orchestrator's queue. The task
// ID assigned by the orchestrator identifies the job from then on.
type Dispatcher struct {
	client   *asynq.Client
	redis    *redis.Client
	maxRetry int
}

// NewDispatcher connects to the orchestrator's redis broker. A dead broker
// fails the constructor rather than the first dispatch.
func NewDispatcher(ctx context.Context, redisURL string, maxRetry int) (*Dispatcher, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	ropt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	rdb := redis.NewClient(ropt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Dispatcher{
		client:   asynq.NewClient(opt),
		redis:    rdb,
		maxRetry: maxRetry,
	}, nil
}

// RunReplicateJob enqueues a replica copy task and returns the job ID
// assigned by the orchestrator
func (d *Dispatcher) RunReplicateJob(ctx context.Context, oid uuid.UUID, params ReplicateJobParams) (string, error) {
	body, err := json.Marshal(newReplicaCopyPayload(oid, params))
	if err != nil {
		return "", fmt.Errorf("failed to marshal replica copy payload: %w", err)
	}

	task := asynq.NewTask(TaskTypeReplicaCopy, body, asynq.Queue(ReplicationQueue))
	info, err := d.client.EnqueueContext(ctx, task, asynq.MaxRetry(d.maxRetry))
	if err != nil {
		return "", fmt.Errorf("failed to enqueue replica copy: %w", err)
	}
	return info.ID, nil
}

// RunDeleteReplicaJob enqueues a replica delete task and returns the job ID
// assigned by the orchestrator
func (d *Dispatcher) RunDeleteReplicaJob(ctx context.Context, oid uuid.UUID, params DeleteReplicaJobParams) (string, error) {
	body, err := json.Marshal(newReplicaDeletePayload(oid, params))
	if err != nil {
		return "", fmt.Errorf("failed to marshal replica delete payload: %w", err)
	}

	task := asynq.NewTask(TaskTypeReplicaDelete, body, asynq.Queue(ReplicationQueue))
	info, err := d.client.EnqueueContext(ctx, task, asynq.MaxRetry(d.maxRetry))
	if err != nil {
		return "", fmt.Errorf("failed to enqueue replica delete: %w", err)
	}
	return info.ID, nil
}

// Close releases the orchestrator connections
func (d *Dispatcher) Close() error {
	if err := d.client.Close(); err != nil {
		return err
	}
	return d.redis.Close()
}

// newReplicaDeletePayload builds the wire payload for a replica delete task
func newReplicaDeletePayload(oid uuid.UUID, params DeleteReplicaJobParams) replicaDeletePayload {
	return replicaDeletePayload{
		OID:               oid.String(),
		ReplicaSecretName: params.ReplicaSecretName,
		ReplicaFilePath:   params.ReplicaFilePath,
	}
}

// newReplicaCopyPayload builds the wire payload for a replica copy task
func newReplicaCopyPayload(oid uuid.UUID, params ReplicateJobParams) replicaCopyPayload {
	return replicaCopyPayload{
		OID:               oid.String(),
		PrimarySecretName: params.PrimaryStorage.SecretName(oid),
		PrimaryFilePath:   params.PrimaryFilePath,
		PrimaryEndpoint:   params.PrimaryEndpoint,
		ReplicaSecretName: params.ReplicaStorage.SecretName(oid),
		ReplicaFilePath:   params.ReplicaFilePath,
		ReplicaEndpoint:   params.ReplicaEndpoint,
	}
}
