package orchestrator

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcvault/arcvault/internal/db/models"
)

func TestReplicaCopyPayload(t *testing.T) {
	oid := uuid.MustParse("f0f81b5a-7a8f-4a7c-9e0c-9f3a1a9a6b1e")

	payload := newReplicaCopyPayload(oid, ReplicateJobParams{
		PrimaryStorage:  models.StorageRef{Name: "default"},
		PrimaryFilePath: "bucket/crawl-data.wacz",
		PrimaryEndpoint: "https://s3.example.com/",
		ReplicaStorage:  models.StorageRef{Name: "backup", Custom: true},
		ReplicaFilePath: "replicas/crawl-data.wacz",
		ReplicaEndpoint: "https://backup.example.com/",
	})

	assert.Equal(t, oid.String(), payload.OID)
	assert.Equal(t, "storage-default", payload.PrimarySecretName)
	assert.Equal(t, "storage-cs-backup-f0f81b5a-7a8f-4a7c-9e0c-9f3a1a9a6b1e", payload.ReplicaSecretName)
	assert.Equal(t, "bucket/crawl-data.wacz", payload.PrimaryFilePath)
	assert.Equal(t, "replicas/crawl-data.wacz", payload.ReplicaFilePath)

	// The payload wire names are fixed, workers parse them by key
	data, err := json.Marshal(payload)
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{
		"oid",
		"primary_secret_name", "primary_file_path", "primary_endpoint",
		"replica_secret_name", "replica_file_path", "replica_endpoint",
	} {
		assert.Contains(t, decoded, key)
	}
}

func TestReplicaDeletePayload(t *testing.T) {
	oid := uuid.New()

	payload := newReplicaDeletePayload(oid, DeleteReplicaJobParams{
		ReplicaSecretName: "storage-backup",
		ReplicaFilePath:   "replicas/crawl-data.wacz",
	})

	assert.Equal(t, oid.String(), payload.OID)
	assert.Equal(t, "storage-backup", payload.ReplicaSecretName)
	assert.Equal(t, "replicas/crawl-data.wacz", payload.ReplicaFilePath)
}

func TestNewDispatcherBadURL(t *testing.T) {
	_, err := NewDispatcher(context.Background(), "not-a-redis-url", 1)
	assert.Error(t, err)
}
