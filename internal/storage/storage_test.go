package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcvault/arcvault/internal/db/models"
)

func TestStripBucket(t *testing.T) {
	tests := []struct {
		name       string
		endpoint   string
		wantBase   string
		wantBucket string
	}{
		{
			name:       "Trailing slash",
			endpoint:   "https://s3.example.com/bucket/",
			wantBase:   "https://s3.example.com/",
			wantBucket: "bucket/",
		},
		{
			name:       "No trailing slash",
			endpoint:   "https://s3.example.com/bucket",
			wantBase:   "https://s3.example.com/",
			wantBucket: "bucket",
		},
		{
			name:       "Nested path",
			endpoint:   "https://s3.example.com/data/replica/",
			wantBase:   "https://s3.example.com/data/",
			wantBucket: "replica/",
		},
		{
			name:       "No separator",
			endpoint:   "bucket",
			wantBase:   "",
			wantBucket: "bucket",
		},
		{
			name:       "Empty",
			endpoint:   "",
			wantBase:   "",
			wantBucket: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, bucket := StripBucket(tt.endpoint)
			assert.Equal(t, tt.wantBase, base)
			assert.Equal(t, tt.wantBucket, bucket)
		})
	}
}

func TestLoadStorages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "storages.yaml")

	content := `storages:
  - name: default
    endpoint_url: https://s3.example.com/bucket/
    access_key: admin
    secret_key: hunter2
    region: us-east-1
    is_default_primary: true
  - name: replica-0
    endpoint_url: https://backup.example.com/replicas/
    access_key: replica
    secret_key: hunter3
    is_default_replica: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	storages, err := LoadStorages(path)
	require.NoError(t, err)
	require.Len(t, storages, 2)
	assert.Equal(t, "default", storages[0].Name)
	assert.True(t, storages[0].IsDefaultPrimary)
	assert.Equal(t, "https://backup.example.com/replicas/", storages[1].EndpointURL)
	assert.True(t, storages[1].IsDefaultReplica)

	_, err = LoadStorages(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("storages: []\n"), 0o600))
	_, err = LoadStorages(empty)
	assert.Error(t, err)
}

func TestRegistryResolution(t *testing.T) {
	registry := NewRegistry([]models.S3Storage{
		{Name: "default", EndpointURL: "https://s3.example.com/bucket/", IsDefaultPrimary: true},
		{Name: "replica-0", EndpointURL: "https://backup.example.com/replicas/", IsDefaultReplica: true},
	})

	org := &models.Organization{
		CustomStorages: models.S3Storages{
			{Name: "own-bucket", EndpointURL: "https://minio.org.example.com/data/"},
		},
	}

	s3, err := registry.GetOrgStorageByRef(org, models.StorageRef{Name: "default"})
	assert.NoError(t, err)
	assert.Equal(t, "https://s3.example.com/bucket/", s3.EndpointURL)

	s3, err = registry.GetOrgStorageByRef(org, models.StorageRef{Name: "own-bucket", Custom: true})
	assert.NoError(t, err)
	assert.Equal(t, "https://minio.org.example.com/data/", s3.EndpointURL)

	// A custom ref never resolves against the defaults
	_, err = registry.GetOrgStorageByRef(org, models.StorageRef{Name: "default", Custom: true})
	assert.ErrorIs(t, err, ErrStorageNotFound)

	_, err = registry.GetOrgStorageByRef(org, models.StorageRef{Name: "missing"})
	assert.ErrorIs(t, err, ErrStorageNotFound)
}

func TestRegistryReplicaRefs(t *testing.T) {
	registry := NewRegistry([]models.S3Storage{
		{Name: "default", IsDefaultPrimary: true},
		{Name: "replica-0", IsDefaultReplica: true},
		{Name: "replica-1", IsDefaultReplica: true},
	})

	// Org-level replicas win over the defaults
	org := &models.Organization{
		StorageReplicas: models.StorageRefs{{Name: "own-replica", Custom: true}},
	}
	assert.Equal(t, models.StorageRefs{{Name: "own-replica", Custom: true}}, registry.GetOrgReplicasStorageRefs(org))

	// Without org replicas the default replica locations are used
	refs := registry.GetOrgReplicasStorageRefs(&models.Organization{})
	assert.Equal(t, models.StorageRefs{{Name: "replica-0"}, {Name: "replica-1"}}, refs)
}
