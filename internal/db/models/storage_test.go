package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStorageRef_SecretName(t *testing.T) {
	oid := uuid.MustParse("f0f81b5a-7a8f-4a7c-9e0c-9f3a1a9a6b1e")

	defaultRef := StorageRef{Name: "default"}
	assert.Equal(t, "storage-default", defaultRef.SecretName(oid))

	customRef := StorageRef{Name: "backup", Custom: true}
	assert.Equal(t, "storage-cs-backup-f0f81b5a-7a8f-4a7c-9e0c-9f3a1a9a6b1e", customRef.SecretName(oid))
}

func TestStorageRef_ScanValue(t *testing.T) {
	ref := StorageRef{Name: "replica-0", Custom: true}

	value, err := ref.Value()
	assert.NoError(t, err)

	var fromBytes StorageRef
	assert.NoError(t, fromBytes.Scan(value))
	assert.Equal(t, ref, fromBytes)

	// sqlite hands jsonb columns back as string
	var fromString StorageRef
	assert.NoError(t, fromString.Scan(`{"name":"replica-0","custom":true}`))
	assert.Equal(t, ref, fromString)

	var fromNil StorageRef
	assert.NoError(t, fromNil.Scan(nil))
	assert.Equal(t, StorageRef{}, fromNil)

	var bad StorageRef
	assert.Error(t, bad.Scan(42))
}

func TestStorageRefs_ScanValue(t *testing.T) {
	refs := StorageRefs{
		{Name: "replica-0"},
		{Name: "backup", Custom: true},
	}

	value, err := refs.Value()
	assert.NoError(t, err)

	var scanned StorageRefs
	assert.NoError(t, scanned.Scan(value))
	assert.Equal(t, refs, scanned)

	// A single object is promoted to a one-element slice
	var single StorageRefs
	assert.NoError(t, single.Scan([]byte(`{"name":"replica-0","custom":false}`)))
	assert.Equal(t, StorageRefs{{Name: "replica-0"}}, single)

	var nilRefs StorageRefs
	value, err = nilRefs.Value()
	assert.NoError(t, err)
	assert.Nil(t, value)
}

func TestStorageRefs_Contains(t *testing.T) {
	refs := StorageRefs{{Name: "replica-0"}}

	assert.True(t, refs.Contains(StorageRef{Name: "replica-0"}))
	assert.False(t, refs.Contains(StorageRef{Name: "replica-0", Custom: true}))
	assert.False(t, refs.Contains(StorageRef{Name: "replica-1"}))
}

func TestS3Storages_ByName(t *testing.T) {
	storages := S3Storages{
		{Name: "default", EndpointURL: "https://s3.example.com/bucket/"},
		{Name: "replica-0", EndpointURL: "https://backup.example.com/replicas/"},
	}

	found, ok := storages.ByName("replica-0")
	assert.True(t, ok)
	assert.Equal(t, "https://backup.example.com/replicas/", found.EndpointURL)

	_, ok = storages.ByName("missing")
	assert.False(t, ok)
}
