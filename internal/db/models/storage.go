package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// StorageRef is a pointer to a named storage location, either one of the
// deployment-wide defaults or a custom storage owned by an organization
type StorageRef struct {
	Name   string `json:"name"`
	Custom bool   `json:"custom"`
}

// SecretName returns the name of the credentials secret the external
// orchestrator reads this storage's keys from
func (r StorageRef) SecretName(oid uuid.UUID) string {
	if r.Custom {
		return fmt.Sprintf("storage-cs-%s-%s", r.Name, oid)
	}
	return fmt.Sprintf("storage-%s", r.Name)
}

// Value implements the driver.Valuer interface
func (r StorageRef) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan implements the sql.Scanner interface
func (r *StorageRef) Scan(value interface{}) error {
	if value == nil {
		*r = StorageRef{}
		return nil
	}

	bytes, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("failed to scan storage ref: %w", err)
	}
	return json.Unmarshal(bytes, r)
}

// StorageRefs is a slice of StorageRef
type StorageRefs []StorageRef

// Contains reports whether refs already includes ref
func (refs StorageRefs) Contains(ref StorageRef) bool {
	for _, r := range refs {
		if r == ref {
			return true
		}
	}
	return false
}

// Value implements the driver.Valuer interface
func (refs StorageRefs) Value() (driver.Value, error) {
	if refs == nil {
		return nil, nil
	}
	return json.Marshal(refs)
}

// Scan implements the sql.Scanner interface
func (refs *StorageRefs) Scan(value interface{}) error {
	if value == nil {
		*refs = nil
		return nil
	}

	bytes, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("failed to scan storage refs: %w", err)
	}

	// Try first as array
	var temp []StorageRef
	if err := json.Unmarshal(bytes, &temp); err == nil {
		*refs = temp
		return nil
	}

	// If array fails, try as single object
	var single StorageRef
	if err := json.Unmarshal(bytes, &single); err != nil {
		return fmt.Errorf("failed to unmarshal as array or object: %w", err)
	}

	*refs = []StorageRef{single}
	return nil
}

// S3Storage holds the connection details for one S3-compatible storage
// location. The endpoint URL includes the bucket and any path prefix.
type S3Storage struct {
	Name             string `json:"name" yaml:"name"`
	EndpointURL      string `json:"endpoint_url" yaml:"endpoint_url"`
	AccessKey        string `json:"access_key" yaml:"access_key"`
	SecretKey        string `json:"secret_key" yaml:"secret_key"`
	Region           string `json:"region" yaml:"region"`
	IsDefaultPrimary bool   `json:"is_default_primary" yaml:"is_default_primary"`
	IsDefaultReplica bool   `json:"is_default_replica" yaml:"is_default_replica"`
}

// Ref returns the StorageRef pointing at this storage
func (s S3Storage) Ref(custom bool) StorageRef {
	return StorageRef{Name: s.Name, Custom: custom}
}

// S3Storages is a slice of S3Storage
type S3Storages []S3Storage

// ByName returns the storage with the given name
func (s S3Storages) ByName(name string) (S3Storage, bool) {
	for _, storage := range s {
		if storage.Name == name {
			return storage, true
		}
	}
	return S3Storage{}, false
}

// Value implements the driver.Valuer interface
func (s S3Storages) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface
func (s *S3Storages) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	bytes, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("failed to scan storages: %w", err)
	}
	return json.Unmarshal(bytes, s)
}

// jsonBytes normalizes a raw driver value to a byte slice. Postgres hands
// jsonb columns back as []byte while sqlite returns string.
func jsonBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unexpected JSONB value type %T", value)
	}
}
