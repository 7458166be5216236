// Package storage resolves storage references against the deployment's
// default storage locations and per-organization custom storages.
package storage

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arcvault/arcvault/internal/db/models"
)

// ErrStorageNotFound indicates a storage reference that resolves to no
// configured storage location
var ErrStorageNotFound = errors.New("storage not found")

// storagesFile is the on-disk shape of the default storages config
type storagesFile struct {
	Storages []models.S3Storage `yaml:"storages"`
}

// LoadStorages reads the deployment's default storage locations from a YAML
// file
func LoadStorages(path string) ([]models.S3Storage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read storages file: %w", err)
	}

	var file storagesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse storages file: %w", err)
	}
	if len(file.Storages) == 0 {
		return nil, fmt.Errorf("no storages defined in %s", path)
	}
	return file.Storages, nil
}

// Registry resolves storage references. Default storages are shared by every
// organization, custom storages are defined per organization.
type Registry struct {
	defaults models.S3Storages
}

// NewRegistry creates a registry over the deployment's default storages
func NewRegistry(defaults []models.S3Storage) *Registry {
	return &Registry{defaults: defaults}
}

// GetOrgStorageByRef resolves a storage reference for an organization
func (r *Registry) GetOrgStorageByRef(org *models.Organization, ref models.StorageRef) (models.S3Storage, error) {
	if ref.Custom {
		s3, ok := org.CustomStorages.ByName(ref.Name)
		if !ok {
			return models.S3Storage{}, fmt.Errorf("custom storage %q: %w", ref.Name, ErrStorageNotFound)
		}
		return s3, nil
	}

	s3, ok := r.defaults.ByName(ref.Name)
	if !ok {
		return models.S3Storage{}, fmt.Errorf("storage %q: %w", ref.Name, ErrStorageNotFound)
	}
	return s3, nil
}

// GetOrgReplicasStorageRefs returns the replica locations configured for an
// organization, falling back to the deployment-wide default replicas
func (r *Registry) GetOrgReplicasStorageRefs(org *models.Organization) models.StorageRefs {
	if len(org.StorageReplicas) > 0 {
		return org.StorageReplicas
	}

	var refs models.StorageRefs
	for _, s3 := range r.defaults {
		if s3.IsDefaultReplica {
			refs = append(refs, s3.Ref(false))
		}
	}
	return refs
}

// StripBucket splits an endpoint URL into the service endpoint and the bucket
// path prefix, cutting at the last "/" before the final character so a
// trailing slash stays with the bucket prefix
func StripBucket(endpointURL string) (string, string) {
	if endpointURL == "" {
		return "", ""
	}
	inx := strings.LastIndex(endpointURL[:len(endpointURL)-1], "/") + 1
	return endpointURL[:inx], endpointURL[inx:]
}
