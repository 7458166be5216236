package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Organization represents a tenant owning storage configuration, files and
// background jobs
type Organization struct {
	ID              uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	Name            string      `json:"name" gorm:"not null"`
	Slug            string      `json:"slug" gorm:"not null;uniqueIndex"`
	Storage         StorageRef  `json:"storage" gorm:"type:jsonb"`
	StorageReplicas StorageRefs `json:"storage_replicas" gorm:"type:jsonb"`
	CustomStorages  S3Storages  `json:"custom_storages,omitempty" gorm:"type:jsonb"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"-"`
}

// Validate ensures that the organization data is valid
func (o *Organization) Validate() error {
	if o.ID == uuid.Nil {
		return fmt.Errorf("organization id cannot be empty")
	}
	if o.Name == "" {
		return fmt.Errorf("organization name cannot be empty")
	}
	if o.Slug == "" {
		return fmt.Errorf("organization slug cannot be empty")
	}
	return nil
}
