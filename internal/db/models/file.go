package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseFile carries the attributes of a stored object that replication
// operates on, independent of which subsystem produced it
type BaseFile struct {
	Filename string     `json:"filename"`
	Hash     string     `json:"hash"`
	Size     int64      `json:"size"`
	Storage  StorageRef `json:"storage"`
}

// CrawlFile represents a file produced by a crawl or upload together with the
// replica locations holding copies of it
type CrawlFile struct {
	gorm.Model
	CrawlID  string      `json:"crawl_id" gorm:"not null;index"`
	Filename string      `json:"filename" gorm:"not null"`
	Hash     string      `json:"hash"`
	Size     int64       `json:"size"`
	Storage  StorageRef  `json:"storage" gorm:"type:jsonb"`
	Replicas StorageRefs `json:"replicas" gorm:"type:jsonb"`
}

// ProfileFile represents a stored browser profile together with the replica
// locations holding copies of it
type ProfileFile struct {
	gorm.Model
	ProfileID uuid.UUID   `json:"profile_id" gorm:"type:uuid;not null;index"`
	Filename  string      `json:"filename" gorm:"not null"`
	Hash      string      `json:"hash"`
	Size      int64       `json:"size"`
	Storage   StorageRef  `json:"storage" gorm:"type:jsonb"`
	Replicas  StorageRefs `json:"replicas" gorm:"type:jsonb"`
}
