package types

import (
	"strings"
	"testing"

	"github.com/arcvault/arcvault/internal/db/models"
)

func TestReplicateJobRequest_Validate(t *testing.T) {
	valid := ReplicateJobRequest{
		File: models.BaseFile{
			Filename: "crawls/manual-20250110/data.wacz",
			Hash:     "sha256:a1b2",
			Size:     1024,
			Storage:  models.StorageRef{Name: "default"},
		},
		ObjectID:   "manual-20250110",
		ObjectType: "crawl",
	}

	tests := []struct {
		name    string
		mutate  func(r *ReplicateJobRequest)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid request",
			mutate: func(_ *ReplicateJobRequest) {},
		},
		{
			name:    "empty filename",
			mutate:  func(r *ReplicateJobRequest) { r.File.Filename = "" },
			wantErr: true,
			errMsg:  "filename",
		},
		{
			name:    "empty storage ref",
			mutate:  func(r *ReplicateJobRequest) { r.File.Storage = models.StorageRef{} },
			wantErr: true,
			errMsg:  "storage ref",
		},
		{
			name:    "empty object id",
			mutate:  func(r *ReplicateJobRequest) { r.ObjectID = "" },
			wantErr: true,
			errMsg:  "object id",
		},
		{
			name:    "unknown object type",
			mutate:  func(r *ReplicateJobRequest) { r.ObjectType = "collection" },
			wantErr: true,
			errMsg:  "object type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("ReplicateJobRequest.Validate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && err != nil && tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("ReplicateJobRequest.Validate() error message = %v, want to contain %v", err, tt.errMsg)
			}
		})
	}
}

func TestCompleteJobRequest_Validate(t *testing.T) {
	success := true

	tests := []struct {
		name    string
		request CompleteJobRequest
		wantErr bool
	}{
		{
			name:    "valid request",
			request: CompleteJobRequest{Success: &success},
		},
		{
			name:    "missing success",
			request: CompleteJobRequest{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("CompleteJobRequest.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDeleteReplicaJobRequest_Validate(t *testing.T) {
	if err := (&DeleteReplicaJobRequest{FilePath: "replicas/data.wacz"}).Validate(); err != nil {
		t.Errorf("DeleteReplicaJobRequest.Validate() unexpected error = %v", err)
	}
	if err := (&DeleteReplicaJobRequest{}).Validate(); err == nil {
		t.Error("DeleteReplicaJobRequest.Validate() expected error for empty path")
	}
}
