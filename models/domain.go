package models

import (
	"errors"
	"time"
)

// FileUpload is one sequencing artifact (FASTQ, classification report, …)
// registered with the backend. The binary content lives in the object store;
// this record only tracks where it went and how the upload ended.
type FileUpload struct {
	// ID is the remote primary key.
	ID string `json:"id"`

	// OrganizationID scopes the upload to a tenant.
	OrganizationID string `json:"organization_id"`

	// SampleID links the file to the sample it was sequenced from.
	SampleID string `json:"sample_id"`

	// FileName is the original file name as submitted.
	FileName string `json:"file_name"`

	// StoragePath is the object key inside the storage bucket.
	StoragePath string `json:"storage_path"`

	// SizeBytes is the file size as measured at upload time.
	SizeBytes int64 `json:"size_bytes"`

	// Status is the backend's view of the upload ("pending", "complete",
	// "failed").
	Status string `json:"status"`

	// UpdatedAt is the remote last-modification timestamp.
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the remote table FileUpload rows live in.
func (f FileUpload) TableName() string {
	return TableFileUploads
}

// Validate checks the fields the backend requires on insert/update.
func (f FileUpload) Validate() error {
	if f.OrganizationID == "" {
		return errors.New("file upload: organization_id is required")
	}
	if f.FileName == "" {
		return errors.New("file upload: file_name is required")
	}
	return nil
}

// ProcessedData is the per-sample, per-configuration classification result
// matrix (taxon abundance counts keyed by rank). It is high-churn: every
// re-analysis rewrites the row, so sync for this table is a plain
// last-write-wins upsert that bypasses the operation queue.
type ProcessedData struct {
	// ID is the remote primary key.
	ID string `json:"id"`

	// OrganizationID scopes the row to a tenant.
	OrganizationID string `json:"organization_id"`

	// SampleID identifies the classified sample.
	SampleID string `json:"sample_id"`

	// ConfigID identifies the classification configuration (database,
	// confidence threshold) the result was computed with.
	ConfigID string `json:"config_id"`

	// Taxa is the classification payload: taxon name to read count, one
	// map per result. Kept schemaless below rank level on purpose.
	Taxa map[string]int64 `json:"taxa"`

	// UpdatedAt is the remote last-modification timestamp.
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the remote table ProcessedData rows live in.
func (p ProcessedData) TableName() string {
	return TableProcessedData
}

// Validate checks the composite key the upsert path requires.
func (p ProcessedData) Validate() error {
	if p.SampleID == "" {
		return errors.New("processed data: sample_id is required")
	}
	if p.ConfigID == "" {
		return errors.New("processed data: config_id is required")
	}
	return nil
}
