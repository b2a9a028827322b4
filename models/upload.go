package models

import "time"

// UploadStatus describes where an UploadTask is in its lifecycle.
type UploadStatus string

const (
	// UploadQueued means the task is waiting for the next queue drain.
	UploadQueued UploadStatus = "queued"

	// UploadInProgress means an upload attempt is currently running.
	UploadInProgress UploadStatus = "uploading"

	// UploadDone means the object landed in the bucket. Finished tasks are
	// removed from the queue, so this status is only ever observed
	// transiently.
	UploadDone UploadStatus = "done"

	// UploadFailed means the task exhausted its retries.
	UploadFailed UploadStatus = "failed"
)

// LocalFile describes a file on the client machine that should end up in the
// object store. The bytes stay on disk until the upload attempt reads them.
type LocalFile struct {
	// Name is the file name used to derive the destination object path.
	Name string `json:"name"`

	// Path is the absolute location of the file on the local filesystem.
	Path string `json:"path"`
}

// UploadTask is a deferred object upload. Tasks are created when an upload
// is attempted offline or fails online, and are drained sequentially on the
// next transition to online.
type UploadTask struct {
	// ID is an opaque unique identifier assigned at enqueue time.
	ID string `json:"id"`

	// FileName is the original local file name.
	FileName string `json:"file_name"`

	// LocalPath points at the source file on disk.
	LocalPath string `json:"local_path"`

	// Bucket is the destination namespace in the object store.
	Bucket string `json:"bucket"`

	// ObjectPath is the destination key inside the bucket.
	ObjectPath string `json:"object_path"`

	// Status tracks the task lifecycle. Persisted tasks are always
	// "queued"; the other states exist only in memory during a drain.
	Status UploadStatus `json:"status"`

	// Retries counts failed upload attempts. Once it reaches MaxRetries the
	// task is dropped and a terminal failure is reported.
	Retries int `json:"retries"`

	// EnqueuedAt orders the queue and is set when the task is persisted.
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// TableName returns the name of the local table
// associated with the UploadTask model.
func (t UploadTask) TableName() string {
	return "pending_uploads"
}
