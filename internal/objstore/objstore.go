// Package objstore stores and retrieves sequencing artifacts in
// S3-compatible object storage. When storage is not configured (empty
// endpoint) the Noop store is used and every operation reports
// ErrNotConfigured, keeping the client in metadata-only mode.
package objstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotConfigured is returned when object storage is not configured.
var ErrNotConfigured = errors.New("object storage not configured")

//go:generate mockgen -source=objstore.go -destination=../mock/objstore_mock.go -package=mock

// ObjectInfo describes one stored artifact.
type ObjectInfo struct {
	// Key is the full object key inside the bucket.
	Key string

	// Size is the object size in bytes.
	Size int64

	// LastModified is the storage-side modification instant.
	LastModified time.Time
}

// Store is the object-storage contract for sequencing artifacts. All keys
// are bucket-relative; the zero prefix lists the whole bucket.
type Store interface {
	// Upload stores the local file at filePath under key in bucket.
	Upload(ctx context.Context, bucket, key, filePath string) error

	// Download fetches the object at key into the local file destPath.
	Download(ctx context.Context, bucket, key, destPath string) error

	// List returns the objects in bucket whose keys start with prefix.
	List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)

	// Remove deletes the object at key. Removing a missing object is not
	// an error.
	Remove(ctx context.Context, bucket, key string) error

	// SignedURL returns a pre-signed GET URL for the object plus the
	// instant the link stops working.
	SignedURL(ctx context.Context, bucket, key string) (url string, expiry time.Time, err error)

	// Exists reports whether an object is already stored at key.
	Exists(ctx context.Context, bucket, key string) (bool, error)
}
