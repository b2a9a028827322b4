package objstore

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/biotaxa/taxoclient/internal/config"
	"github.com/biotaxa/taxoclient/internal/logger"
)

// s3Client is the minimal slice of *minio.Client the store needs. Narrowing
// the surface here lets tests substitute a fake without a live server.
type s3Client interface {
	FPutObject(ctx context.Context, bucket, key, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	FGetObject(ctx context.Context, bucket, key, destPath string, opts minio.GetObjectOptions) error
	ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	RemoveObject(ctx context.Context, bucket, key string, opts minio.RemoveObjectOptions) error
	PresignedGetObject(ctx context.Context, bucket, key string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
	StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

// MinioStore is the S3-compatible implementation of [Store].
type MinioStore struct {
	client       s3Client
	signedURLTTL time.Duration
	logger       *logger.Logger
}

// NewStore builds the [Store] matching cfg: the Noop store when no endpoint
// is configured, a minio-backed store otherwise.
func NewStore(cfg config.ObjectStore, logger *logger.Logger) (Store, error) {
	if cfg.Endpoint == "" {
		logger.Info().Msg("object storage not configured, artifact content stays local")
		return &Noop{}, nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object storage client: %w", err)
	}

	return &MinioStore{
		client:       client,
		signedURLTTL: cfg.SignedURLTTL,
		logger:       logger,
	}, nil
}

// Upload implements [Store].
func (s *MinioStore) Upload(ctx context.Context, bucket, key, filePath string) error {
	opts := minio.PutObjectOptions{ContentType: "application/octet-stream"}
	if _, err := s.client.FPutObject(ctx, bucket, key, filePath, opts); err != nil {
		return fmt.Errorf("upload %s to %s: %w", key, bucket, err)
	}

	s.logger.Debug().
		Str("func", "Upload").
		Str("bucket", bucket).
		Str("key", key).
		Msg("artifact stored")

	return nil
}

// Download implements [Store].
func (s *MinioStore) Download(ctx context.Context, bucket, key, destPath string) error {
	if err := s.client.FGetObject(ctx, bucket, key, destPath, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("download %s from %s: %w", key, bucket, err)
	}
	return nil
}

// List implements [Store].
func (s *MinioStore) List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	for obj := range s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list %s in %s: %w", prefix, bucket, obj.Err)
		}
		objects = append(objects, ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	return objects, nil
}

// Remove implements [Store].
func (s *MinioStore) Remove(ctx context.Context, bucket, key string) error {
	if err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove %s from %s: %w", key, bucket, err)
	}
	return nil
}

// SignedURL implements [Store].
func (s *MinioStore) SignedURL(ctx context.Context, bucket, key string) (string, time.Time, error) {
	presigned, err := s.client.PresignedGetObject(ctx, bucket, key, s.signedURLTTL, nil)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign url for %s: %w", key, err)
	}

	return presigned.String(), time.Now().Add(s.signedURLTTL), nil
}

// Exists implements [Store]. A missing object is reported as (false, nil);
// any other storage failure is returned to the caller to decide on.
func (s *MinioStore) Exists(ctx context.Context, bucket, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}

	if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" || resp.Code == "NotFound" {
		return false, nil
	}

	return false, fmt.Errorf("stat %s in %s: %w", key, bucket, err)
}

// Noop is used when object storage is not configured. Content operations
// fail with [ErrNotConfigured]; Exists reports false so callers treat every
// artifact as not-yet-stored.
type Noop struct{}

// Upload implements [Store].
func (Noop) Upload(context.Context, string, string, string) error { return ErrNotConfigured }

// Download implements [Store].
func (Noop) Download(context.Context, string, string, string) error { return ErrNotConfigured }

// List implements [Store].
func (Noop) List(context.Context, string, string) ([]ObjectInfo, error) {
	return nil, ErrNotConfigured
}

// Remove implements [Store].
func (Noop) Remove(context.Context, string, string) error { return ErrNotConfigured }

// SignedURL implements [Store].
func (Noop) SignedURL(context.Context, string, string) (string, time.Time, error) {
	return "", time.Time{}, ErrNotConfigured
}

// Exists implements [Store].
func (Noop) Exists(context.Context, string, string) (bool, error) { return false, nil }
