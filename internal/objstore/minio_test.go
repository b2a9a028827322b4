package objstore

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biotaxa/taxoclient/internal/config"
	"github.com/biotaxa/taxoclient/internal/logger"
)

type fakeS3 struct {
	uploaded map[string]string // bucket/key -> source path
	removed  []string
	objects  []minio.ObjectInfo
	statErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{uploaded: make(map[string]string)}
}

func (f *fakeS3) FPutObject(_ context.Context, bucket, key, filePath string, _ minio.PutObjectOptions) (minio.UploadInfo, error) {
	f.uploaded[bucket+"/"+key] = filePath
	return minio.UploadInfo{Bucket: bucket, Key: key}, nil
}

func (f *fakeS3) FGetObject(_ context.Context, _, _, _ string, _ minio.GetObjectOptions) error {
	return nil
}

func (f *fakeS3) ListObjects(_ context.Context, _ string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(f.objects))
	for _, obj := range f.objects {
		if opts.Prefix == "" || len(obj.Key) >= len(opts.Prefix) && obj.Key[:len(opts.Prefix)] == opts.Prefix {
			ch <- obj
		}
	}
	close(ch)
	return ch
}

func (f *fakeS3) RemoveObject(_ context.Context, bucket, key string, _ minio.RemoveObjectOptions) error {
	f.removed = append(f.removed, bucket+"/"+key)
	return nil
}

func (f *fakeS3) PresignedGetObject(_ context.Context, bucket, key string, _ time.Duration, _ url.Values) (*url.URL, error) {
	return url.Parse("https://storage.example.org/" + bucket + "/" + key + "?signature=abc")
}

func (f *fakeS3) StatObject(_ context.Context, _, _ string, _ minio.StatObjectOptions) (minio.ObjectInfo, error) {
	if f.statErr != nil {
		return minio.ObjectInfo{}, f.statErr
	}
	return minio.ObjectInfo{}, nil
}

func newTestStore(fake *fakeS3) *MinioStore {
	return &MinioStore{client: fake, signedURLTTL: 15 * time.Minute, logger: logger.Nop()}
}

func TestMinioStore_Upload(t *testing.T) {
	fake := newFakeS3()
	store := newTestStore(fake)

	err := store.Upload(context.Background(), "artifacts", "org-1/run7.fastq", "/tmp/run7.fastq")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/run7.fastq", fake.uploaded["artifacts/org-1/run7.fastq"])
}

func TestMinioStore_List(t *testing.T) {
	fake := newFakeS3()
	fake.objects = []minio.ObjectInfo{
		{Key: "org-1/run7.fastq", Size: 1024},
		{Key: "org-1/run8.fastq", Size: 2048},
		{Key: "org-2/run1.fastq", Size: 512},
	}
	store := newTestStore(fake)

	objects, err := store.List(context.Background(), "artifacts", "org-1/")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "org-1/run7.fastq", objects[0].Key)
	assert.Equal(t, int64(1024), objects[0].Size)
}

func TestMinioStore_Remove(t *testing.T) {
	fake := newFakeS3()
	store := newTestStore(fake)

	require.NoError(t, store.Remove(context.Background(), "artifacts", "org-1/run7.fastq"))
	assert.Equal(t, []string{"artifacts/org-1/run7.fastq"}, fake.removed)
}

func TestMinioStore_SignedURL(t *testing.T) {
	store := newTestStore(newFakeS3())

	before := time.Now()
	signed, expiry, err := store.SignedURL(context.Background(), "artifacts", "org-1/run7.fastq")
	require.NoError(t, err)
	assert.Contains(t, signed, "org-1/run7.fastq")
	assert.Contains(t, signed, "signature=")
	assert.WithinDuration(t, before.Add(15*time.Minute), expiry, time.Second)
}

func TestMinioStore_Exists(t *testing.T) {
	fake := newFakeS3()
	store := newTestStore(fake)

	exists, err := store.Exists(context.Background(), "artifacts", "org-1/run7.fastq")
	require.NoError(t, err)
	assert.True(t, exists)

	fake.statErr = minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}
	exists, err = store.Exists(context.Background(), "artifacts", "org-1/missing.fastq")
	require.NoError(t, err)
	assert.False(t, exists)

	fake.statErr = minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}
	_, err = store.Exists(context.Background(), "artifacts", "org-1/run7.fastq")
	assert.Error(t, err)
}

func TestNewStore_NoopWhenUnconfigured(t *testing.T) {
	store, err := NewStore(config.ObjectStore{}, logger.Nop())
	require.NoError(t, err)
	require.IsType(t, &Noop{}, store)

	assert.ErrorIs(t, store.Upload(context.Background(), "b", "k", "/tmp/f"), ErrNotConfigured)
	_, _, err = store.SignedURL(context.Background(), "b", "k")
	assert.ErrorIs(t, err, ErrNotConfigured)

	exists, err := store.Exists(context.Background(), "b", "k")
	require.NoError(t, err)
	assert.False(t, exists)
}
