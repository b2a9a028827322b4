package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biotaxa/taxoclient/internal/logger"
	"github.com/biotaxa/taxoclient/internal/objstore"
	"github.com/biotaxa/taxoclient/models"
)

// fakeObjects is an in-memory object store that records calls and can be
// told to fail.
type fakeObjects struct {
	stored    map[string]bool
	uploadErr error
	existsErr error

	existsCalls int
	uploadCalls int
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{stored: make(map[string]bool)}
}

func (f *fakeObjects) Upload(_ context.Context, bucket, key, _ string) error {
	f.uploadCalls++
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.stored[bucket+"/"+key] = true
	return nil
}

func (f *fakeObjects) Exists(_ context.Context, bucket, key string) (bool, error) {
	f.existsCalls++
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.stored[bucket+"/"+key], nil
}

func (f *fakeObjects) Download(context.Context, string, string, string) error { return nil }
func (f *fakeObjects) Remove(context.Context, string, string) error           { return nil }
func (f *fakeObjects) List(context.Context, string, string) ([]objstore.ObjectInfo, error) {
	return nil, nil
}
func (f *fakeObjects) SignedURL(context.Context, string, string) (string, time.Time, error) {
	return "", time.Time{}, nil
}

// fakeUploadRepo is an in-memory upload queue.
type fakeUploadRepo struct {
	tasks []models.UploadTask
}

func (f *fakeUploadRepo) Enqueue(_ context.Context, task models.UploadTask) error {
	f.tasks = append(f.tasks, task)
	return nil
}

func (f *fakeUploadRepo) List(context.Context) ([]models.UploadTask, error) {
	out := make([]models.UploadTask, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

func (f *fakeUploadRepo) Remove(_ context.Context, id string) error {
	for i, task := range f.tasks {
		if task.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeUploadRepo) IncrementRetry(_ context.Context, id string) error {
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].Retries++
			return nil
		}
	}
	return nil
}

func (f *fakeUploadRepo) Count(context.Context) (int, error) { return len(f.tasks), nil }

type fakeNet struct{ online bool }

func (f *fakeNet) Online() bool          { return f.online }
func (f *fakeNet) SetOnline(online bool) { f.online = online }

// spyNotifier records terminal failures.
type spyNotifier struct {
	uploads []models.UploadTask
	ops     []models.PendingOperation
}

func (s *spyNotifier) UploadFailed(task models.UploadTask, _ error)      { s.uploads = append(s.uploads, task) }
func (s *spyNotifier) OperationDropped(op models.PendingOperation, _ error) { s.ops = append(s.ops, op) }

func newTestUploader(objects *fakeObjects, repo *fakeUploadRepo, online bool) (*uploader, *spyNotifier) {
	notifier := &spyNotifier{}
	u := NewUploader(objects, repo, &fakeNet{online: online}, notifier, logger.Nop()).(*uploader)
	return u, notifier
}

func TestUploader_UploadFiles_Online(t *testing.T) {
	objects := newFakeObjects()
	repo := &fakeUploadRepo{}
	u, _ := newTestUploader(objects, repo, true)

	files := []models.LocalFile{
		{Name: "run7.fastq", Path: "/data/run7.fastq"},
		{Name: "run8.fastq", Path: "/data/run8.fastq"},
	}

	var percents []int
	dests, err := u.UploadFiles(context.Background(), files, "org-1/samples", "artifacts", func(p int) {
		percents = append(percents, p)
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"org-1/samples/run7.fastq", "org-1/samples/run8.fastq"}, dests)
	assert.True(t, objects.stored["artifacts/org-1/samples/run7.fastq"])
	assert.True(t, objects.stored["artifacts/org-1/samples/run8.fastq"])
	assert.Empty(t, repo.tasks)
	assert.Equal(t, []int{50, 100}, percents)
}

func TestUploader_UploadFiles_SkipsExisting(t *testing.T) {
	objects := newFakeObjects()
	objects.stored["artifacts/org-1/run7.fastq"] = true
	u, _ := newTestUploader(objects, &fakeUploadRepo{}, true)

	_, err := u.UploadFiles(context.Background(), []models.LocalFile{{Name: "run7.fastq", Path: "/data/run7.fastq"}}, "org-1", "artifacts", nil)
	require.NoError(t, err)

	assert.Zero(t, objects.uploadCalls, "an already stored object must not be re-uploaded")
}

func TestUploader_UploadFiles_ExistenceCheckFailsOpen(t *testing.T) {
	objects := newFakeObjects()
	objects.existsErr = errors.New("stat timeout")
	u, _ := newTestUploader(objects, &fakeUploadRepo{}, true)

	_, err := u.UploadFiles(context.Background(), []models.LocalFile{{Name: "run7.fastq", Path: "/data/run7.fastq"}}, "org-1", "artifacts", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, objects.uploadCalls, "a failed existence check must fall through to upload")
}

func TestUploader_UploadFiles_FailureDefersAndContinues(t *testing.T) {
	objects := newFakeObjects()
	objects.uploadErr = errors.New("connection reset")
	repo := &fakeUploadRepo{}
	u, _ := newTestUploader(objects, repo, true)

	files := []models.LocalFile{
		{Name: "run7.fastq", Path: "/data/run7.fastq"},
		{Name: "run8.fastq", Path: "/data/run8.fastq"},
	}

	dests, err := u.UploadFiles(context.Background(), files, "org-1", "artifacts", nil)
	require.NoError(t, err)

	assert.Len(t, dests, 2, "destination paths cover deferred files too")
	require.Len(t, repo.tasks, 2)
	assert.Equal(t, "org-1/run7.fastq", repo.tasks[0].ObjectPath)
	assert.Zero(t, repo.tasks[0].Retries)
	assert.Equal(t, models.UploadQueued, repo.tasks[0].Status)
}

func TestUploader_UploadFiles_OfflineMakesNoRemoteCalls(t *testing.T) {
	objects := newFakeObjects()
	repo := &fakeUploadRepo{}
	u, _ := newTestUploader(objects, repo, false)

	files := []models.LocalFile{
		{Name: "run7.fastq", Path: "/data/run7.fastq"},
		{Name: "run8.fastq", Path: "/data/run8.fastq"},
	}

	dests, err := u.UploadFiles(context.Background(), files, "org-1", "artifacts", nil)
	require.NoError(t, err)

	assert.Zero(t, objects.existsCalls, "offline submission must not touch the object store")
	assert.Zero(t, objects.uploadCalls)
	assert.Len(t, repo.tasks, 2)
	assert.Len(t, dests, 2)
}

func TestUploader_ProcessUploadQueue_Drains(t *testing.T) {
	objects := newFakeObjects()
	repo := &fakeUploadRepo{tasks: []models.UploadTask{
		{ID: "t-1", Bucket: "artifacts", ObjectPath: "org-1/run7.fastq", LocalPath: "/data/run7.fastq"},
	}}
	u, _ := newTestUploader(objects, repo, true)

	require.NoError(t, u.ProcessUploadQueue(context.Background()))
	assert.Empty(t, repo.tasks, "delivered task must leave the queue")
	assert.True(t, objects.stored["artifacts/org-1/run7.fastq"])
}

func TestUploader_ProcessUploadQueue_RemovesSatisfiedTask(t *testing.T) {
	objects := newFakeObjects()
	objects.stored["artifacts/org-1/run7.fastq"] = true
	repo := &fakeUploadRepo{tasks: []models.UploadTask{
		{ID: "t-1", Bucket: "artifacts", ObjectPath: "org-1/run7.fastq"},
	}}
	u, _ := newTestUploader(objects, repo, true)

	require.NoError(t, u.ProcessUploadQueue(context.Background()))
	assert.Empty(t, repo.tasks)
	assert.Zero(t, objects.uploadCalls, "a satisfied task must not be uploaded again")
}

func TestUploader_ProcessUploadQueue_RetryThenKeep(t *testing.T) {
	objects := newFakeObjects()
	objects.uploadErr = errors.New("connection reset")
	repo := &fakeUploadRepo{tasks: []models.UploadTask{
		{ID: "t-1", Bucket: "artifacts", ObjectPath: "org-1/run7.fastq", Retries: 0},
	}}
	u, notifier := newTestUploader(objects, repo, true)

	require.NoError(t, u.ProcessUploadQueue(context.Background()))

	require.Len(t, repo.tasks, 1, "task under the ceiling stays queued")
	assert.Equal(t, 1, repo.tasks[0].Retries)
	assert.Empty(t, notifier.uploads)
}

func TestUploader_ProcessUploadQueue_DropsAtCeiling(t *testing.T) {
	objects := newFakeObjects()
	objects.uploadErr = errors.New("connection reset")
	repo := &fakeUploadRepo{tasks: []models.UploadTask{
		{ID: "t-1", Bucket: "artifacts", ObjectPath: "org-1/run7.fastq", Retries: models.MaxRetries - 1},
	}}
	u, notifier := newTestUploader(objects, repo, true)

	require.NoError(t, u.ProcessUploadQueue(context.Background()))

	assert.Empty(t, repo.tasks, "exhausted task must leave the queue")
	require.Len(t, notifier.uploads, 1)
	assert.Equal(t, "t-1", notifier.uploads[0].ID)
	assert.Equal(t, models.UploadFailed, notifier.uploads[0].Status)

	// no further attempts for the dropped task
	uploadsSoFar := objects.uploadCalls
	require.NoError(t, u.ProcessUploadQueue(context.Background()))
	assert.Equal(t, uploadsSoFar, objects.uploadCalls)
}

func TestUploader_ProcessUploadQueue_ExhaustedTaskGetsNoAttempt(t *testing.T) {
	// a task loaded with its retries already spent is dropped outright,
	// even when the store would happily accept the upload
	objects := newFakeObjects()
	repo := &fakeUploadRepo{tasks: []models.UploadTask{
		{ID: "t-1", Bucket: "artifacts", ObjectPath: "org-1/run7.fastq", Retries: models.MaxRetries},
	}}
	u, notifier := newTestUploader(objects, repo, true)

	require.NoError(t, u.ProcessUploadQueue(context.Background()))

	assert.Zero(t, objects.uploadCalls, "exhausted task must not be uploaded")
	assert.Zero(t, objects.existsCalls, "exhausted task must not even be existence-checked")
	assert.Empty(t, repo.tasks)
	require.Len(t, notifier.uploads, 1)
	assert.Equal(t, "t-1", notifier.uploads[0].ID)
	assert.Equal(t, models.UploadFailed, notifier.uploads[0].Status)
}

func TestUploader_ProcessUploadQueue_OneFailureDoesNotAbort(t *testing.T) {
	objects := newFakeObjects()
	repo := &fakeUploadRepo{tasks: []models.UploadTask{
		{ID: "t-bad", Bucket: "artifacts", ObjectPath: "org-1/missing.fastq", LocalPath: "/data/missing.fastq"},
		{ID: "t-good", Bucket: "artifacts", ObjectPath: "org-1/run8.fastq", LocalPath: "/data/run8.fastq"},
	}}
	u, _ := newTestUploader(objects, repo, true)

	objects.uploadErr = errors.New("connection reset")
	require.NoError(t, u.ProcessUploadQueue(context.Background()))
	require.Len(t, repo.tasks, 2, "both tasks kept after a failing drain")
	assert.Equal(t, 1, repo.tasks[0].Retries)
	assert.Equal(t, 1, repo.tasks[1].Retries, "a failing task must not stop the drain from visiting the rest")

	objects.uploadErr = nil
	require.NoError(t, u.ProcessUploadQueue(context.Background()))
	assert.Empty(t, repo.tasks, "clean drain delivers everything")
}

func TestUploader_PendingUploads(t *testing.T) {
	repo := &fakeUploadRepo{tasks: []models.UploadTask{{ID: "t-1"}, {ID: "t-2"}}}
	u, _ := newTestUploader(newFakeObjects(), repo, true)

	n, err := u.PendingUploads(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
