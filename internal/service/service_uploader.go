package service

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/biotaxa/taxoclient/internal/logger"
	"github.com/biotaxa/taxoclient/internal/objstore"
	"github.com/biotaxa/taxoclient/internal/store"
	"github.com/biotaxa/taxoclient/models"
)

// onlineChecker is the slice of the network status observer the uploader
// needs.
type onlineChecker interface {
	Online() bool
}

type uploader struct {
	objects  objstore.Store
	repo     store.UploadRepository
	net      onlineChecker
	notifier Notifier
	logger   *logger.Logger

	now func() time.Time
}

// NewUploader creates the artifact uploader. notifier receives tasks dropped
// at the retry ceiling; pass NewLogNotifier when nothing richer is wired.
func NewUploader(objects objstore.Store, repo store.UploadRepository, net onlineChecker, notifier Notifier, logger *logger.Logger) Uploader {
	return &uploader{
		objects:  objects,
		repo:     repo,
		net:      net,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// UploadFiles implements Uploader.
func (u *uploader) UploadFiles(ctx context.Context, files []models.LocalFile, basePath, bucket string, progress ProgressFunc) ([]string, error) {
	log := u.logger.With().Str("func", "UploadFiles").Str("bucket", bucket).Logger()

	online := u.net.Online()
	dests := make([]string, 0, len(files))

	for i, file := range files {
		dest := path.Join(basePath, file.Name)
		dests = append(dests, dest)

		if online {
			if err := u.uploadNow(ctx, file, bucket, dest); err == nil {
				u.report(progress, i+1, len(files))
				continue
			}
		}

		if err := u.enqueue(ctx, file, bucket, dest); err != nil {
			return dests, err
		}
		u.report(progress, i+1, len(files))
	}

	log.Info().
		Int("files", len(files)).
		Bool("online", online).
		Msg("upload batch processed")

	return dests, nil
}

// uploadNow attempts an immediate upload. The existence check fails open: a
// check error is treated as "absent" so the worst case is re-uploading an
// object that was already there.
func (u *uploader) uploadNow(ctx context.Context, file models.LocalFile, bucket, dest string) error {
	exists, err := u.objects.Exists(ctx, bucket, dest)
	if err != nil {
		u.logger.Warn().
			Str("func", "uploadNow").
			Str("object", dest).
			Err(err).
			Msg("existence check failed, uploading anyway")
		exists = false
	}
	if exists {
		return nil
	}

	if err = u.objects.Upload(ctx, bucket, dest, file.Path); err != nil {
		u.logger.Warn().
			Str("func", "uploadNow").
			Str("object", dest).
			Err(err).
			Msg("immediate upload failed, deferring")
		return err
	}

	return nil
}

func (u *uploader) enqueue(ctx context.Context, file models.LocalFile, bucket, dest string) error {
	task := models.UploadTask{
		ID:         uuid.NewString(),
		FileName:   file.Name,
		LocalPath:  file.Path,
		Bucket:     bucket,
		ObjectPath: dest,
		Status:     models.UploadQueued,
		Retries:    0,
		EnqueuedAt: u.now(),
	}

	if err := u.repo.Enqueue(ctx, task); err != nil {
		return fmt.Errorf("defer upload of %s: %w", file.Name, err)
	}

	return nil
}

// ProcessUploadQueue implements Uploader.
func (u *uploader) ProcessUploadQueue(ctx context.Context) error {
	tasks, err := u.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list deferred uploads: %w", err)
	}

	for _, task := range tasks {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		u.processTask(ctx, task)
	}

	return nil
}

func (u *uploader) processTask(ctx context.Context, task models.UploadTask) {
	log := u.logger.With().
		Str("func", "processTask").
		Str("task_id", task.ID).
		Str("object", task.ObjectPath).
		Logger()

	// a task already at the ceiling gets no further attempts, not even the
	// existence check
	if task.Retries >= models.MaxRetries {
		if err := u.repo.Remove(ctx, task.ID); err != nil {
			log.Error().Err(err).Msg("remove exhausted task")
			return
		}
		task.Status = models.UploadFailed
		u.notifier.UploadFailed(task, fmt.Errorf("retry ceiling reached after %d attempts", task.Retries))
		log.Warn().Int("retries", task.Retries).Msg("upload dropped at retry ceiling")
		return
	}

	// another client, or an earlier attempt, may have finished the job
	exists, err := u.objects.Exists(ctx, task.Bucket, task.ObjectPath)
	if err == nil && exists {
		if err = u.repo.Remove(ctx, task.ID); err != nil {
			log.Error().Err(err).Msg("remove satisfied task")
		}
		return
	}

	uploadErr := u.objects.Upload(ctx, task.Bucket, task.ObjectPath, task.LocalPath)
	if uploadErr == nil {
		if err = u.repo.Remove(ctx, task.ID); err != nil {
			log.Error().Err(err).Msg("remove finished task")
		}
		return
	}

	if task.Retries+1 >= models.MaxRetries {
		if err = u.repo.Remove(ctx, task.ID); err != nil {
			log.Error().Err(err).Msg("remove exhausted task")
			return
		}
		task.Status = models.UploadFailed
		u.notifier.UploadFailed(task, uploadErr)
		log.Warn().Err(uploadErr).Int("retries", task.Retries+1).Msg("upload dropped at retry ceiling")
		return
	}

	if err = u.repo.IncrementRetry(ctx, task.ID); err != nil {
		log.Error().Err(err).Msg("increment task retry")
		return
	}
	log.Warn().Err(uploadErr).Int("retries", task.Retries+1).Msg("upload failed, kept for next drain")
}

// PendingUploads implements Uploader.
func (u *uploader) PendingUploads(ctx context.Context) (int, error) {
	return u.repo.Count(ctx)
}

func (u *uploader) report(progress ProgressFunc, done, total int) {
	if progress == nil || total == 0 {
		return
	}
	progress(done * 100 / total)
}
