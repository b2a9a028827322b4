package store

import (
	"context"
	"fmt"

	"github.com/biotaxa/taxoclient/internal/logger"
	"github.com/biotaxa/taxoclient/models"
)

type uploadRepository struct {
	*DB
	logger *logger.Logger
}

// NewUploadRepository returns the SQLite-backed pending-uploads queue.
func NewUploadRepository(db *DB, logger *logger.Logger) UploadRepository {
	return &uploadRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *uploadRepository) Enqueue(ctx context.Context, task models.UploadTask) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, enqueueUpload,
		task.ID,
		task.FileName,
		task.LocalPath,
		task.Bucket,
		task.ObjectPath,
		task.Status,
		task.Retries,
		task.EnqueuedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "uploadRepository.Enqueue").
			Str("task_id", task.ID).
			Str("object_path", task.ObjectPath).
			Msg("failed to persist upload task")
		return fmt.Errorf("failed to enqueue upload task (id=%s): %w", task.ID, err)
	}

	return nil
}

func (r *uploadRepository) List(ctx context.Context) ([]models.UploadTask, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, listUploads)
	if err != nil {
		log.Err(err).
			Str("func", "uploadRepository.List").
			Msg("failed to query pending uploads")
		return nil, fmt.Errorf("failed to query pending uploads: %w", err)
	}
	defer rows.Close()

	var tasks []models.UploadTask
	for rows.Next() {
		var task models.UploadTask

		scanErr := rows.Scan(
			&task.ID,
			&task.FileName,
			&task.LocalPath,
			&task.Bucket,
			&task.ObjectPath,
			&task.Status,
			&task.Retries,
			&task.EnqueuedAt,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "uploadRepository.List").
				Msg("failed to scan upload task row")
			return nil, fmt.Errorf("failed to scan upload task row: %w", scanErr)
		}

		tasks = append(tasks, task)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "uploadRepository.List").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("error iterating upload task rows: %w", rowsErr)
	}

	return tasks, nil
}

func (r *uploadRepository) Remove(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, removeUpload, id)
	if err != nil {
		log.Err(err).
			Str("func", "uploadRepository.Remove").
			Str("task_id", id).
			Msg("failed to remove upload task")
		return fmt.Errorf("failed to remove upload task (id=%s): %w", id, err)
	}

	return nil
}

func (r *uploadRepository) IncrementRetry(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, incrementUploadRetry, id)
	if err != nil {
		log.Err(err).
			Str("func", "uploadRepository.IncrementRetry").
			Str("task_id", id).
			Msg("failed to increment upload retries")
		return fmt.Errorf("failed to increment upload retries (id=%s): %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected (id=%s): %w", id, err)
	}
	if rowsAffected == 0 {
		log.Warn().
			Str("func", "uploadRepository.IncrementRetry").
			Str("task_id", id).
			Msg("no rows affected during retry increment: task not found")
		return fmt.Errorf("failed to increment upload retries: %w (id=%s)", ErrNotFound, id)
	}

	return nil
}

func (r *uploadRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, countUploads).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count pending uploads: %w", err)
	}
	return n, nil
}
