package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/biotaxa/taxoclient/internal/logger"
	"github.com/biotaxa/taxoclient/models"
)

type operationRepository struct {
	*DB
	logger *logger.Logger
}

// NewOperationRepository returns the SQLite-backed pending-operations queue.
func NewOperationRepository(db *DB, logger *logger.Logger) OperationRepository {
	return &operationRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *operationRepository) Enqueue(ctx context.Context, op models.PendingOperation) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, enqueueOperation,
		op.ID,
		op.Type,
		op.Table,
		string(op.Payload),
		op.Timestamp,
		op.RetryCount,
	)
	if err != nil {
		log.Err(err).
			Str("func", "operationRepository.Enqueue").
			Str("op_id", op.ID).
			Str("table", op.Table).
			Msg("failed to persist pending operation")
		return fmt.Errorf("failed to enqueue operation (id=%s): %w", op.ID, err)
	}

	return nil
}

func (r *operationRepository) Dequeue(ctx context.Context) (models.PendingOperation, error) {
	log := logger.FromContext(ctx)

	row := r.DB.QueryRowContext(ctx, dequeueOperation)

	op, err := scanOperation(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PendingOperation{}, ErrQueueEmpty
		}
		log.Err(err).
			Str("func", "operationRepository.Dequeue").
			Msg("failed to scan pending operation row")
		return models.PendingOperation{}, fmt.Errorf("failed to dequeue operation: %w", err)
	}

	return op, nil
}

func (r *operationRepository) List(ctx context.Context) ([]models.PendingOperation, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, listOperations)
	if err != nil {
		log.Err(err).
			Str("func", "operationRepository.List").
			Msg("failed to query pending operations")
		return nil, fmt.Errorf("failed to query pending operations: %w", err)
	}
	defer rows.Close()

	var ops []models.PendingOperation
	for rows.Next() {
		op, scanErr := scanOperation(rows.Scan)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "operationRepository.List").
				Msg("failed to scan pending operation row")
			return nil, fmt.Errorf("failed to scan pending operation row: %w", scanErr)
		}
		ops = append(ops, op)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "operationRepository.List").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("error iterating pending operation rows: %w", rowsErr)
	}

	return ops, nil
}

func (r *operationRepository) Remove(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	// Deleting an id that is already gone affects zero rows, which keeps
	// Remove idempotent.
	_, err := r.DB.ExecContext(ctx, removeOperation, id)
	if err != nil {
		log.Err(err).
			Str("func", "operationRepository.Remove").
			Str("op_id", id).
			Msg("failed to remove pending operation")
		return fmt.Errorf("failed to remove operation (id=%s): %w", id, err)
	}

	return nil
}

func (r *operationRepository) IncrementRetry(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, incrementOperationRetry, id)
	if err != nil {
		log.Err(err).
			Str("func", "operationRepository.IncrementRetry").
			Str("op_id", id).
			Msg("failed to increment retry count")
		return fmt.Errorf("failed to increment retry count (id=%s): %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected (id=%s): %w", id, err)
	}
	if rowsAffected == 0 {
		log.Warn().
			Str("func", "operationRepository.IncrementRetry").
			Str("op_id", id).
			Msg("no rows affected during retry increment: operation not found")
		return fmt.Errorf("failed to increment retry count: %w (id=%s)", ErrNotFound, id)
	}

	return nil
}

func (r *operationRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, countOperations).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count pending operations: %w", err)
	}
	return n, nil
}

func scanOperation(scan func(dest ...any) error) (models.PendingOperation, error) {
	var op models.PendingOperation
	var payload string

	err := scan(
		&op.ID,
		&op.Type,
		&op.Table,
		&payload,
		&op.Timestamp,
		&op.RetryCount,
	)
	if err != nil {
		return models.PendingOperation{}, err
	}

	op.Payload = []byte(payload)
	return op, nil
}
