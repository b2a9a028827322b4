package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/biotaxa/taxoclient/internal/logger"
	"github.com/biotaxa/taxoclient/internal/store"
	"github.com/biotaxa/taxoclient/models"
)

type operationQueue struct {
	repo   store.OperationRepository
	logger *logger.Logger

	now func() time.Time
}

// NewOperationQueue creates the durable write queue over repo.
func NewOperationQueue(repo store.OperationRepository, logger *logger.Logger) OperationQueue {
	return &operationQueue{repo: repo, logger: logger, now: time.Now}
}

// Enqueue implements OperationQueue.
func (q *operationQueue) Enqueue(ctx context.Context, opType models.OperationType, table string, payload json.RawMessage) (models.PendingOperation, error) {
	op := models.PendingOperation{
		ID:         uuid.NewString(),
		Type:       opType,
		Table:      table,
		Payload:    payload,
		Timestamp:  q.now(),
		RetryCount: 0,
	}

	if err := q.repo.Enqueue(ctx, op); err != nil {
		return models.PendingOperation{}, fmt.Errorf("enqueue %s on %s: %w", opType, table, err)
	}

	q.logger.Debug().
		Str("func", "Enqueue").
		Str("operation_id", op.ID).
		Str("type", string(opType)).
		Str("table", table).
		Msg("operation queued")

	return op, nil
}

// Dequeue implements OperationQueue.
func (q *operationQueue) Dequeue(ctx context.Context) (models.PendingOperation, error) {
	return q.repo.Dequeue(ctx)
}

// List implements OperationQueue.
func (q *operationQueue) List(ctx context.Context) ([]models.PendingOperation, error) {
	return q.repo.List(ctx)
}

// Remove implements OperationQueue.
func (q *operationQueue) Remove(ctx context.Context, id string) error {
	return q.repo.Remove(ctx, id)
}

// ShouldRetry implements OperationQueue.
func (q *operationQueue) ShouldRetry(op models.PendingOperation) bool {
	return op.RetryCount < models.MaxRetries
}

// UpdateRetryCount implements OperationQueue.
func (q *operationQueue) UpdateRetryCount(ctx context.Context, op models.PendingOperation) error {
	if err := q.repo.IncrementRetry(ctx, op.ID); err != nil {
		return fmt.Errorf("increment retry for operation %s: %w", op.ID, err)
	}
	return nil
}

// Pending implements OperationQueue.
func (q *operationQueue) Pending(ctx context.Context) (int, error) {
	return q.repo.Count(ctx)
}
