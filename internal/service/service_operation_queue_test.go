package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/biotaxa/taxoclient/internal/logger"
	"github.com/biotaxa/taxoclient/internal/mock"
	"github.com/biotaxa/taxoclient/internal/store"
	"github.com/biotaxa/taxoclient/models"
)

func newTestQueue(t *testing.T) (*operationQueue, *mock.MockOperationRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mock.NewMockOperationRepository(ctrl)
	q := NewOperationQueue(repo, logger.Nop()).(*operationQueue)
	return q, repo
}

func TestOperationQueue_Enqueue_AssignsIdentity(t *testing.T) {
	q, repo := newTestQueue(t)
	ctx := context.Background()

	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	q.now = func() time.Time { return fixed }

	var persisted models.PendingOperation
	repo.EXPECT().
		Enqueue(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, op models.PendingOperation) error {
			persisted = op
			return nil
		})

	payload := json.RawMessage(`{"id":"s-1","name":"soil-7"}`)
	op, err := q.Enqueue(ctx, models.OperationCreate, "samples", payload)
	require.NoError(t, err)

	assert.NotEmpty(t, op.ID)
	assert.Equal(t, models.OperationCreate, op.Type)
	assert.Equal(t, "samples", op.Table)
	assert.Equal(t, fixed, op.Timestamp)
	assert.Zero(t, op.RetryCount)
	assert.Equal(t, op, persisted, "returned operation must match the persisted one")
}

func TestOperationQueue_Enqueue_PersistenceErrorPropagates(t *testing.T) {
	q, repo := newTestQueue(t)
	ctx := context.Background()

	repo.EXPECT().Enqueue(ctx, gomock.Any()).Return(errors.New("disk full"))

	_, err := q.Enqueue(ctx, models.OperationDelete, "samples", json.RawMessage(`{"id":"s-1"}`))
	assert.ErrorContains(t, err, "disk full")
}

func TestOperationQueue_Dequeue_Empty(t *testing.T) {
	q, repo := newTestQueue(t)
	ctx := context.Background()

	repo.EXPECT().Dequeue(ctx).Return(models.PendingOperation{}, store.ErrQueueEmpty)

	_, err := q.Dequeue(ctx)
	assert.ErrorIs(t, err, store.ErrQueueEmpty)
}

func TestOperationQueue_ShouldRetry(t *testing.T) {
	q, _ := newTestQueue(t)

	assert.True(t, q.ShouldRetry(models.PendingOperation{RetryCount: 0}))
	assert.True(t, q.ShouldRetry(models.PendingOperation{RetryCount: 2}))
	assert.False(t, q.ShouldRetry(models.PendingOperation{RetryCount: 3}))
	assert.False(t, q.ShouldRetry(models.PendingOperation{RetryCount: 7}))
}

func TestOperationQueue_UpdateRetryCount(t *testing.T) {
	q, repo := newTestQueue(t)
	ctx := context.Background()

	repo.EXPECT().IncrementRetry(ctx, "op-1").Return(nil)
	require.NoError(t, q.UpdateRetryCount(ctx, models.PendingOperation{ID: "op-1"}))

	repo.EXPECT().IncrementRetry(ctx, "op-2").Return(store.ErrNotFound)
	err := q.UpdateRetryCount(ctx, models.PendingOperation{ID: "op-2"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}
