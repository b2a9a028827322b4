package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/biotaxa/taxoclient/internal/logger"
	"github.com/biotaxa/taxoclient/internal/remote"
	"github.com/biotaxa/taxoclient/internal/store"
	"github.com/biotaxa/taxoclient/models"
)

// statusReporter is the slice of the network status observer the sync engine
// needs: reading the current state and reporting outages it discovers
// between probes.
type statusReporter interface {
	Online() bool
	SetOnline(online bool)
}

type syncService struct {
	remote   remote.Client
	mirror   store.MirrorRepository
	queue    OperationQueue
	net      statusReporter
	notifier Notifier
	logger   *logger.Logger

	// drainMu serializes queue drains so a tick-triggered drain never
	// overlaps a transition-triggered one. Drains run to completion.
	drainMu sync.Mutex

	now func() time.Time
}

// NewSyncService creates the engine that reconciles the local mirror and
// operation queue with the backend.
func NewSyncService(remoteClient remote.Client, mirror store.MirrorRepository, queue OperationQueue, net statusReporter, notifier Notifier, logger *logger.Logger) SyncService {
	return &syncService{
		remote:   remoteClient,
		mirror:   mirror,
		queue:    queue,
		net:      net,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// SyncFromRemote implements SyncService.
func (s *syncService) SyncFromRemote(ctx context.Context, table, orgID string, since time.Time) (int, error) {
	log := s.logger.With().Str("func", "SyncFromRemote").Str("table", table).Logger()

	filter := remote.Filter{UpdatedAfter: since}
	if orgID != "" {
		filter.Eq = map[string]string{"organization_id": orgID}
	}

	rows, err := s.remote.Select(ctx, table, filter)
	if err != nil {
		if errors.Is(err, remote.ErrUnavailable) {
			s.net.SetOnline(false)
		}
		return 0, fmt.Errorf("pull %s: %w", table, err)
	}

	records := make([]models.MirrorRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := mirrorRecordFrom(table, row)
		if err != nil {
			log.Warn().Err(err).Msg("skipping unidentifiable remote row")
			continue
		}
		records = append(records, rec)
	}

	if len(records) > 0 {
		if err = s.mirror.Upsert(ctx, records...); err != nil {
			return 0, fmt.Errorf("mirror %s rows: %w", table, err)
		}
	}

	log.Info().Int("rows", len(records)).Msg("remote rows mirrored")
	return len(records), nil
}

// SyncToRemote implements SyncService. Operations are replayed against a
// snapshot of the queue so a kept-for-retry failure is revisited on the next
// drain, not in a tight loop within this one. A connectivity failure aborts
// the drain without charging any operation's retry count: an outage is a
// mode change, not an item failure.
func (s *syncService) SyncToRemote(ctx context.Context) error {
	s.drainMu.Lock()
	defer s.drainMu.Unlock()

	ops, err := s.queue.List(ctx)
	if err != nil {
		return fmt.Errorf("list pending operations: %w", err)
	}

	log := s.logger.With().Str("func", "SyncToRemote").Logger()
	log.Debug().Int("pending", len(ops)).Msg("draining operation queue")

	for _, op := range ops {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		// rows at the ceiling get no further dispatch; the queue never
		// persists such a count itself, but externally written rows could
		if !s.queue.ShouldRetry(op) {
			s.dropOperation(ctx, op, fmt.Errorf("retry ceiling reached after %d attempts", op.RetryCount))
			continue
		}

		dispatchErr := s.dispatch(ctx, op)
		if dispatchErr == nil {
			if err = s.queue.Remove(ctx, op.ID); err != nil {
				return fmt.Errorf("remove acked operation %s: %w", op.ID, err)
			}
			continue
		}

		if errors.Is(dispatchErr, remote.ErrUnavailable) {
			s.net.SetOnline(false)
			log.Warn().Err(dispatchErr).Msg("backend unreachable, drain suspended")
			return nil
		}

		if !retryableOperation(dispatchErr) {
			s.dropOperation(ctx, op, dispatchErr)
			continue
		}

		op.RetryCount++
		if !s.queue.ShouldRetry(op) {
			s.dropOperation(ctx, op, dispatchErr)
			continue
		}
		if err = s.queue.UpdateRetryCount(ctx, op); err != nil {
			return fmt.Errorf("record failed attempt for %s: %w", op.ID, err)
		}
		log.Warn().
			Str("operation_id", op.ID).
			Int("retry_count", op.RetryCount).
			Err(dispatchErr).
			Msg("replay failed, kept for next drain")
	}

	return nil
}

// SyncProcessedData implements SyncService.
func (s *syncService) SyncProcessedData(ctx context.Context, data models.ProcessedData) error {
	if err := data.Validate(); err != nil {
		return fmt.Errorf("%w: %v", remote.ErrValidation, err)
	}
	if data.UpdatedAt.IsZero() {
		data.UpdatedAt = s.now()
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode processed data: %w", err)
	}

	if !s.net.Online() {
		_, err = s.queue.Enqueue(ctx, models.OperationUpdate, models.TableProcessedData, payload)
		return err
	}

	if err = s.remote.Upsert(ctx, models.TableProcessedData, payload); err != nil {
		if errors.Is(err, remote.ErrValidation) {
			return err
		}
		if errors.Is(err, remote.ErrUnavailable) {
			s.net.SetOnline(false)
		}
		s.logger.Warn().
			Str("func", "SyncProcessedData").
			Str("sample_id", data.SampleID).
			Err(err).
			Msg("upsert failed, queued for replay")
		_, err = s.queue.Enqueue(ctx, models.OperationUpdate, models.TableProcessedData, payload)
		return err
	}

	rec, err := mirrorRecordFrom(models.TableProcessedData, payload)
	if err != nil {
		return nil
	}
	if err = s.mirror.Upsert(ctx, rec); err != nil {
		s.logger.Warn().
			Str("func", "SyncProcessedData").
			Err(err).
			Msg("remote upsert acked but local mirror write failed")
	}

	return nil
}

// LocalRecords implements SyncService.
func (s *syncService) LocalRecords(ctx context.Context, table, orgID string) ([]models.MirrorRecord, error) {
	return s.mirror.Select(ctx, table, orgID, time.Time{})
}

// LocalRecord implements SyncService.
func (s *syncService) LocalRecord(ctx context.Context, table, id string) (models.MirrorRecord, error) {
	return s.mirror.Get(ctx, table, id)
}

func (s *syncService) dispatch(ctx context.Context, op models.PendingOperation) error {
	switch op.Type {
	case models.OperationCreate:
		_, err := s.remote.Insert(ctx, op.Table, op.Payload)
		return err
	case models.OperationUpdate:
		if op.PayloadID() != "" {
			return s.remote.Update(ctx, op.Table, op.Payload)
		}
		// composite-keyed rows (no backend-assigned id yet) go through
		// the last-write-wins upsert instead
		return s.remote.Upsert(ctx, op.Table, op.Payload)
	case models.OperationDelete:
		id := op.PayloadID()
		if id == "" {
			return fmt.Errorf("%w: delete payload for %s has no id", remote.ErrValidation, op.Table)
		}
		return s.remote.Delete(ctx, op.Table, id)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOperationType, op.Type)
	}
}

func (s *syncService) dropOperation(ctx context.Context, op models.PendingOperation, cause error) {
	if err := s.queue.Remove(ctx, op.ID); err != nil {
		s.logger.Error().
			Str("func", "dropOperation").
			Str("operation_id", op.ID).
			Err(err).
			Msg("remove dropped operation")
		return
	}
	s.notifier.OperationDropped(op, cause)
}

// retryableOperation reports whether a replay failure can succeed on a later
// drain. Validation rejections and malformed operations never can.
func retryableOperation(err error) bool {
	return !errors.Is(err, remote.ErrValidation) &&
		!errors.Is(err, remote.ErrBadRequest) &&
		!errors.Is(err, ErrUnknownOperationType)
}

// mirrorRecordFrom extracts the mirror key columns from a raw remote row.
func mirrorRecordFrom(table string, row json.RawMessage) (models.MirrorRecord, error) {
	var probe struct {
		ID        string    `json:"id"`
		OrgID     string    `json:"organization_id"`
		SampleID  string    `json:"sample_id"`
		ConfigID  string    `json:"config_id"`
		UpdatedAt time.Time `json:"updated_at"`
	}
	if err := json.Unmarshal(row, &probe); err != nil {
		return models.MirrorRecord{}, fmt.Errorf("decode %s row: %w", table, err)
	}

	id := probe.ID
	if id == "" && probe.SampleID != "" && probe.ConfigID != "" {
		// processed data is keyed by (sample, config) until the backend
		// assigns a row id
		id = probe.SampleID + ":" + probe.ConfigID
	}
	if id == "" {
		return models.MirrorRecord{}, fmt.Errorf("%s row has no usable key", table)
	}

	return models.MirrorRecord{
		Table:     table,
		ID:        id,
		OrgID:     probe.OrgID,
		UpdatedAt: probe.UpdatedAt,
		Payload:   row,
	}, nil
}
